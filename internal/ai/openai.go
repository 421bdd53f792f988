package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/notes-bin/artbed/internal/config"
)

func requestOptions(cfg *config.OpenAIConfig) []option.RequestOption {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

// OpenAIText implements TextClient using the official openai-go SDK (chat completions).
type OpenAIText struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAIText(cfg *config.OpenAIConfig) (*OpenAIText, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide openai.api_key")
	}
	if cfg.TextModel == "" {
		return nil, errors.New("openai text model is required")
	}
	return &OpenAIText{Model: cfg.TextModel, Opts: requestOptions(cfg)}, nil
}

func (o *OpenAIText) Complete(ctx context.Context, system, user string) (string, error) {
	client := openai.NewClient(o.Opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// OpenAIImage implements ImageClient,每次调用生成一张图片。
type OpenAIImage struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAIImage(cfg *config.OpenAIConfig) (*OpenAIImage, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide openai.api_key")
	}
	model := cfg.ImageModel
	if model == "" {
		model = string(openai.ImageModelDallE3)
	}
	return &OpenAIImage{Model: model, Opts: requestOptions(cfg)}, nil
}

func (o *OpenAIImage) Generate(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(o.Opts...)

	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(o.Model),
		Prompt: prompt,
		N:      openai.Int(1),
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Data) == 0 {
		// 成功但结果为空,等同于生成失败
		return "", nil
	}
	return resp.Data[0].URL, nil
}

// OpenAIVision implements VisionClient,通过多模态对话获取描述和标签。
type OpenAIVision struct {
	Model string
	Opts  []option.RequestOption
}

const visionInstruction = `You are an image analysis service. Look at the image and respond with JSON only, no prose:
{"caption": "<one short sentence describing the image>", "tags": ["<noun>", ...]}
Return the most confident caption first and up to 10 lowercase single-word tags.`

func NewOpenAIVision(cfg *config.OpenAIConfig) (*OpenAIVision, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide openai.api_key")
	}
	if cfg.VisionModel == "" {
		return nil, errors.New("openai vision model is required")
	}
	return &OpenAIVision{Model: cfg.VisionModel, Opts: requestOptions(cfg)}, nil
}

func (o *OpenAIVision) Describe(ctx context.Context, imageURL string) (Annotation, error) {
	client := openai.NewClient(o.Opts...)

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart("Describe this image."),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
	}
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(visionInstruction),
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		return Annotation{}, err
	}
	if len(resp.Choices) == 0 {
		return Annotation{}, errors.New("openai: empty choices")
	}
	return parseAnnotation(resp.Choices[0].Message.Content)
}

// parseAnnotation 解析模型返回的标注 JSON,兼容 ```json 代码块包裹。
func parseAnnotation(raw string) (Annotation, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var ann Annotation
	if err := json.Unmarshal([]byte(raw), &ann); err != nil {
		return Annotation{}, err
	}
	ann.Caption = strings.TrimSpace(ann.Caption)
	tags := ann.Tags[:0]
	for _, t := range ann.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	ann.Tags = tags
	return ann, nil
}
