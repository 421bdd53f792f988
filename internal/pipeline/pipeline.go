package pipeline

import (
	"context"

	"github.com/notes-bin/artbed/internal/ai"
	"github.com/notes-bin/artbed/internal/model"
)

// TagLedger 标签全局计数账本。
type TagLedger interface {
	RecordTags(ctx context.Context, tags []string) error
	ReleaseTags(ctx context.Context, tags []string) error
	TopTags(ctx context.Context, n int) ([]model.TagCount, error)
}

// BlobStore 持久对象存储。
type BlobStore interface {
	SaveImage(ctx context.Context, ephemeralURL, prompt, ownerID string) (string, error)
	Delete(name string) error
}

// Generation 一次生成流水线的结果。
type Generation struct {
	DurableURL      string `json:"durable_url"`
	GeneratedPrompt string `json:"generated_prompt"`
}

// Pipeline 串联提示词合成、图像生成、持久化、标注和策展,
// 是 CRUD 层消费的唯一入口。每次调用在单个请求内顺序阻塞执行,
// 组件本身无状态,不同用户的调用天然可并发。
type Pipeline struct {
	prompts *ai.PromptSynthesizer
	images  *ai.ImageSynthesizer
	vision  *ai.VisionAnnotator
	curator *ai.CurationEngine
	store   BlobStore
	ledger  TagLedger
}

func New(prompts *ai.PromptSynthesizer, images *ai.ImageSynthesizer, vision *ai.VisionAnnotator,
	curator *ai.CurationEngine, store BlobStore, ledger TagLedger) *Pipeline {
	return &Pipeline{
		prompts: prompts,
		images:  images,
		vision:  vision,
		curator: curator,
		store:   store,
		ledger:  ledger,
	}
}

// Generate 执行 想法 → 提示词 → 图像 → 持久化 的硬失败链。
// 任何一步失败都在落库前中止,持久化成功才是创建作品记录的提交点。
func (p *Pipeline) Generate(ctx context.Context, idea, ownerID string) (*Generation, error) {
	prompt, err := p.prompts.Synthesize(ctx, idea)
	if err != nil {
		return nil, err
	}
	ephemeralURL, err := p.images.Synthesize(ctx, prompt)
	if err != nil {
		return nil, err
	}
	durableURL, err := p.store.SaveImage(ctx, ephemeralURL, prompt, ownerID)
	if err != nil {
		return nil, err
	}
	return &Generation{DurableURL: durableURL, GeneratedPrompt: prompt}, nil
}

// Annotate 对持久图片做尽力而为的标注,失败返回空结果。
func (p *Pipeline) Annotate(ctx context.Context, durableURL string) ai.Annotation {
	return p.vision.Annotate(ctx, durableURL)
}

// RecordArtworkTags 作品创建时登记标签计数。
func (p *Pipeline) RecordArtworkTags(ctx context.Context, tags []string) error {
	return p.ledger.RecordTags(ctx, tags)
}

// ReleaseArtworkTags 作品删除时释放标签计数。
func (p *Pipeline) ReleaseArtworkTags(ctx context.Context, tags []string) error {
	return p.ledger.ReleaseTags(ctx, tags)
}

// Curate 针对已有作品生成策展文本,软失败以文本形式返回。
func (p *Pipeline) Curate(ctx context.Context, style ai.Style, prompt, caption string, tags []string) ai.CurationResult {
	return p.curator.Curate(ctx, style, prompt, caption, tags)
}
