package ai

import (
	"context"
	"fmt"
	"strings"
)

// PromptSynthesizer 把用户的自由文本想法合成为可直接送入图像模型的提示词。
// 系统指令来自外部指令资源(含风格与违禁内容规则,并要求无论输入语言
// 一律输出英文提示词),提示词质量直接影响图像模型的内容策略拒绝率。
type PromptSynthesizer struct {
	llm         TextClient
	instruction string
}

func NewPromptSynthesizer(llm TextClient, policy *StylePolicy) *PromptSynthesizer {
	return &PromptSynthesizer{llm: llm, instruction: policy.PromptInstruction}
}

// Synthesize 返回修剪后的提示词文本。空输入为调用方错误,不重试;
// 服务错误一律包装为 ErrPromptGeneration,绝不静默返回空串。
func (s *PromptSynthesizer) Synthesize(ctx context.Context, idea string) (string, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return "", fmt.Errorf("%w: empty idea text", ErrInvalidInput)
	}

	text, err := s.llm.Complete(ctx, s.instruction, idea)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPromptGeneration, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrPromptGeneration)
	}
	return text, nil
}
