package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// InvalidStyleText 未知风格的哨兵结果文本。
const InvalidStyleText = "invalid curation style"

// ErrUnknownStyle 标记未知风格的软错误。
var ErrUnknownStyle = errors.New("unknown curation style")

// CurationResult 策展结果。Text 永远是可直接展示的内容;
// Err 非空表示软失败(未知风格或服务错误),由 UI 层决定是否原样渲染。
// 策展是附加功能,失败以文本形式返回而不是抛错,这是有意的产品取舍。
type CurationResult struct {
	Style Style  `json:"style"`
	Text  string `json:"text"`
	Err   error  `json:"-"`
}

// CurationEngine 按风格生成作品的自然语言策展文本。
// 各风格的系统指令(含约 100 词/800 字的长度约束)来自外部指令资源。
type CurationEngine struct {
	llm          TextClient
	instructions map[Style]string
}

func NewCurationEngine(llm TextClient, policy *StylePolicy) *CurationEngine {
	return &CurationEngine{llm: llm, instructions: policy.Curations}
}

// Curate 生成一段策展文本,每次请求重新计算,不持久化。
func (e *CurationEngine) Curate(ctx context.Context, style Style, prompt, caption string, tags []string) CurationResult {
	instruction, ok := e.instructions[style]
	if !ok {
		return CurationResult{Style: style, Text: InvalidStyleText, Err: ErrUnknownStyle}
	}

	var sb strings.Builder
	sb.WriteString("Artwork context:\n")
	if prompt != "" {
		fmt.Fprintf(&sb, "Generation prompt: %s\n", prompt)
	}
	if caption != "" {
		fmt.Fprintf(&sb, "Caption: %s\n", caption)
	}
	if len(tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(tags, ", "))
	}

	text, err := e.llm.Complete(ctx, instruction, sb.String())
	if err != nil {
		return CurationResult{
			Style: style,
			Text:  fmt.Sprintf("curation unavailable: %v", err),
			Err:   err,
		}
	}
	return CurationResult{Style: style, Text: text}
}
