package ai

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Style 策展风格选择器,取值来自固定枚举。
type Style string

const (
	StyleEmotional     Style = "emotional"     // 情感共鸣
	StyleInterpretive  Style = "interpretive"  // 意象解读
	StyleHistorical    Style = "historical"    // 艺术史脉络
	StyleCritical      Style = "critical"      // 评论视角
	StyleNarrative     Style = "narrative"     // 叙事想象
	StyleTrend         Style = "trend"         // 流行趋势
	StyleValuation     Style = "valuation"     // 收藏价值
	StyleAdvocacy      Style = "advocacy"      // 推广文案
	StyleAccessibility Style = "accessibility" // 无障碍描述
)

var knownStyles = map[Style]bool{
	StyleEmotional:     true,
	StyleInterpretive:  true,
	StyleHistorical:    true,
	StyleCritical:      true,
	StyleNarrative:     true,
	StyleTrend:         true,
	StyleValuation:     true,
	StyleAdvocacy:      true,
	StyleAccessibility: true,
}

// ParseStyle 校验风格选择器,未知取值返回 false。
func ParseStyle(s string) (Style, bool) {
	style := Style(strings.ToLower(strings.TrimSpace(s)))
	return style, knownStyles[style]
}

// StylePolicy 外部指令资源:提示词合成的系统指令与各策展风格的指令文本。
// 进程启动时加载一次,之后只读;指令演进只改资源文件,不改代码。
type StylePolicy struct {
	PromptInstruction string           `json:"prompt_instruction"`
	Curations         map[Style]string `json:"curations"`
}

// LoadStylePolicy 读取并校验指令资源。未知风格键和缺失风格都在
// 加载阶段直接报错,不留到请求阶段。
func LoadStylePolicy(path string) (*StylePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style policy: %w", err)
	}
	var policy StylePolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("parse style policy: %w", err)
	}
	if strings.TrimSpace(policy.PromptInstruction) == "" {
		return nil, fmt.Errorf("style policy: prompt_instruction is empty")
	}
	for style := range policy.Curations {
		if !knownStyles[style] {
			return nil, fmt.Errorf("style policy: unknown curation style %q", style)
		}
	}
	for style := range knownStyles {
		if strings.TrimSpace(policy.Curations[style]) == "" {
			return nil, fmt.Errorf("style policy: missing curation style %q", style)
		}
	}
	return &policy, nil
}
