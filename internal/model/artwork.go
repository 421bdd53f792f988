package model

import "time"

type Artwork struct {
	ID              string    `json:"id"`                         // 作品 ID
	UserID          string    `json:"user_id"`                    // 创建用户 ID
	Title           string    `json:"title"`                      // 标题
	Content         string    `json:"content"`                    // 正文描述
	ImageURL        string    `json:"image_url,omitempty"`        // 持久图片 URL,生成成功前为空
	GeneratedPrompt string    `json:"generated_prompt,omitempty"` // 实际发送给图像模型的提示词
	Caption         string    `json:"caption,omitempty"`          // 图片描述
	Tags            []string  `json:"tags,omitempty"`             // 标签,为空表示未标注
	IsPublic        bool      `json:"is_public"`                  // 是否公开
	Views           int64     `json:"views"`                      // 访问次数
	CreatedAt       time.Time `json:"created_at"`                 // 创建时间
}

// GenerationRequest 一次生成流水线调用的临时输入,不落库。
type GenerationRequest struct {
	UserID    string    `json:"user_id"`
	Idea      string    `json:"idea"`
	CreatedAt time.Time `json:"created_at"`
}

type TagCount struct {
	Tag   string `json:"tag"`   // 标签
	Count int64  `json:"count"` // 全局使用次数
}
