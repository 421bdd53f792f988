package ai

import "context"

// TextClient 抽象文本生成服务,便于替换/Mock。
type TextClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ImageClient 图像生成服务,每次调用生成一张图片并返回临时 URL。
// 临时 URL 有效期很短,必须尽快下载消费,不能长期保存。
type ImageClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionClient 视觉服务,对图片 URL 生成描述和标签。
type VisionClient interface {
	Describe(ctx context.Context, imageURL string) (Annotation, error)
}

// Annotation 图片标注结果。
type Annotation struct {
	Caption string   `json:"caption"`
	Tags    []string `json:"tags"`
}
