package ai

import (
	"context"
	"log/slog"
)

// VisionAnnotator 对已持久化的图片生成描述和标签。
// 标注是尽力而为的补充信息,任何失败都只记日志并返回空结果,
// 绝不阻塞作品创建。
type VisionAnnotator struct {
	client VisionClient
}

func NewVisionAnnotator(client VisionClient) *VisionAnnotator {
	return &VisionAnnotator{client: client}
}

func (v *VisionAnnotator) Annotate(ctx context.Context, imageURL string) Annotation {
	ann, err := v.client.Describe(ctx, imageURL)
	if err != nil {
		slog.Warn("Annotation unavailable", "image_url", imageURL, "error", err)
		return Annotation{}
	}
	return ann
}
