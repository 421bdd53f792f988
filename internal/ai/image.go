package ai

import (
	"context"
	"errors"
	"fmt"
)

// ImageSynthesizer 按合成好的提示词请求图像生成服务,每次一张。
// 只有限流会按策略重试,其他失败直接向调用方返回。
type ImageSynthesizer struct {
	client ImageClient
	retry  RetryPolicy
}

func NewImageSynthesizer(client ImageClient, retry RetryPolicy) *ImageSynthesizer {
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy
	}
	return &ImageSynthesizer{client: client, retry: retry}
}

// Synthesize 返回一条临时图片 URL,有效期很短,必须立即交给持久化环节。
// 服务成功但结果为空同样视为 ErrImageGeneration。
func (s *ImageSynthesizer) Synthesize(ctx context.Context, prompt string) (string, error) {
	var url string
	err := RetryRateLimited(ctx, s.retry, func() error {
		u, err := s.client.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		if u == "" {
			return fmt.Errorf("%w: empty result", ErrImageGeneration)
		}
		url = u
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRateLimitExceeded) || errors.Is(err, ErrImageGeneration) {
			return "", err
		}
		// 带上服务端错误码,便于区分内容策略拒绝和基础设施故障
		if code := serviceCode(err); code != "" {
			return "", fmt.Errorf("%w: %s: %v", ErrImageGeneration, code, err)
		}
		return "", fmt.Errorf("%w: %v", ErrImageGeneration, err)
	}
	return url, nil
}
