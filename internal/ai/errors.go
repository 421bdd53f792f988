package ai

import (
	"errors"
	"net/http"

	openai "github.com/openai/openai-go"
)

// 流水线错误分类。硬失败中止整次调用,软失败(标注、策展)不在此列。
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrPromptGeneration  = errors.New("prompt generation failed")
	ErrImageGeneration   = errors.New("image generation failed")
)

// IsRateLimit 判断错误是否为限流信号。
func IsRateLimit(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests || apierr.Code == "rate_limit_exceeded"
	}
	return errors.Is(err, ErrRateLimitExceeded)
}

// serviceCode 提取服务端返回的机器可读错误码,没有则为空。
func serviceCode(err error) string {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.Code
	}
	return ""
}
