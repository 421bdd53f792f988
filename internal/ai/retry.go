package ai

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy 限流重试策略。
type RetryPolicy struct {
	MaxAttempts int           // 总尝试次数
	Backoff     time.Duration // 每次重试前的固定等待
}

// DefaultRetryPolicy 图像生成默认策略:5 次尝试,每次间隔 1 秒。
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 5, Backoff: time.Second}

// RetryRateLimited 执行 op,遇到限流信号时等待 Backoff 后重试,
// 最多尝试 MaxAttempts 次。其他错误立即返回不重试。
// 重试之间会真实阻塞等待,调用方需按阻塞操作对待。
func RetryRateLimited(ctx context.Context, policy RetryPolicy, op func() error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !IsRateLimit(err) {
			return err
		}
		if attempt == policy.MaxAttempts {
			break
		}
		select {
		case <-time.After(policy.Backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: gave up after %d attempts", ErrRateLimitExceeded, policy.MaxAttempts)
}
