package ai

import (
	"context"
	"errors"
	"testing"
)

func TestRetryRateLimitedSucceedsOnLastAttempt(t *testing.T) {
	calls := 0
	err := RetryRateLimited(context.Background(), RetryPolicy{MaxAttempts: 5}, func() error {
		calls++
		if calls < 5 {
			return ErrRateLimitExceeded
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 attempts, got %d", calls)
	}
}

func TestRetryRateLimitedExhaustsAttempts(t *testing.T) {
	calls := 0
	err := RetryRateLimited(context.Background(), RetryPolicy{MaxAttempts: 5}, func() error {
		calls++
		return ErrRateLimitExceeded
	})
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if calls != 5 {
		t.Errorf("expected exactly 5 attempts, got %d", calls)
	}
}

func TestRetryRateLimitedDoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := RetryRateLimited(context.Background(), RetryPolicy{MaxAttempts: 5}, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt, got %d", calls)
	}
}

func TestRetryRateLimitedSingleAttemptFloor(t *testing.T) {
	calls := 0
	err := RetryRateLimited(context.Background(), RetryPolicy{}, func() error {
		calls++
		return ErrRateLimitExceeded
	})
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt, got %d", calls)
	}
}
