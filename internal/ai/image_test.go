package ai

import (
	"context"
	"errors"
	"testing"
)

type fakeImage struct {
	calls   int
	limited int // 前 limited 次调用返回限流错误
	url     string
	err     error
}

func (f *fakeImage) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.calls <= f.limited {
		return "", ErrRateLimitExceeded
	}
	return f.url, f.err
}

func TestImageSynthesizeRetriesRateLimit(t *testing.T) {
	client := &fakeImage{limited: 4, url: "https://cdn.example.com/tmp.png"}
	s := NewImageSynthesizer(client, RetryPolicy{MaxAttempts: 5})

	url, err := s.Synthesize(context.Background(), "a fox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != client.url {
		t.Errorf("got %q", url)
	}
	if client.calls != 5 {
		t.Errorf("expected 5 attempts, got %d", client.calls)
	}
}

func TestImageSynthesizePermanentRateLimit(t *testing.T) {
	client := &fakeImage{limited: 100}
	s := NewImageSynthesizer(client, RetryPolicy{MaxAttempts: 5})

	_, err := s.Synthesize(context.Background(), "a fox")
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if client.calls != 5 {
		t.Errorf("expected exactly 5 attempts, got %d", client.calls)
	}
}

func TestImageSynthesizeEmptyResultIsFailure(t *testing.T) {
	client := &fakeImage{url: ""}
	s := NewImageSynthesizer(client, RetryPolicy{MaxAttempts: 5})

	_, err := s.Synthesize(context.Background(), "a fox")
	if !errors.Is(err, ErrImageGeneration) {
		t.Fatalf("expected ErrImageGeneration, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("empty result must not be retried, got %d attempts", client.calls)
	}
}

func TestImageSynthesizeOtherErrorNotRetried(t *testing.T) {
	client := &fakeImage{err: errors.New("content policy violation")}
	s := NewImageSynthesizer(client, RetryPolicy{MaxAttempts: 5})

	_, err := s.Synthesize(context.Background(), "a fox")
	if !errors.Is(err, ErrImageGeneration) {
		t.Fatalf("expected ErrImageGeneration, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("expected 1 attempt, got %d", client.calls)
	}
}
