package ai

import (
	"context"
	"errors"
	"testing"
)

type fakeText struct {
	out string
	err error
}

func (f fakeText) Complete(_ context.Context, _, _ string) (string, error) {
	return f.out, f.err
}

func testPolicy() *StylePolicy {
	return &StylePolicy{
		PromptInstruction: "generate a prompt",
		Curations:         map[Style]string{StyleEmotional: "be emotional"},
	}
}

func TestSynthesizeTrimsResponse(t *testing.T) {
	s := NewPromptSynthesizer(fakeText{out: "  a fox in snow \n"}, testPolicy())
	got, err := s.Synthesize(context.Background(), "fox idea")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a fox in snow" {
		t.Errorf("got %q", got)
	}
}

func TestSynthesizeRejectsEmptyIdea(t *testing.T) {
	s := NewPromptSynthesizer(fakeText{out: "whatever"}, testPolicy())
	for _, idea := range []string{"", "   ", "\n\t"} {
		if _, err := s.Synthesize(context.Background(), idea); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("idea %q: expected ErrInvalidInput, got %v", idea, err)
		}
	}
}

func TestSynthesizeWrapsServiceError(t *testing.T) {
	s := NewPromptSynthesizer(fakeText{err: errors.New("service down")}, testPolicy())
	_, err := s.Synthesize(context.Background(), "fox idea")
	if !errors.Is(err, ErrPromptGeneration) {
		t.Fatalf("expected ErrPromptGeneration, got %v", err)
	}
}

func TestSynthesizeNeverReturnsEmptySilently(t *testing.T) {
	s := NewPromptSynthesizer(fakeText{out: "   "}, testPolicy())
	got, err := s.Synthesize(context.Background(), "fox idea")
	if !errors.Is(err, ErrPromptGeneration) {
		t.Fatalf("expected ErrPromptGeneration, got %q, %v", got, err)
	}
}
