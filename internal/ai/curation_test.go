package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCurateUnknownStyleReturnsSentinel(t *testing.T) {
	e := NewCurationEngine(fakeText{out: "unused"}, testPolicy())
	res := e.Curate(context.Background(), Style("vibes"), "prompt", "caption", nil)
	if res.Text != InvalidStyleText {
		t.Errorf("got %q", res.Text)
	}
	if !errors.Is(res.Err, ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", res.Err)
	}
}

func TestCurateServiceErrorReturnedAsText(t *testing.T) {
	e := NewCurationEngine(fakeText{err: errors.New("service down")}, testPolicy())
	res := e.Curate(context.Background(), StyleEmotional, "prompt", "caption", []string{"fox"})
	if res.Err == nil {
		t.Fatal("expected soft error")
	}
	if !strings.Contains(res.Text, "curation unavailable") {
		t.Errorf("error must be visible in text, got %q", res.Text)
	}
}

func TestCurateReturnsTextVerbatim(t *testing.T) {
	e := NewCurationEngine(fakeText{out: "  a moving piece  "}, testPolicy())
	res := e.Curate(context.Background(), StyleEmotional, "prompt", "caption", []string{"fox", "snow"})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Text != "  a moving piece  " {
		t.Errorf("curation text must be verbatim, got %q", res.Text)
	}
}

func TestParseStyle(t *testing.T) {
	if s, ok := ParseStyle("  Emotional "); !ok || s != StyleEmotional {
		t.Errorf("got %q, %v", s, ok)
	}
	if _, ok := ParseStyle("vibes"); ok {
		t.Error("unknown style must not parse")
	}
}
