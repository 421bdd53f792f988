package ai

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeVision struct {
	ann Annotation
	err error
}

func (f fakeVision) Describe(_ context.Context, _ string) (Annotation, error) {
	return f.ann, f.err
}

func TestAnnotateBestEffort(t *testing.T) {
	v := NewVisionAnnotator(fakeVision{err: errors.New("service down")})
	ann := v.Annotate(context.Background(), "http://example.com/a.png")
	if ann.Caption != "" || len(ann.Tags) != 0 {
		t.Errorf("failure must yield empty annotation, got %+v", ann)
	}
}

func TestAnnotatePassesThrough(t *testing.T) {
	want := Annotation{Caption: "a fox in snow", Tags: []string{"fox", "snow"}}
	v := NewVisionAnnotator(fakeVision{ann: want})
	got := v.Annotate(context.Background(), "http://example.com/a.png")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v", got)
	}
}

func TestParseAnnotation(t *testing.T) {
	ann, err := parseAnnotation(`{"caption":" a fox ","tags":[" fox","","snow"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ann.Caption != "a fox" {
		t.Errorf("caption %q", ann.Caption)
	}
	if !reflect.DeepEqual(ann.Tags, []string{"fox", "snow"}) {
		t.Errorf("tags %v", ann.Tags)
	}
}

func TestParseAnnotationFenced(t *testing.T) {
	raw := "```json\n{\"caption\":\"a fox\",\"tags\":[\"fox\"]}\n```"
	ann, err := parseAnnotation(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ann.Caption != "a fox" {
		t.Errorf("caption %q", ann.Caption)
	}
}

func TestParseAnnotationGarbage(t *testing.T) {
	if _, err := parseAnnotation("not json at all"); err == nil {
		t.Fatal("expected error")
	}
}
