package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestBlobNameNeverCollides(t *testing.T) {
	// 同一秒、同一所有者、同一提示词的 10000 次调用也不能同名
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		name := BlobName("alice", "a fox in a snowy forest at dawn", now)
		if seen[name] {
			t.Fatalf("collision at iteration %d: %s", i, name)
		}
		seen[name] = true
	}
}

func TestBlobNamePattern(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	name := BlobName("alice", "a fox! in snow", now)
	if !strings.HasPrefix(name, "alice_20250102030405_") {
		t.Errorf("unexpected prefix: %s", name)
	}
	if !strings.HasSuffix(name, "_a-fox-in-snow.png") {
		t.Errorf("unexpected suffix: %s", name)
	}
}

func TestBlobNameTruncatesLongPrompt(t *testing.T) {
	long := strings.Repeat("fox", 100)
	name := BlobName("alice", long, time.Now())
	parts := strings.Split(strings.TrimSuffix(name, ".png"), "_")
	prefix := parts[len(parts)-1]
	if len([]rune(prefix)) > 30 {
		t.Errorf("prompt fragment too long: %q", prefix)
	}
}

func TestBlobNameEmptyPromptFallback(t *testing.T) {
	name := BlobName("alice", "!!!", time.Now())
	if !strings.HasSuffix(name, "_image.png") {
		t.Errorf("expected fallback fragment, got %s", name)
	}
}

func TestBlobNameFromURL(t *testing.T) {
	got := BlobNameFromURL("http://localhost:8080/blobs/alice_20250102030405_ab12cd34_fox.png")
	if got != "alice_20250102030405_ab12cd34_fox.png" {
		t.Errorf("got %q", got)
	}
}

func TestSaveImageDownloadsAndPersists(t *testing.T) {
	payload := []byte("fake png bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	s, err := NewStorage(dir, "http://localhost:8080/blobs/")
	if err != nil {
		t.Fatal(err)
	}

	url, err := s.SaveImage(context.Background(), srv.URL+"/tmp.png", "a fox", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url == srv.URL+"/tmp.png" {
		t.Error("durable URL must differ from ephemeral URL")
	}
	if !strings.HasPrefix(url, "http://localhost:8080/blobs/alice_") {
		t.Errorf("unexpected durable URL: %s", url)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 blob, got %d", len(entries))
	}
	data, err := os.ReadFile(s.FilePath(entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(payload) {
		t.Error("blob content mismatch")
	}
}

func TestSaveImageDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	s, err := NewStorage(dir, "http://localhost:8080/blobs")
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.SaveImage(context.Background(), srv.URL+"/tmp.png", "a fox", "alice")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Error("failed download must not leave a blob behind")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, err := NewStorage(t.TempDir(), "http://localhost:8080/blobs")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("missing.png"); err != nil {
		t.Errorf("deleting a missing blob must succeed, got %v", err)
	}
}
