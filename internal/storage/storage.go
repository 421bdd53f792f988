package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrPersistence 图片持久化失败,流水线不得创建引用该图片的作品记录。
var ErrPersistence = errors.New("image persistence failed")

// Storage 本地对象存储,blob 经由 HTTP 服务以持久 URL 对外提供。
type Storage struct {
	uploadDir string
	baseURL   string
	client    *http.Client
}

func NewStorage(uploadDir, baseURL string) (*Storage, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, err
	}
	return &Storage{
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// SaveImage 下载临时 URL 的图片字节流,以唯一 blob 名落盘,返回持久 URL。
// blob 名带随机段,靠构造保证唯一,不依赖服务端覆盖检查。
func (s *Storage) SaveImage(ctx context.Context, ephemeralURL, prompt, ownerID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ephemeralURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: download: %v", ErrPersistence, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: download status %d", ErrPersistence, resp.StatusCode)
	}

	name := BlobName(ownerID, prompt, time.Now())
	if err := s.SaveFile(resp.Body, s.FilePath(name)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return s.URL(name), nil
}

func (s *Storage) SaveFile(file io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		slog.Error("Failed to create file", "path", path, "error", err)
		return err
	}
	defer out.Close()
	if _, err = io.Copy(out, file); err != nil {
		slog.Error("Failed to save file", "path", path, "error", err)
		os.Remove(path)
	}
	return err
}

// Delete 删除 blob,文件不存在视为成功(幂等)。
func (s *Storage) Delete(name string) error {
	err := os.Remove(s.FilePath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Storage) FilePath(name string) string {
	return filepath.Join(s.uploadDir, filepath.Base(name))
}

// URL 返回 blob 的持久访问地址。
func (s *Storage) URL(name string) string {
	return s.baseURL + "/" + name
}

// BlobName 构造不会碰撞的文件名:所有者 + 时间戳 + 随机段 + 清洗后的提示词前缀。
// 随机段保证同一秒内相同所有者、相同提示词的并发生成也不会同名。
func BlobName(ownerID, prompt string, now time.Time) string {
	rid := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%s_%s_%s.png",
		sanitize(ownerID), now.UTC().Format("20060102150405"), rid, promptPrefix(prompt))
}

// BlobNameFromURL 从持久 URL 提取 blob 名,用于删除作品时清理存储。
func BlobNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Base(u.Path)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// promptPrefix 取提示词前 30 个字符作为人类可读的文件名片段。
func promptPrefix(prompt string) string {
	r := []rune(strings.TrimSpace(prompt))
	if len(r) > 30 {
		r = r[:30]
	}
	p := sanitize(string(r))
	if p == "" {
		return "image"
	}
	return p
}
