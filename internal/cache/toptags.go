package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/notes-bin/artbed/internal/redis"
)

// StartTopTagsRefresh 周期性地把热门标签快照写进缓存,
// 列表接口读快照,避免每次请求都扫全量账本。
func StartTopTagsRefresh(ctx context.Context, redis *redis.Client, interval, limit int) {
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counts, err := redis.TopTags(ctx, limit)
			if err != nil {
				slog.Error("Failed to refresh top tags", "error", err)
				continue
			}
			ttl := 2 * time.Duration(interval) * time.Second
			if err := redis.CacheTopTags(ctx, counts, ttl); err != nil {
				slog.Error("Failed to cache top tags", "error", err)
				continue
			}
			slog.Info("Refreshed top tags cache", "tags", len(counts))
		}
	}
}
