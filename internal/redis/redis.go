package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/notes-bin/artbed/internal/model"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(addr, password string, db, poolSize int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: poolSize,
	})
	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, err
	}
	slog.Info("Connected to Redis")
	return &Client{client}, nil
}

func (c *Client) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.Set(ctx, fmt.Sprintf("user:%s", user.ID), data, 0).Err()
}

func (c *Client) GetUser(ctx context.Context, username string) (*model.User, error) {
	data, err := c.Get(ctx, fmt.Sprintf("user:%s", username)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

const (
	publicArtworksKey = "artworks:public" // 按创建时间排序的公开作品
	artworkViewsKey   = "artwork:views"   // 作品访问计数
	tagLedgerKey      = "tags:usage"      // 标签全局使用计数
	topTagsCacheKey   = "cache:tags:top"  // 热门标签快照
)

func (c *Client) SaveArtwork(ctx context.Context, art *model.Artwork) error {
	data, err := json.Marshal(art)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("artwork:%s", art.ID)

	// 使用事务保存作品元数据、用户作品列表和公开画廊索引
	_, err = c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, fmt.Sprintf("user:%s:artworks", art.UserID), art.ID)
		if art.IsPublic {
			pipe.ZAdd(ctx, publicArtworksKey, redis.Z{Score: float64(art.CreatedAt.Unix()), Member: art.ID})
		} else {
			pipe.ZRem(ctx, publicArtworksKey, art.ID)
		}
		return nil
	})
	return err
}

func (c *Client) GetArtwork(ctx context.Context, artworkID string) (*model.Artwork, error) {
	data, err := c.Get(ctx, fmt.Sprintf("artwork:%s", artworkID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var art model.Artwork
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, err
	}

	// 访问计数单独存在有序集合里
	views, err := c.ZScore(ctx, artworkViewsKey, artworkID).Result()
	if err == nil {
		art.Views = int64(views)
	}
	return &art, nil
}

func (c *Client) DeleteArtwork(ctx context.Context, art *model.Artwork) error {
	_, err := c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, fmt.Sprintf("artwork:%s", art.ID))
		pipe.SRem(ctx, fmt.Sprintf("user:%s:artworks", art.UserID), art.ID)
		pipe.ZRem(ctx, publicArtworksKey, art.ID)
		pipe.ZRem(ctx, artworkViewsKey, art.ID)
		return nil
	})
	return err
}

func (c *Client) ListUserArtworks(ctx context.Context, userID string) ([]*model.Artwork, error) {
	ids, err := c.SMembers(ctx, fmt.Sprintf("user:%s:artworks", userID)).Result()
	if err != nil {
		return nil, err
	}
	artworks := make([]*model.Artwork, 0, len(ids))
	for _, id := range ids {
		art, err := c.GetArtwork(ctx, id)
		if err != nil || art == nil {
			continue
		}
		artworks = append(artworks, art)
	}
	sort.Slice(artworks, func(i, j int) bool {
		return artworks[i].CreatedAt.After(artworks[j].CreatedAt)
	})
	return artworks, nil
}

func (c *Client) ListPublicArtworks(ctx context.Context, offset, limit int) ([]*model.Artwork, error) {
	ids, err := c.ZRevRange(ctx, publicArtworksKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}
	artworks := make([]*model.Artwork, 0, len(ids))
	for _, id := range ids {
		art, err := c.GetArtwork(ctx, id)
		if err != nil || art == nil {
			continue
		}
		artworks = append(artworks, art)
	}
	return artworks, nil
}

func (c *Client) IncrementView(ctx context.Context, artworkID string) error {
	return c.ZIncrBy(ctx, artworkViewsKey, 1, artworkID).Err()
}

// RecordTags 逐个标签自增计数,首次使用时惰性创建。
// ZIncrBy 对单个成员是原子的,并发请求不会丢失更新;标签之间不要求事务。
func (c *Client) RecordTags(ctx context.Context, tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := c.ZIncrBy(ctx, tagLedgerKey, 1, tag).Err(); err != nil {
			return err
		}
	}
	return nil
}

// releaseTagScript 原子地把计数减一并钳制在零,账本里没有的标签不做处理。
var releaseTagScript = redis.NewScript(`
local score = redis.call('ZSCORE', KEYS[1], ARGV[1])
if not score then
  return 0
end
if tonumber(score) <= 1 then
  redis.call('ZADD', KEYS[1], 0, ARGV[1])
  return 0
end
return redis.call('ZINCRBY', KEYS[1], -1, ARGV[1])
`)

// ReleaseTags 删除作品时逐个标签递减计数,最低减到零,不会出现负数。
func (c *Client) ReleaseTags(ctx context.Context, tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := releaseTagScript.Run(ctx, c, []string{tagLedgerKey}, tag).Err(); err != nil && err != redis.Nil {
			return err
		}
	}
	return nil
}

// TopTags 返回计数最高的 n 个标签。并列计数按标签名升序排,
// 保证同样的数据每次返回同样的顺序。
func (c *Client) TopTags(ctx context.Context, n int) ([]model.TagCount, error) {
	zs, err := c.ZRangeWithScores(ctx, tagLedgerKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	counts := make([]model.TagCount, 0, len(zs))
	for _, z := range zs {
		tag, ok := z.Member.(string)
		if !ok {
			continue
		}
		counts = append(counts, model.TagCount{Tag: tag, Count: int64(z.Score)})
	}
	sortTagCounts(counts)
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}

func sortTagCounts(counts []model.TagCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
}

// CacheTopTags 缓存热门标签快照,供列表页直接读取。
func (c *Client) CacheTopTags(ctx context.Context, counts []model.TagCount, ttl time.Duration) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.Set(ctx, topTagsCacheKey, data, ttl).Err()
}

func (c *Client) GetCachedTopTags(ctx context.Context) ([]model.TagCount, error) {
	data, err := c.Get(ctx, topTagsCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var counts []model.TagCount
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
