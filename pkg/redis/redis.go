package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"school-sms/backend/config"
)

// Client Redis 客户端封装
// 当前用于课表列表缓存；后续可扩展分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 课表列表缓存 ──
//
// 失效策略：写操作对 version 键做 INCR，缓存键带版本号，
// 旧版本的缓存条目靠 TTL 自然过期，无需逐键删除。

const (
	timetableVersionKey  = "timetable:cache:version"
	timetableCachePrefix = "timetable:cache:"
	timetableCacheTTL    = 10 * time.Minute
)

// TimetableCacheVersion 获取当前课表缓存版本号（键不存在时为 0）
func (c *Client) TimetableCacheVersion(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, timetableVersionKey).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	return v, err
}

// BumpTimetableCacheVersion 课表写操作后递增缓存版本，使旧缓存失效
func (c *Client) BumpTimetableCacheVersion(ctx context.Context) error {
	return c.rdb.Incr(ctx, timetableVersionKey).Err()
}

// GetTimetableCache 读取指定版本下的缓存条目
func (c *Client) GetTimetableCache(ctx context.Context, version int64, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, fmt.Sprintf("%sv%d:%s", timetableCachePrefix, version, key)).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// SetTimetableCache 写入指定版本下的缓存条目
func (c *Client) SetTimetableCache(ctx context.Context, version int64, key, value string) error {
	return c.rdb.Set(ctx, fmt.Sprintf("%sv%d:%s", timetableCachePrefix, version, key), value, timetableCacheTTL).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
