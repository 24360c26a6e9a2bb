package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mathraaj222-gif/trainmice-mvp-production/config"
)

// Client Redis 客户端封装
// 当前用于课程表视图缓存；后续可扩展分布式锁等场景
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

// ── 课程表视图缓存 ──

const timetableCachePrefix = "timetable:course:"

// GetTimetable 读取课程表视图缓存（JSON 文本），未命中返回 ""
func (c *Client) GetTimetable(ctx context.Context, courseID string) (string, error) {
	val, err := c.rdb.Get(ctx, timetableCachePrefix+courseID).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return val, err
}

// SetTimetable 写入课程表视图缓存
func (c *Client) SetTimetable(ctx context.Context, courseID string, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, timetableCachePrefix+courseID, payload, ttl).Err()
}

// InvalidateTimetable 删除课程表视图缓存（保存/导入/重算模板后调用）
func (c *Client) InvalidateTimetable(ctx context.Context, courseID string) error {
	return c.rdb.Del(ctx, timetableCachePrefix+courseID).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
