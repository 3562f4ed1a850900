package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-parser-go/internal/config"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// RedisStore 以带过期时间的键暂存上传文件
// 进程在释放前退出时，TTL 保证内容最终被清理
type RedisStore struct {
	Client *redis.Client
	ttl    time.Duration
}

var _ PayloadStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis client and verifies the connection
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		MaxRetries:   cfg.MaxRetries,
	})

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return newRedisStoreWithClient(client, ttl), nil
}

func newRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{Client: client, ttl: ttl}
}

// Name 返回后端名称
func (s *RedisStore) Name() string {
	return "redis"
}

// Put 写入带过期时间的键
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.Client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("写入暂存键 %s 失败: %w", key, err)
	}
	return nil
}

// Get 读取键
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPayloadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取暂存键 %s 失败: %w", key, err)
	}
	return data, nil
}

// Delete 删除键
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	removed, err := s.Client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("删除暂存键 %s 失败: %w", key, err)
	}
	if removed == 0 {
		return ErrPayloadNotFound
	}
	return nil
}

// Close closes the Redis client connection
func (s *RedisStore) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
