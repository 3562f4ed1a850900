package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/tracing"

	"github.com/gofrs/uuid/v5"
)

// ErrPayloadNotFound 暂存键不存在 (已释放或已过期)
var ErrPayloadNotFound = errors.New("staged payload not found")

// PayloadStore 上传文件的临时存储后端
// 暂存内容只在单次请求内存在，请求结束时删除
type PayloadStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Name 后端名称，用于日志
	Name() string
}

// Stager 负责生成暂存键并把上传内容写入后端
type Stager struct {
	store  PayloadStore
	prefix string
}

// NewStager 创建暂存器
func NewStager(store PayloadStore, keyPrefix string) *Stager {
	return &Stager{store: store, prefix: keyPrefix}
}

// Backend 返回后端名称
func (s *Stager) Backend() string {
	return s.store.Name()
}

// Stage 写入一份上传内容，调用方必须 defer Release
func (s *Stager) Stage(ctx context.Context, filename string, data []byte) (*StagedPayload, error) {
	key, err := NewStagingKey(s.prefix, filename)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("暂存上传文件到 %s 失败: %w", s.store.Name(), err)
	}

	logger.Ctx(ctx).Debug().
		Str("backend", s.store.Name()).
		Str("key", tracing.SafeStagingKey(key)).
		Int("size", len(data)).
		Msg("上传文件已暂存")

	return &StagedPayload{
		Key:      key,
		Filename: filename,
		Size:     len(data),
		store:    s.store,
	}, nil
}

// StagedPayload 一份已暂存的上传内容
type StagedPayload struct {
	Key      string
	Filename string
	Size     int

	store    PayloadStore
	once     sync.Once
	released bool
}

// Read 从后端读回暂存内容
func (p *StagedPayload) Read(ctx context.Context) ([]byte, error) {
	if p.released {
		return nil, ErrPayloadNotFound
	}
	return p.store.Get(ctx, p.Key)
}

// Release 删除暂存内容，可重复调用；失败只记录日志
func (p *StagedPayload) Release(ctx context.Context) {
	if p == nil {
		return
	}
	p.once.Do(func() {
		p.released = true
		// 请求上下文可能已取消，删除仍需执行
		err := p.store.Delete(context.WithoutCancel(ctx), p.Key)
		if err != nil && !errors.Is(err, ErrPayloadNotFound) {
			logger.Ctx(ctx).Warn().
				Err(err).
				Str("backend", p.store.Name()).
				Str("key", tracing.SafeStagingKey(p.Key)).
				Msg("释放暂存文件失败")
		}
	})
}

// NewStagingKey 生成 "<prefix><uuidv7>/<basename>" 形式的暂存键
func NewStagingKey(prefix, filename string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("生成暂存键失败: %w", err)
	}
	return prefix + id.String() + "/" + SafeBasename(filename), nil
}

// SafeBasename 去掉客户端文件名中的目录部分
func SafeBasename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		return "upload"
	}
	return base
}

// NewPayloadStore 根据 staging.backend 创建暂存后端
func NewPayloadStore(ctx context.Context, cfg *config.Config) (PayloadStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	switch cfg.Staging.Backend {
	case config.StagingLocal, "":
		return NewLocalStore(cfg.Staging.LocalDir)
	case config.StagingMinIO:
		return NewMinIOStore(ctx, &cfg.MinIO, logger.StdLogger("[MinIOStaging] "))
	case config.StagingRedis:
		return NewRedisStore(ctx, &cfg.Redis, cfg.StagingTTL())
	default:
		return nil, fmt.Errorf("不支持的暂存后端: %s", cfg.Staging.Backend)
	}
}

// CloseStore 关闭持有连接的后端
func CloseStore(store PayloadStore) error {
	if closer, ok := store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
