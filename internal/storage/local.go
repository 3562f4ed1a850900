package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 把暂存内容写入本地临时目录
type LocalStore struct {
	dir string
}

var _ PayloadStore = (*LocalStore)(nil)

// NewLocalStore 创建本地暂存后端，dir 为空时使用系统临时目录
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("创建暂存目录 %s 失败: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Name 返回后端名称
func (s *LocalStore) Name() string {
	return "local"
}

// Dir 返回暂存根目录
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) path(key string) (string, error) {
	p := filepath.Join(s.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("非法的暂存键: %s", key)
	}
	return p, nil
}

// Put 写入文件
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("创建暂存子目录失败: %w", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("写入暂存文件失败: %w", err)
	}
	return nil
}

// Get 读取文件
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPayloadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取暂存文件失败: %w", err)
	}
	return data, nil
}

// Delete 删除文件以及为它创建的空目录
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPayloadNotFound
		}
		return fmt.Errorf("删除暂存文件失败: %w", err)
	}

	// 逐级删除空的父目录，直到暂存根目录
	for dir := filepath.Dir(p); dir != s.dir && strings.HasPrefix(dir, s.dir); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}
