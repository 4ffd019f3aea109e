package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/rushteam/mabnews/core"
)

// FileStore 把每个 key 写成目录下的一个文件，是本地训练/推荐的默认后端。
//
// 并发：目录级 flock 锁保证跨进程安全，读取使用共享锁，写入使用排他锁；
// 写入采用临时文件 + rename，读者不会看到写了一半的文件。
// 不支持 TTL。
type FileStore struct {
	mu          sync.Mutex // flock 句柄不区分同进程内的持有者
	dir         string
	lock        *flock.Flock
	lockTimeout time.Duration
}

// NewFileStore 创建 FileStore，目录不存在时自动创建。
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{
		dir:         dir,
		lock:        flock.New(filepath.Join(dir, ".lock")),
		lockTimeout: 5 * time.Second,
	}, nil
}

func (f *FileStore) Name() string { return "file" }

// Dir 返回存储目录。
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, url.QueryEscape(key))
}

func (f *FileStore) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, f.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = f.lock.TryLockContext(lockCtx, 50*time.Millisecond)
	} else {
		locked, err = f.lock.TryRLockContext(lockCtx, 50*time.Millisecond)
	}
	if err != nil {
		return core.Wrap(core.ModuleStore, core.ErrorCodeUnavailable, "store: acquire file lock", err)
	}
	if !locked {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: timeout acquiring file lock")
	}
	defer func() { _ = f.lock.Unlock() }()
	return fn()
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := f.withLock(ctx, false, func() error {
		var err error
		data, err = f.read(key)
		return err
	})
	return data, err
}

func (f *FileStore) read(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrStoreNotFound
	}
	return data, err
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return f.BatchSet(ctx, map[string][]byte{key: value}, ttl...)
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	return f.withLock(ctx, true, func() error {
		err := os.Remove(f.path(key))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	})
}

func (f *FileStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	err := f.withLock(ctx, false, func() error {
		for _, k := range keys {
			data, err := f.read(k)
			if core.IsStoreNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			result[k] = data
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *FileStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	if len(ttl) > 0 && ttl[0] > 0 {
		return core.ErrStoreNotSupported
	}
	return f.withLock(ctx, true, func() error {
		for k, v := range kvs {
			if err := writeAtomic(f.path(k), v); err != nil {
				return fmt.Errorf("write %s: %w", k, err)
			}
		}
		return nil
	})
}

func (f *FileStore) Close() error {
	return f.lock.Close()
}

func writeAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%d.%d.tmp", path, os.Getpid(), time.Now().UnixNano())
	fh, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := fh.Write(data); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return err
	}
	_ = fh.Sync()
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

var _ core.Store = (*FileStore)(nil)
