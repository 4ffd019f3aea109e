package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mabnews/core"
)

// exerciseStore 对任意 Store 实现跑一遍公共语义。
func exerciseStore(t *testing.T, s core.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))
	assert.True(t, core.IsNotFound(err))

	require.NoError(t, s.Set(ctx, "mab:mapping", []byte(`{"a":0}`)))
	got, err := s.Get(ctx, "mab:mapping")
	require.NoError(t, err)
	assert.Equal(t, `{"a":0}`, string(got))

	require.NoError(t, s.Set(ctx, "mab:mapping", []byte(`{"b":0}`)))
	got, err = s.Get(ctx, "mab:mapping")
	require.NoError(t, err)
	assert.Equal(t, `{"b":0}`, string(got))

	require.NoError(t, s.BatchSet(ctx, map[string][]byte{
		"k1":         []byte("v1"),
		"k2":         []byte("v2"),
		"with/slash": []byte("v3"),
	}))
	batch, err := s.BatchGet(ctx, []string{"k1", "k2", "with/slash", "nope"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"k1":         []byte("v1"),
		"k2":         []byte("v2"),
		"with/slash": []byte("v3"),
	}, batch)

	require.NoError(t, s.Delete(ctx, "k1"))
	_, err = s.Get(ctx, "k1")
	assert.True(t, core.IsStoreNotFound(err))
	// 删除不存在的 key 不报错
	assert.NoError(t, s.Delete(ctx, "k1"))

	empty, err := s.BatchGet(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	assert.Equal(t, "memory", s.Name())
	exerciseStore(t, s)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", []byte("v"), 1))
	require.NoError(t, s.Set(ctx, "forever", []byte("v")))

	time.Sleep(1100 * time.Millisecond)
	_, err := s.Get(ctx, "short")
	assert.True(t, core.IsStoreNotFound(err))
	_, err = s.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryStore_CloseIdempotent(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "file", s.Name())
	assert.Equal(t, dir, s.Dir())
	exerciseStore(t, s)

	// 不残留临时文件
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "mab:estimator", []byte(`{"counts":[1]}`)))
	require.NoError(t, s1.Close())

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Get(ctx, "mab:estimator")
	require.NoError(t, err)
	assert.Equal(t, `{"counts":[1]}`, string(got))
}

func TestFileStore_TTLNotSupported(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	err = s.Set(context.Background(), "k", []byte("v"), 60)
	assert.True(t, core.IsStoreNotSupported(err))
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "mab.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "sqlite", s.Name())
	exerciseStore(t, s)
}

func TestSQLiteStore_TTL(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "mab.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", []byte("v"), 1))
	got, err := s.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	time.Sleep(2100 * time.Millisecond)
	_, err = s.Get(ctx, "short")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MABNEWS_TEST_REDIS")
	if addr == "" {
		t.Skip("MABNEWS_TEST_REDIS not set")
	}
	s, err := NewRedisStore(addr, 0)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		kind     string
		dsn      string
		wantName string
		check    func(error) bool
	}{
		{name: "default", kind: "", wantName: "memory"},
		{name: "memory", kind: "memory", wantName: "memory"},
		{name: "file", kind: "file", dsn: filepath.Join(dir, "files"), wantName: "file"},
		{name: "sqlite upper case", kind: "SQLite", dsn: filepath.Join(dir, "kv.db"), wantName: "sqlite"},
		{name: "file without dir", kind: "file", check: core.IsInvalidArgument},
		{name: "sqlite without path", kind: "sqlite", check: core.IsInvalidArgument},
		{name: "bad redis db", kind: "redis", dsn: "localhost:6379/x", check: core.IsInvalidArgument},
		{name: "unknown", kind: "etcd", check: core.IsNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.kind, tt.dsn)
			if tt.check != nil {
				require.Error(t, err)
				assert.True(t, tt.check(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}

func TestParseRedisDSN(t *testing.T) {
	addr, db, err := parseRedisDSN("")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", addr)
	assert.Equal(t, 0, db)

	addr, db, err = parseRedisDSN("cache:6380/3")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", addr)
	assert.Equal(t, 3, db)
}
