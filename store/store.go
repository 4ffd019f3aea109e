// Package store 提供 core.Store 的实现：内存、本地文件、Redis 与 SQLite。
//
// 接口定义在 core 包，此包只包含实现。
package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rushteam/mabnews/core"
)

const (
	KindMemory = "memory"
	KindFile   = "file"
	KindRedis  = "redis"
	KindSQLite = "sqlite"
)

// Open 按类型创建 Store。dsn 的含义随类型变化：
//
//	memory  忽略
//	file    目录路径
//	redis   host:port[/db]
//	sqlite  数据库文件路径
func Open(kind, dsn string) (core.Store, error) {
	switch strings.ToLower(kind) {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindFile:
		if dsn == "" {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidArgument, "store: file store requires a directory")
		}
		return NewFileStore(dsn)
	case KindRedis:
		addr, db, err := parseRedisDSN(dsn)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(addr, db)
	case KindSQLite:
		if dsn == "" {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidArgument, "store: sqlite store requires a database path")
		}
		return NewSQLiteStore(dsn)
	default:
		return nil, core.Errorf(core.ModuleStore, core.ErrorCodeNotSupported, "store: unknown kind %q", kind)
	}
}

func parseRedisDSN(dsn string) (string, int, error) {
	if dsn == "" {
		return "localhost:6379", 0, nil
	}
	addr, dbStr, ok := strings.Cut(dsn, "/")
	if !ok || dbStr == "" {
		return addr, 0, nil
	}
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		return "", 0, core.Wrap(core.ModuleStore, core.ErrorCodeInvalidArgument, fmt.Sprintf("store: invalid redis db %q", dbStr), err)
	}
	return addr, db, nil
}
