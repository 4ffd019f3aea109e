package filter

import (
	"context"

	"github.com/rushteam/mabnews/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉下架/撤稿等不可推荐的文章。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单文章 ID
	ItemIDs map[string]struct{}

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单文章 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	ids := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = struct{}{}
	}
	return &BlacklistFilter{
		ItemIDs: ids,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Prepare 在每次请求开始时从 Store 读取一次黑名单，与内存列表合并。
func (f *BlacklistFilter) Prepare(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	if f.Store == nil || f.Key == "" {
		return f, nil
	}
	blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
	if err != nil {
		// Store 中没有黑名单时只使用内存列表
		return f, nil
	}
	merged := make(map[string]struct{}, len(f.ItemIDs)+len(blacklist))
	for id := range f.ItemIDs {
		merged[id] = struct{}{}
	}
	for _, id := range blacklist {
		merged[id] = struct{}{}
	}
	return &BlacklistFilter{ItemIDs: merged}, nil
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.ItemIDs[item.ID]
	return ok, nil
}
