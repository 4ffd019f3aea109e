package filter

import (
	"context"

	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/mapping"
)

// SeenFilter 过滤掉用户已经看过的文章。
// 用户历史先通过 Mapping 解析为臂索引：不在映射中的文章 ID 无法匹配任何候选。
type SeenFilter struct {
	Mapping *mapping.Mapping
}

func NewSeenFilter(m *mapping.Mapping) *SeenFilter {
	return &SeenFilter{Mapping: m}
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

// Prepare 把 rctx.History 解析为臂索引集合，只做一次。
func (f *SeenFilter) Prepare(_ context.Context, rctx *core.RecommendContext) (Filter, error) {
	seen := map[int]struct{}{}
	if f.Mapping != nil && rctx != nil {
		seen = f.Mapping.Resolve(rctx.History)
	}
	return &seenArms{arms: seen}, nil
}

// ShouldFilter 在未经 Prepare 时直接使用，逐个解析历史。
func (f *SeenFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	prepared, err := f.Prepare(ctx, rctx)
	if err != nil {
		return false, err
	}
	return prepared.ShouldFilter(ctx, rctx, item)
}

type seenArms struct {
	arms map[int]struct{}
}

func (s *seenArms) Name() string { return "filter.seen" }

func (s *seenArms) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Arm == core.NoArm {
		return false, nil
	}
	_, ok := s.arms[item.Arm]
	return ok, nil
}
