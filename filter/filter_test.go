package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/mapping"
	"github.com/rushteam/mabnews/store"
)

func candidates() []*core.Item {
	out := make([]*core.Item, 0, 4)
	for i, id := range []string{"a", "b", "c", "d"} {
		it := core.NewItem(id, i)
		it.Score = float64(4 - i)
		it.Meta["count"] = float64(i)
		out = append(out, it)
	}
	return out
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestSeenFilter(t *testing.T) {
	ctx := context.Background()
	m := mapping.Build([][]string{{"a", "b", "c", "d"}})
	rctx := &core.RecommendContext{History: []string{"b", "ghost", "d", "b"}}

	node := &FilterNode{Filters: []Filter{NewSeenFilter(m)}}
	items := candidates()
	out, err := node.Process(ctx, rctx, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(out))

	// 被过滤的 Item 带有 filtered 标签
	assert.Equal(t, "true", items[1].Labels["filtered"].Value)
	assert.Equal(t, "filter.seen", items[1].Labels["filtered"].Source)

	// 不经过 Prepare 直接调用
	f := NewSeenFilter(m)
	ok, err := f.ShouldFilter(ctx, rctx, items[3])
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.ShouldFilter(ctx, rctx, core.NewItem("x", core.NoArm))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeenFilter_NilContext(t *testing.T) {
	m := mapping.Build([][]string{{"a"}})
	ok, err := NewSeenFilter(m).ShouldFilter(context.Background(), nil, core.NewItem("a", 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlacklistFilter(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	require.NoError(t, s.Set(ctx, "blacklist:news", []byte(`["c"]`)))

	f := NewBlacklistFilter([]string{"a"}, NewStoreAdapter(s), "blacklist:news")
	out, err := (&FilterNode{Filters: []Filter{f}}).Process(ctx, &core.RecommendContext{}, candidates())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, ids(out))

	// Store 中没有该 key 时只使用内存列表
	f = NewBlacklistFilter([]string{"a"}, NewStoreAdapter(s), "blacklist:missing")
	out, err = (&FilterNode{Filters: []Filter{f}}).Process(ctx, &core.RecommendContext{}, candidates())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, ids(out))

	// 不修改原始内存列表
	assert.Len(t, NewBlacklistFilter([]string{"a"}, nil, "").ItemIDs, 1)
}

func TestStoreAdapter_BadJSON(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	require.NoError(t, s.Set(ctx, "k", []byte(`not json`)))

	_, err := NewStoreAdapter(s).GetBlacklist(ctx, "k")
	assert.Error(t, err)
	_, err = NewStoreAdapter(s).GetBlacklist(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestExprFilter(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		expr string
		want []string
	}{
		{expr: `item.count < 2.0`, want: []string{"c", "d"}},
		{expr: `item.score >= 3.0`, want: []string{"c", "d"}},
		{expr: `item.id == "b" || item.arm == 3`, want: []string{"a", "c"}},
		{expr: `item.id in rctx.history`, want: []string{"b", "c", "d"}},
		{expr: ``, want: []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := NewExprFilter(tt.expr)
			require.NoError(t, err)
			out, err := (&FilterNode{Filters: []Filter{f}}).Process(ctx,
				&core.RecommendContext{History: []string{"a"}}, candidates())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(out))
		})
	}

	_, err := NewExprFilter(`item.score >`)
	assert.Error(t, err)
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }
func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return true, errors.New("boom")
}

type failingPreparer struct{ failingFilter }

func (failingPreparer) Prepare(context.Context, *core.RecommendContext) (Filter, error) {
	return nil, errors.New("prepare failed")
}

func TestFilterNode_Errors(t *testing.T) {
	ctx := context.Background()

	// 单个 Item 的过滤错误被忽略，Item 保留
	out, err := (&FilterNode{Filters: []Filter{failingFilter{}}}).Process(ctx, nil, candidates())
	require.NoError(t, err)
	assert.Len(t, out, 4)

	// Prepare 失败中断整个节点
	_, err = (&FilterNode{Filters: []Filter{failingPreparer{}}}).Process(ctx, nil, candidates())
	assert.ErrorContains(t, err, "prepare failed")

	// 没有过滤器时原样返回，nil Item 被丢弃
	in := append(candidates(), nil)
	out, err = (&FilterNode{}).Process(ctx, nil, in)
	require.NoError(t, err)
	assert.Len(t, out, 5)
	out, err = (&FilterNode{Filters: []Filter{NewBlacklistFilter(nil, nil, "")}}).Process(ctx, nil, in)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}
