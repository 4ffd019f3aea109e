package recommend

import (
	"context"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/filter"
	"github.com/rushteam/mabnews/mapping"
	"github.com/rushteam/mabnews/postprocess"
	"github.com/rushteam/mabnews/rerank"
	"github.com/rushteam/mabnews/store"
	"github.com/rushteam/mabnews/train"
)

// scenario 构造 values == [5, 1, 0] 的估计器，映射为 {a:0, b:1, c:2}。
func scenario(t *testing.T) (*bandit.Estimator, *mapping.Mapping) {
	t.Helper()
	m, err := mapping.FromIndex(map[string]int{"a": 0, "b": 1, "c": 2})
	require.NoError(t, err)
	est, err := bandit.New(3)
	require.NoError(t, err)
	_, err = train.NewTrainer(nil, nil).Train(est, m, []core.InteractionRecord{
		core.NewInteractionRecord("u1", []string{"a", "b"}, []int{5, 1}),
	})
	require.NoError(t, err)
	return est, m
}

func TestRecommend_Scenario(t *testing.T) {
	est, m := scenario(t)

	got, err := Recommend([]string{"a"}, est, m, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestRecommend_TopNLargerThanCandidates(t *testing.T) {
	est, m := scenario(t)

	got, err := Recommend([]string{"b"}, est, m, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestRecommend_UnknownHistoryIDsMatchNothing(t *testing.T) {
	est, m := scenario(t)

	got, err := Recommend([]string{"ghost", "", "zzz"}, est, m, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRecommend_AllSeen(t *testing.T) {
	est, m := scenario(t)

	got, err := Recommend([]string{"c", "b", "a"}, est, m, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommend_InvalidTopN(t *testing.T) {
	est, m := scenario(t)

	for _, n := range []int{0, -1} {
		_, err := Recommend(nil, est, m, n)
		require.Error(t, err)
		assert.True(t, core.IsInvalidArgument(err))
	}
}

func TestRecommend_TieBreakAscendingArm(t *testing.T) {
	m := mapping.Build([][]string{{"z", "y", "x", "w", "v"}})
	est, err := bandit.New(m.Len())
	require.NoError(t, err)
	require.NoError(t, est.Update(3, 2)) // w
	require.NoError(t, est.Update(1, 2)) // y

	got, err := Recommend(nil, est, m, 5)
	require.NoError(t, err)
	// 价值 2 的 y(1)、w(3) 在前；其余价值 0 按臂索引升序
	assert.Equal(t, []string{"y", "w", "z", "x", "v"}, got)
}

func TestRecommend_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 50; round++ {
		nArms := 1 + rng.IntN(30)
		ids := make([]string, nArms)
		for i := range ids {
			ids[i] = "n" + strconv.Itoa(i)
		}
		m := mapping.Build([][]string{ids})
		est, err := bandit.New(nArms)
		require.NoError(t, err)
		for i := 0; i < 100; i++ {
			require.NoError(t, est.Update(rng.IntN(nArms), float64(rng.IntN(4))))
		}

		var history []string
		seen := map[string]bool{}
		for n := rng.IntN(nArms + 1); n > 0; n-- {
			id := ids[rng.IntN(nArms)]
			history = append(history, id)
			seen[id] = true
		}
		history = append(history, "unknown")
		topN := 1 + rng.IntN(nArms+5)

		got, err := Recommend(history, est, m, topN)
		require.NoError(t, err)

		candidates := nArms - len(seen)
		assert.Len(t, got, min(topN, candidates))
		prev := -1.0
		for i, id := range got {
			assert.False(t, seen[id], "recommended seen article %s", id)
			idx, ok := m.Index(id)
			require.True(t, ok)
			v, _ := est.Value(idx)
			if i > 0 {
				assert.LessOrEqual(t, v, prev)
			}
			prev = v
		}
	}
}

func TestRecommender_Titles(t *testing.T) {
	est, m := scenario(t)
	r, err := New(est, m, WithTitles(postprocess.TitleMap{"a": "Alpha", "c": "Gamma"}, ""))
	require.NoError(t, err)

	got, err := r.RecommendTitles(context.Background(), "u1", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", postprocess.DefaultPlaceholder, "Gamma"}, got)

	assert.Equal(t, []string{"Gamma", postprocess.DefaultPlaceholder}, r.Titles([]string{"c", "b"}))
}

func TestRecommender_CustomPlaceholder(t *testing.T) {
	est, m := scenario(t)
	r, err := New(est, m, WithTitles(nil, "Título não encontrado"))
	require.NoError(t, err)

	got, err := r.RecommendTitles(context.Background(), "u1", []string{"a", "b"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Título não encontrado"}, got)
}

func TestRecommender_ItemsCarryLabels(t *testing.T) {
	est, m := scenario(t)
	r, err := New(est, m)
	require.NoError(t, err)

	items, err := r.RecommendItems(context.Background(), "u1", []string{"b"}, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 0, items[0].Arm)
	assert.Equal(t, 5.0, items[0].Score)
	assert.Equal(t, "bandit", items[0].Labels["recall_source"].Value)
	assert.Equal(t, "bandit_value", items[0].Labels["rank_model"].Value)
}

func TestRecommender_ExtraFilters(t *testing.T) {
	est, m := scenario(t)
	ctx := context.Background()

	mem := store.NewMemoryStore()
	defer mem.Close()
	require.NoError(t, mem.Set(ctx, "blacklist:news", []byte(`["c"]`)))

	expr, err := filter.NewExprFilter(`item.count < 1.0`)
	require.NoError(t, err)

	r, err := New(est, m, WithFilters(
		filter.NewBlacklistFilter([]string{"b"}, filter.NewStoreAdapter(mem), "blacklist:news"),
	))
	require.NoError(t, err)
	got, err := r.RecommendIDs(ctx, "u1", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	r, err = New(est, m, WithFilters(expr))
	require.NoError(t, err)
	got, err = r.RecommendIDs(ctx, "u1", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestRecommender_ExtraNodes(t *testing.T) {
	est, m := scenario(t)
	r, err := New(est, m, WithNodes(&rerank.TopNNode{N: 1}))
	require.NoError(t, err)

	got, err := r.RecommendIDs(context.Background(), "u1", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestNew_Validation(t *testing.T) {
	est, m := scenario(t)

	_, err := New(nil, m)
	assert.True(t, core.IsInvalidArgument(err))

	small, err := bandit.New(2)
	require.NoError(t, err)
	_, err = New(small, m)
	assert.True(t, core.IsInvalidArgument(err))

	_, err = New(est, m)
	assert.NoError(t, err)
}
