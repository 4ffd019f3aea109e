package recall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/mapping"
	"github.com/rushteam/mabnews/pipeline"
)

func TestBandit_Recall(t *testing.T) {
	m := mapping.Build([][]string{{"a", "b"}, {"c"}})
	// 估计器可以比映射多臂，多出的臂不会被召回
	est, err := bandit.New(4)
	require.NoError(t, err)
	require.NoError(t, est.Update(1, 3))
	require.NoError(t, est.Update(1, 1))
	require.NoError(t, est.Update(3, 9))

	src := &Bandit{Estimator: est, Mapping: m}
	assert.Equal(t, "recall.bandit", src.Name())
	assert.Equal(t, pipeline.KindRecall, src.Kind())

	items, err := src.Process(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)

	for i, want := range []struct {
		id    string
		score float64
		count float64
	}{{"a", 0, 0}, {"b", 2, 2}, {"c", 0, 0}} {
		assert.Equal(t, want.id, items[i].ID)
		assert.Equal(t, i, items[i].Arm)
		assert.Equal(t, want.score, items[i].Score)
		assert.Equal(t, want.count, items[i].Meta["count"])
		assert.Equal(t, "bandit", items[i].Labels["recall_source"].Value)
	}
}

func TestBandit_Empty(t *testing.T) {
	items, err := (&Bandit{}).Recall(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
