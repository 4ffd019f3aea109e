package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/pkg/utils"
)

func newsItem() *core.Item {
	it := core.NewItem("news-42", 7)
	it.Score = 2.5
	it.Meta["count"] = 4.0
	it.PutLabel("recall_source", utils.Label{Value: "bandit", Source: "recall"})
	return it
}

func TestProgram_Eval(t *testing.T) {
	rctx := &core.RecommendContext{
		UserID:  "u1",
		History: []string{"news-1", "news-2"},
		Params:  map[string]any{"top_n": 5},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{`item.score > 2.0`, true},
		{`item.arm == 7`, true},
		{`item.count >= 5.0`, false},
		{`item.id.startsWith("news-")`, true},
		{`label.recall_source == "bandit"`, true},
		{`item.labels.recall_source.source == "recall"`, true},
		{`rctx.user_id == "u1" && size(rctx.history) == 2`, true},
		{`rctx.params.top_n == 5`, true},
		{`item.id in rctx.history`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, prg.String())

			got, err := prg.Eval(newsItem(), rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgram_Errors(t *testing.T) {
	_, err := Compile(`item.score >`)
	assert.ErrorContains(t, err, "compile error")

	prg, err := Compile(`item.score + 1.0`)
	require.NoError(t, err)
	_, err = prg.Eval(newsItem(), nil)
	assert.ErrorContains(t, err, "must return boolean")

	prg, err = Compile(`label.missing == "x"`)
	require.NoError(t, err)
	_, err = prg.Eval(newsItem(), nil)
	assert.Error(t, err)
}

func TestProgram_Empty(t *testing.T) {
	prg, err := Compile("")
	require.NoError(t, err)
	ok, err := prg.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEval_NilInputs(t *testing.T) {
	ok, err := NewEval(nil, nil).Evaluate(`rctx.user_id == ""`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewEval(newsItem(), nil).Evaluate(`size(rctx.history) == 0`)
	require.NoError(t, err)
	assert.True(t, ok)
}
