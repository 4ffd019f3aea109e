package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mabnews/core"
)

func TestTopNNode(t *testing.T) {
	items := func() []*core.Item {
		return []*core.Item{core.NewItem("a", 0), core.NewItem("b", 1), core.NewItem("c", 2)}
	}
	withTopN := &core.RecommendContext{Params: map[string]any{"top_n": 1}}

	tests := []struct {
		name string
		node *TopNNode
		rctx *core.RecommendContext
		want int
	}{
		{name: "truncate", node: &TopNNode{N: 2}, want: 2},
		{name: "larger than items", node: &TopNNode{N: 10}, want: 3},
		{name: "from params", node: &TopNNode{}, rctx: withTopN, want: 1},
		{name: "explicit wins over params", node: &TopNNode{N: 2}, rctx: withTopN, want: 2},
		{name: "no limit", node: &TopNNode{}, want: 3},
		{name: "wrong param type", node: &TopNNode{}, rctx: &core.RecommendContext{Params: map[string]any{"top_n": "1"}}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.node.Process(context.Background(), tt.rctx, items())
			require.NoError(t, err)
			assert.Len(t, out, tt.want)
			assert.Equal(t, "a", out[0].ID)
		})
	}
}
