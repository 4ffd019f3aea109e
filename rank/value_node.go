package rank

import (
	"context"
	"sort"

	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/pipeline"
	"github.com/rushteam/mabnews/pkg/utils"
)

// ValueNode 按估计价值（item.Score）严格降序排序。
// 价值相同时按臂索引升序，保证结果确定。
// - 写入 labels：rank_model
type ValueNode struct{}

func (n *ValueNode) Name() string        { return "rank.value" }
func (n *ValueNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ValueNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		it.PutLabel("rank_model", utils.Label{Value: "bandit_value", Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Arm < items[j].Arm
	})
	return items, nil
}
