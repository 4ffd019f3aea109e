package recall

import (
	"context"

	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/mapping"
	"github.com/rushteam/mabnews/pipeline"
	"github.com/rushteam/mabnews/pkg/utils"
)

// Bandit 是 bandit 召回源：把映射中的每个臂展开为一个候选 Item，
// Score 为估计器中该臂的平均奖励（values[i]）。
// Bandit 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Bandit struct {
	Estimator *bandit.Estimator
	Mapping   *mapping.Mapping
}

func (r *Bandit) Name() string        { return "recall.bandit" }
func (r *Bandit) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Bandit) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口，按臂索引顺序输出候选。
func (r *Bandit) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Estimator == nil || r.Mapping == nil {
		return nil, nil
	}

	ids := r.Mapping.IDs()
	out := make([]*core.Item, 0, len(ids))
	for arm, id := range ids {
		value, err := r.Estimator.Value(arm)
		if err != nil {
			return nil, err
		}
		count, _ := r.Estimator.Count(arm)

		it := core.NewItem(id, arm)
		it.Score = value
		it.Meta["count"] = count
		it.PutLabel("recall_source", utils.Label{Value: "bandit", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
