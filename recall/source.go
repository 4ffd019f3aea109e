package recall

import (
	"context"

	"github.com/rushteam/mabnews/core"
)

// Source 是召回源的抽象：根据上下文生成候选集。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

var _ Source = (*Bandit)(nil)
