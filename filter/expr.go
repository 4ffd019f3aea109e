package filter

import (
	"context"

	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述过滤条件：表达式为 true 的 Item 被过滤。
//
// 示例：
//   - `item.count < 3`                  → 过滤观测次数过少的文章
//   - `item.id.startsWith("ads-")`      → 过滤推广内容
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || f.program.String() == "" {
		return false, nil
	}
	return f.program.Eval(item, rctx)
}
