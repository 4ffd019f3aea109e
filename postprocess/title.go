// Package postprocess 提供推荐结果的展示层修饰节点。
package postprocess

import (
	"context"

	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/pipeline"
)

// DefaultPlaceholder 是找不到标题时的占位文本。
const DefaultPlaceholder = "title not found"

// TitleLookup 根据文章 ID 查找展示标题。
type TitleLookup interface {
	Title(id string) (string, bool)
}

// TitleMap 是基于 map 的 TitleLookup。
type TitleMap map[string]string

func (m TitleMap) Title(id string) (string, bool) {
	t, ok := m[id]
	return t, ok
}

// TitleNode 把文章标题写入 item.Meta["title"]，缺失时写入占位文本。
type TitleNode struct {
	Titles      TitleLookup
	Placeholder string
}

func (n *TitleNode) Name() string        { return "postprocess.title" }
func (n *TitleNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *TitleNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	placeholder := n.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Meta == nil {
			it.Meta = make(map[string]any)
		}
		title := placeholder
		if n.Titles != nil {
			if t, ok := n.Titles.Title(it.ID); ok {
				title = t
			}
		}
		it.Meta["title"] = title
	}
	return items, nil
}
