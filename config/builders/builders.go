// Package builders 注册内置的配置驱动节点。
package builders

import (
	"fmt"

	"github.com/rushteam/mabnews/config"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/filter"
	"github.com/rushteam/mabnews/pipeline"
	"github.com/rushteam/mabnews/pkg/conv"
	"github.com/rushteam/mabnews/rank"
	"github.com/rushteam/mabnews/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rank.value", BuildValueNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildFilterNode 构建不访问 Store 的过滤节点（黑名单只使用 item_ids）。
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return buildFilterNode(cfg, nil)
}

// FilterBuilder 返回带 Store 的过滤节点构建函数，黑名单可从 Store 的 key 读取。
//
//	config.Register("filter", builders.FilterBuilder(st))
func FilterBuilder(s core.Store) config.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFilterNode(cfg, s)
	}
}

func buildFilterNode(cfg map[string]interface{}, s core.Store) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["item_ids"])
			if ids == nil {
				ids = []string{}
			}
			key := conv.ConfigGet(filterMap, "key", "")
			var adapter *filter.StoreAdapter
			if s != nil && key != "" {
				adapter = filter.NewStoreAdapter(s)
			}
			filters = append(filters, filter.NewBlacklistFilter(ids, adapter, key))
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter: expr not found")
			}
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("expr filter: %w", err)
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildValueNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &rank.ValueNode{}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}
