// Package recommend 基于训练好的 bandit 估计器为用户生成 Top-N 新闻推荐。
//
// 推荐链路：
//
//	recall.Bandit → filter.FilterNode(SeenFilter + Extra) → rank.ValueNode
//	  → [Extra Nodes] → rerank.TopNNode → postprocess.TitleNode
//
// 估计器与映射在训练后只读共享，Recommender 可被多个 goroutine 并发使用。
package recommend

import (
	"context"

	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/filter"
	"github.com/rushteam/mabnews/mapping"
	"github.com/rushteam/mabnews/pipeline"
	"github.com/rushteam/mabnews/postprocess"
	"github.com/rushteam/mabnews/rank"
	"github.com/rushteam/mabnews/recall"
	"github.com/rushteam/mabnews/rerank"
)

// Recommend 返回 history 之外估计价值最高的 topN 篇文章 ID。
// 排序按 values 严格降序，价值相同时按臂索引升序。
func Recommend(history []string, est *bandit.Estimator, m *mapping.Mapping, topN int) ([]string, error) {
	r, err := New(est, m)
	if err != nil {
		return nil, err
	}
	items, err := r.RecommendItems(context.Background(), "", history, topN)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out, nil
}

// Option 配置 Recommender。
type Option func(*Recommender)

// WithTitles 设置标题查找与占位文本。
func WithTitles(titles postprocess.TitleLookup, placeholder string) Option {
	return func(r *Recommender) {
		r.titles = titles
		r.placeholder = placeholder
	}
}

// WithFilters 追加过滤器（黑名单、表达式过滤等），与已看过滤在同一个 FilterNode 中执行。
func WithFilters(filters ...filter.Filter) Option {
	return func(r *Recommender) {
		r.filters = append(r.filters, filters...)
	}
}

// WithNodes 在排序之后、Top-N 截断之前插入额外节点（通常来自 pipeline 配置）。
func WithNodes(nodes ...pipeline.Node) Option {
	return func(r *Recommender) {
		r.nodes = append(r.nodes, nodes...)
	}
}

// Recommender 持有冻结的估计器与映射。
type Recommender struct {
	est         *bandit.Estimator
	mapping     *mapping.Mapping
	titles      postprocess.TitleLookup
	placeholder string
	filters     []filter.Filter
	nodes       []pipeline.Node
}

// New 创建 Recommender。估计器臂数必须覆盖映射中的所有文章。
func New(est *bandit.Estimator, m *mapping.Mapping, opts ...Option) (*Recommender, error) {
	if est == nil || m == nil {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: estimator and mapping are required")
	}
	if est.NArms() < m.Len() {
		return nil, core.Errorf(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: estimator has %d arms, mapping has %d articles", est.NArms(), m.Len())
	}
	r := &Recommender{est: est, mapping: m}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Recommender) pipeline(topN int) *pipeline.Pipeline {
	filters := make([]filter.Filter, 0, len(r.filters)+1)
	filters = append(filters, filter.NewSeenFilter(r.mapping))
	filters = append(filters, r.filters...)

	nodes := []pipeline.Node{
		&recall.Bandit{Estimator: r.est, Mapping: r.mapping},
		&filter.FilterNode{Filters: filters},
		&rank.ValueNode{},
	}
	nodes = append(nodes, r.nodes...)
	nodes = append(nodes,
		&rerank.TopNNode{N: topN},
		&postprocess.TitleNode{Titles: r.titles, Placeholder: r.placeholder},
	)
	return &pipeline.Pipeline{Nodes: nodes}
}

// RecommendItems 执行推荐链路，返回带分数与标签的 Item，长度为 min(topN, 候选数)。
func (r *Recommender) RecommendItems(ctx context.Context, userID string, history []string, topN int) ([]*core.Item, error) {
	if topN <= 0 {
		return nil, core.Errorf(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: top_n must be positive, got %d", topN)
	}
	rctx := &core.RecommendContext{
		UserID:  userID,
		History: history,
		Params:  map[string]any{"top_n": topN},
	}
	return r.pipeline(topN).Run(ctx, rctx, nil)
}

// RecommendIDs 返回推荐的文章 ID。
func (r *Recommender) RecommendIDs(ctx context.Context, userID string, history []string, topN int) ([]string, error) {
	items, err := r.RecommendItems(ctx, userID, history, topN)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out, nil
}

// RecommendTitles 返回推荐文章的标题，找不到标题时使用占位文本。
func (r *Recommender) RecommendTitles(ctx context.Context, userID string, history []string, topN int) ([]string, error) {
	items, err := r.RecommendItems(ctx, userID, history, topN)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title())
	}
	return out, nil
}

// Titles 把文章 ID 列表翻译为标题，供展示用户历史等场景使用。
func (r *Recommender) Titles(ids []string) []string {
	placeholder := r.placeholder
	if placeholder == "" {
		placeholder = postprocess.DefaultPlaceholder
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		title := placeholder
		if r.titles != nil {
			if t, ok := r.titles.Title(id); ok {
				title = t
			}
		}
		out = append(out, title)
	}
	return out
}
