package core

import "github.com/rushteam/mabnews/pkg/utils"

// NoArm 表示物品没有对应的 bandit 臂（文章 ID 不在映射中）。
const NoArm = -1

// Item 是推荐链路中的统一承载结构：文章 ID、臂索引、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string // 文章 ID（对外的 opaque 字符串）
	Arm    int    // 臂索引，NoArm 表示未知
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string, arm int) *Item {
	return &Item{
		ID:     id,
		Arm:    arm,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Title 返回后处理阶段写入的展示标题；未写入时返回 ID。
func (it *Item) Title() string {
	if it.Meta != nil {
		if s, ok := it.Meta["title"].(string); ok {
			return s
		}
	}
	return it.ID
}
