// Package mapping 维护文章 ID 与 bandit 臂索引之间的双向映射。
package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/rushteam/mabnews/core"
)

// Mapping 是文章 ID → 臂索引的双射，以及它的逆映射。
// 索引为 [0, Len()) 的稠密整数，按首次出现的顺序分配。
type Mapping struct {
	ids   []string       // index -> id
	index map[string]int // id -> index
}

// Build 扫描所有历史，按首次出现顺序为每个不同的文章 ID 分配索引。
// 使用插入有序集合，相同输入总是得到相同的索引分配。
func Build(histories [][]string) *Mapping {
	m := &Mapping{index: make(map[string]int)}
	for _, history := range histories {
		for _, id := range history {
			m.add(id)
		}
	}
	return m
}

// FromIndex 从 id -> index 的映射恢复 Mapping（例如从 JSON 加载）。
// 要求索引是 [0, len) 上的双射。
func FromIndex(index map[string]int) (*Mapping, error) {
	m := &Mapping{
		ids:   make([]string, len(index)),
		index: make(map[string]int, len(index)),
	}
	seen := make([]bool, len(index))
	for id, idx := range index {
		if idx < 0 || idx >= len(index) {
			return nil, core.Errorf(core.ModuleMapping, core.ErrorCodeInvalidArgument,
				"mapping: index %d of %q is not dense in [0, %d)", idx, id, len(index))
		}
		if seen[idx] {
			return nil, core.Errorf(core.ModuleMapping, core.ErrorCodeInvalidArgument,
				"mapping: index %d assigned more than once", idx)
		}
		seen[idx] = true
		m.ids[idx] = id
		m.index[id] = idx
	}
	return m, nil
}

func (m *Mapping) add(id string) {
	if _, ok := m.index[id]; ok {
		return
	}
	m.index[id] = len(m.ids)
	m.ids = append(m.ids, id)
}

// Len 返回映射中的文章数（即臂数）。
func (m *Mapping) Len() int { return len(m.ids) }

// Index 查找文章 ID 对应的臂索引；未知 ID 返回 (core.NoArm, false)。
func (m *Mapping) Index(id string) (int, bool) {
	idx, ok := m.index[id]
	if !ok {
		return core.NoArm, false
	}
	return idx, true
}

// ID 查找臂索引对应的文章 ID。
func (m *Mapping) ID(index int) (string, error) {
	if index < 0 || index >= len(m.ids) {
		return "", core.Errorf(core.ModuleMapping, core.ErrorCodeOutOfRange,
			"mapping: index %d out of range [0, %d)", index, len(m.ids))
	}
	return m.ids[index], nil
}

// IDs 按索引顺序返回所有文章 ID（副本）。
func (m *Mapping) IDs() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Indices 返回 id -> index 的副本。
func (m *Mapping) Indices() map[string]int {
	out := make(map[string]int, len(m.index))
	for k, v := range m.index {
		out[k] = v
	}
	return out
}

// Inverse 返回 index -> id 的映射。
func (m *Mapping) Inverse() map[int]string {
	out := make(map[int]string, len(m.ids))
	for i, id := range m.ids {
		out[i] = id
	}
	return out
}

// Resolve 把文章 ID 列表转换为臂索引集合，未知 ID 被忽略。
func (m *Mapping) Resolve(ids []string) map[int]struct{} {
	out := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if idx, ok := m.index[id]; ok {
			out[idx] = struct{}{}
		}
	}
	return out
}

// MarshalJSON 编码为 {"id": index} 对象。
func (m *Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.index)
}

// UnmarshalJSON 从 {"id": index} 对象解码。
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}
	restored, err := FromIndex(raw)
	if err != nil {
		return err
	}
	*m = *restored
	return nil
}
