package train

import (
	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/mapping"
)

// Histories 提取每条记录的文章 ID 序列，供 mapping.Build 使用。
func Histories(records []core.InteractionRecord) [][]string {
	out := make([][]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.History)
	}
	return out
}

// Fit 完整执行一次批量训练：构建映射 → 创建估计器 → 回放记录。
// 映射基于全部记录构建（包括之后会被丢弃的记录），与离线流程保持一致。
func (t *Trainer) Fit(records []core.InteractionRecord) (*bandit.Estimator, *mapping.Mapping, *Report, error) {
	t.Logger.Info("building news index mapping", "records", len(records))
	m := mapping.Build(Histories(records))

	t.Logger.Info("initializing bandit estimator", "arms", m.Len())
	est, err := bandit.New(m.Len())
	if err != nil {
		return nil, nil, nil, err
	}

	report, err := t.Train(est, m, records)
	if err != nil {
		return nil, nil, nil, err
	}
	return est, m, report, nil
}
