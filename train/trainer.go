// Package train 把历史交互记录离线回放进 bandit 估计器。
package train

import (
	"strconv"
	"strings"

	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/mapping"
	"github.com/rushteam/mabnews/pkg/logger"
)

// Report 汇总一次训练的处理结果。
type Report struct {
	Records        int // 输入记录数
	Applied        int // 被应用的记录数
	LengthMismatch int // 因长度不一致被丢弃的记录数
	InvalidClicks  int // 因点击数无法解析被丢弃的记录数
	Pairs          int // 成功调用 Update 的交互对数
	UnknownIDs     int // 因文章 ID 不在映射中被跳过的交互对数
}

// Skipped 返回被整条丢弃的记录数。
func (r *Report) Skipped() int { return r.LengthMismatch + r.InvalidClicks }

// Trainer 是单线程的批量训练器：它是估计器状态的唯一写入方。
type Trainer struct {
	Logger  *logger.Logger
	Metrics *Metrics // 可选
}

// NewTrainer 创建训练器；log 为 nil 时使用 Nop logger。
func NewTrainer(log *logger.Logger, metrics *Metrics) *Trainer {
	if log == nil {
		log = logger.Nop()
	}
	return &Trainer{Logger: log, Metrics: metrics}
}

// Train 依次回放每条记录：
//   - 文章序列与点击序列长度不一致：整条记录丢弃
//   - 任一点击数不是非负整数：整条记录丢弃
//   - 文章 ID 不在映射中：只跳过该交互对
//
// 返回的 Report 描述处理结果；只有结构性错误（估计器/映射缺失或臂数不足）才返回 error。
func (t *Trainer) Train(est *bandit.Estimator, m *mapping.Mapping, records []core.InteractionRecord) (*Report, error) {
	if est == nil || m == nil {
		return nil, core.NewDomainError(core.ModuleTrain, core.ErrorCodeInvalidArgument,
			"train: estimator and mapping are required")
	}
	if est.NArms() < m.Len() {
		return nil, core.Errorf(core.ModuleTrain, core.ErrorCodeInvalidArgument,
			"train: estimator has %d arms, mapping has %d articles", est.NArms(), m.Len())
	}
	t.Metrics.arms(est.NArms())

	report := &Report{Records: len(records)}
	for _, rec := range records {
		clicks, reason, err := validate(rec)
		if err != nil {
			t.skip(report, rec, reason, err)
			continue
		}
		for i, id := range rec.History {
			arm, ok := m.Index(id)
			if !ok {
				report.UnknownIDs++
				t.Metrics.pair(ResultUnknownID)
				t.Logger.Warn("news id not found in mapping, skipping", "user_id", rec.UserID, "news_id", id)
				continue
			}
			if err := est.Update(arm, float64(clicks[i])); err != nil {
				return report, err
			}
			report.Pairs++
			t.Metrics.pair(ResultApplied)
		}
		report.Applied++
		t.Metrics.record(ResultApplied)
	}

	t.Logger.Info("training finished",
		"records", report.Records,
		"applied", report.Applied,
		"skipped", report.Skipped(),
		"pairs", report.Pairs,
		"unknown_ids", report.UnknownIDs,
	)
	return report, nil
}

func (t *Trainer) skip(report *Report, rec core.InteractionRecord, reason string, err error) {
	t.Metrics.record(reason)
	switch reason {
	case ResultLengthMismatch:
		report.LengthMismatch++
		t.Logger.Warn("history and clicks length differ, skipping record",
			"user_id", rec.UserID, "history", len(rec.History), "clicks", len(rec.Clicks))
	default:
		report.InvalidClicks++
		t.Logger.Error("failed to parse clicks, skipping record", "user_id", rec.UserID, "error", err)
	}
}

// validate 在任何 Update 之前完成整条记录的校验，保证全有或全无。
// 校验失败时返回丢弃原因（ResultLengthMismatch / ResultInvalidClicks）。
func validate(rec core.InteractionRecord) ([]int, string, error) {
	if len(rec.History) != len(rec.Clicks) {
		return nil, ResultLengthMismatch, core.Errorf(core.ModuleTrain, core.ErrorCodeRecordSkipped,
			"train: history has %d items, clicks has %d", len(rec.History), len(rec.Clicks))
	}
	clicks := make([]int, len(rec.Clicks))
	for i, raw := range rec.Clicks {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, ResultInvalidClicks, core.Wrap(core.ModuleTrain, core.ErrorCodeRecordSkipped,
				"train: invalid click count", err)
		}
		if n < 0 {
			return nil, ResultInvalidClicks, core.Errorf(core.ModuleTrain, core.ErrorCodeRecordSkipped,
				"train: negative click count %d", n)
		}
		clicks[i] = n
	}
	return clicks, "", nil
}
