// Package bandit 实现非上下文的多臂老虎机估计器（每个臂一个标量价值）。
//
// 选择策略：epsilon-greedy 随机探索闸门 + UCB1 置信上界。
// 更新规则：增量均值，values[i] 始终等于所有传入奖励的算术平均。
package bandit

import (
	"math"

	"github.com/rushteam/mabnews/core"
)

// ucbEpsilon 防止从未被尝试过的臂在 UCB 计算中除零。
const ucbEpsilon = 1e-5

// Rand 是选择臂时使用的随机源，*math/rand/v2.Rand 直接满足该接口。
// 通过注入随机源，固定种子即可复现选择结果。
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Estimator 维护每个臂的尝试次数（counts）与平均奖励（values）。
// 臂数在构造时确定，之后不可变；只能通过 Update 修改状态。
//
// Estimator 不是并发安全的：训练阶段由单一 goroutine 写入，
// 训练完成后可被任意多个推荐请求只读共享。
type Estimator struct {
	counts []float64
	values []float64
}

// New 创建一个拥有 nArms 个臂的估计器，counts 与 values 均为 0。
func New(nArms int) (*Estimator, error) {
	if nArms <= 0 {
		return nil, core.Errorf(core.ModuleBandit, core.ErrorCodeInvalidArgument,
			"bandit: n_arms must be positive, got %d", nArms)
	}
	return &Estimator{
		counts: make([]float64, nArms),
		values: make([]float64, nArms),
	}, nil
}

// NArms 返回臂数。
func (e *Estimator) NArms() int { return len(e.counts) }

// SelectArm 按探索率选择一个臂：
//   - 以 explorationRate 的概率均匀随机选择（纯探索）
//   - 所有臂都没有观测时均匀随机选择
//   - 否则返回 UCB 分数最大的臂，平分时取最小索引
//
// explorationRate 会被截断到 [0, 1]。
func (e *Estimator) SelectArm(rng Rand, explorationRate float64) int {
	n := len(e.counts)
	if rng.Float64() < clamp01(explorationRate) {
		return rng.IntN(n)
	}
	if e.TotalCount() == 0 {
		return rng.IntN(n)
	}
	return argmax(e.UCBScores())
}

// UCBScores 返回贪心分支使用的分数：values[i] + sqrt(2 * ln(total) / (counts[i] + ε))。
func (e *Estimator) UCBScores() []float64 {
	total := e.TotalCount()
	scores := make([]float64, len(e.values))
	if total == 0 {
		copy(scores, e.values)
		return scores
	}
	logTotal := math.Log(total)
	for i, v := range e.values {
		scores[i] = v + math.Sqrt(2*logTotal/(e.counts[i]+ucbEpsilon))
	}
	return scores
}

// Update 记录臂 arm 的一次奖励，并用增量均值更新该臂的价值。
// 越界时返回 INDEX_OUT_OF_RANGE，且不修改任何状态。
func (e *Estimator) Update(arm int, reward float64) error {
	if err := e.checkArm(arm); err != nil {
		return err
	}
	e.counts[arm]++
	n := e.counts[arm]
	e.values[arm] += (reward - e.values[arm]) / n
	return nil
}

// Value 返回臂 arm 的估计价值。
func (e *Estimator) Value(arm int) (float64, error) {
	if err := e.checkArm(arm); err != nil {
		return 0, err
	}
	return e.values[arm], nil
}

// Count 返回臂 arm 的观测次数。
func (e *Estimator) Count(arm int) (float64, error) {
	if err := e.checkArm(arm); err != nil {
		return 0, err
	}
	return e.counts[arm], nil
}

// Values 返回 values 的副本。
func (e *Estimator) Values() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)
	return out
}

// Counts 返回 counts 的副本。
func (e *Estimator) Counts() []float64 {
	out := make([]float64, len(e.counts))
	copy(out, e.counts)
	return out
}

// TotalCount 返回所有臂的观测次数之和。
func (e *Estimator) TotalCount() float64 {
	var total float64
	for _, c := range e.counts {
		total += c
	}
	return total
}

func (e *Estimator) checkArm(arm int) error {
	if arm < 0 || arm >= len(e.counts) {
		return core.Errorf(core.ModuleBandit, core.ErrorCodeOutOfRange,
			"bandit: arm index %d out of range [0, %d)", arm, len(e.counts))
	}
	return nil
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
