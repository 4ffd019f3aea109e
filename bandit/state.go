package bandit

import "github.com/rushteam/mabnews/core"

// State 是估计器的可持久化状态：两个等长数组。
type State struct {
	Counts []float64 `json:"counts"`
	Values []float64 `json:"values"`
}

// State 导出当前状态（副本）。
func (e *Estimator) State() State {
	return State{Counts: e.Counts(), Values: e.Values()}
}

// FromState 从持久化状态恢复估计器。
func FromState(s State) (*Estimator, error) {
	if len(s.Counts) == 0 || len(s.Counts) != len(s.Values) {
		return nil, core.Errorf(core.ModuleBandit, core.ErrorCodeInvalidArgument,
			"bandit: invalid state (counts=%d, values=%d)", len(s.Counts), len(s.Values))
	}
	for i, c := range s.Counts {
		if c < 0 {
			return nil, core.Errorf(core.ModuleBandit, core.ErrorCodeInvalidArgument,
				"bandit: negative count %v at arm %d", c, i)
		}
	}
	e := &Estimator{
		counts: make([]float64, len(s.Counts)),
		values: make([]float64, len(s.Values)),
	}
	copy(e.counts, s.Counts)
	copy(e.values, s.Values)
	return e, nil
}
