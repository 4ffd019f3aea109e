package train

import "github.com/prometheus/client_golang/prometheus"

// Metrics 是训练过程的 Prometheus 指标。
// 批处理任务通常通过 textfile collector 导出（见 cmd/mabnews train --metrics-file）。
type Metrics struct {
	Records *prometheus.CounterVec
	Pairs   *prometheus.CounterVec
	Arms    prometheus.Gauge
}

// 记录/交互对的处理结果标签
const (
	ResultApplied        = "applied"
	ResultLengthMismatch = "length_mismatch"
	ResultInvalidClicks  = "invalid_clicks"
	ResultUnknownID      = "unknown_id"
)

// NewMetrics 创建并注册训练指标。reg 为 nil 时不注册。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mabnews",
			Subsystem: "train",
			Name:      "records_total",
			Help:      "Interaction records processed, by result.",
		}, []string{"result"}),
		Pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mabnews",
			Subsystem: "train",
			Name:      "pairs_total",
			Help:      "(article, clicks) pairs processed, by result.",
		}, []string{"result"}),
		Arms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mabnews",
			Subsystem: "train",
			Name:      "arms",
			Help:      "Number of bandit arms in the trained estimator.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Records, m.Pairs, m.Arms)
	}
	return m
}

func (m *Metrics) record(result string) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(result).Inc()
}

func (m *Metrics) pair(result string) {
	if m == nil {
		return
	}
	m.Pairs.WithLabelValues(result).Inc()
}

func (m *Metrics) arms(n int) {
	if m == nil {
		return
	}
	m.Arms.Set(float64(n))
}
