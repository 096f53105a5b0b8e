package kit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp     = "op"
	labelResult = "result"

	resultOK    = "ok"
	resultError = "error"
)

// StoreMetrics instruments catalog mutations. A nil *StoreMetrics is valid
// and records nothing.
type StoreMetrics struct {
	Ops      *prometheus.CounterVec
	Products prometheus.Gauge
	Persist  *prometheus.HistogramVec
}

func NewStoreMetrics(reg prometheus.Registerer, service string) *StoreMetrics {
	constLabels := prometheus.Labels{"service": service}

	m := &StoreMetrics{
		Ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "catalog_operations_total",
				Help:        "Catalog mutations by operation and result",
				ConstLabels: constLabels,
			},
			[]string{labelOp, labelResult},
		),
		Products: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "catalog_products",
				Help:        "Products currently held in memory",
				ConstLabels: constLabels,
			},
		),
		Persist: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "catalog_persist_duration_seconds",
				Help:        "Time spent rewriting the backing file",
				ConstLabels: constLabels,
			},
			[]string{labelResult},
		),
	}

	reg.MustRegister(m.Ops, m.Products, m.Persist)
	return m
}

func (m *StoreMetrics) Observe(op, result string) {
	if m == nil {
		return
	}
	m.Ops.WithLabelValues(op, result).Inc()
}

func (m *StoreMetrics) SetProducts(n int) {
	if m == nil {
		return
	}
	m.Products.Set(float64(n))
}

func (m *StoreMetrics) ObservePersist(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.Persist.WithLabelValues(result).Observe(d.Seconds())
}

// WriteMetricsFile dumps g in the text exposition format, for the node
// exporter textfile collector.
func WriteMetricsFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
