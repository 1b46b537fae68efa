package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/spendlog/internal/storage"
)

// StoreMetrics holds the collectors recorded by WithMetrics.
type StoreMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the store collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendlog",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by kind and result.",
		}, []string{"op", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spendlog",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of store operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration)
	}
	return m
}

type metricsKV struct {
	next    storage.KV
	metrics *StoreMetrics
}

// WithMetrics returns a storage.KV that records operation counts and latency.
func WithMetrics(next storage.KV, metrics *StoreMetrics) storage.KV {
	return &metricsKV{next: next, metrics: metrics}
}

func (m *metricsKV) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.metrics.Operations.WithLabelValues(op, result).Inc()
	m.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metricsKV) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := m.next.Get(ctx, key)
	m.observe("get", start, err)
	return value, ok, err
}

func (m *metricsKV) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := m.next.Set(ctx, key, value)
	m.observe("set", start, err)
	return err
}

func (m *metricsKV) Close() error {
	return m.next.Close()
}
