// Package metrics pkg/metrics/interfaces.go
package metrics

import (
	"time"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

//go:generate mockgen -destination=mock_buffer.go -package=metrics github.com/sodafoundation/delfin-sub001/pkg/metrics MetricStore,MetricCollector

// MetricStore buffers probe latency points for one storage device.
type MetricStore interface {
	Add(timestamp time.Time, responseTime int64, success bool)
	GetPoints() []models.MetricPoint
}

// MetricCollector aggregates per-device metric stores.
type MetricCollector interface {
	AddMetric(storageID string, timestamp time.Time, responseTime int64, success bool) error
	GetMetrics(storageID string) []models.MetricPoint
}
