package dispatch

import (
	"context"

	"github.com/sodafoundation/delfin-sub001/pkg/metrics"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// BufferMetricSink feeds probe samples into the in-memory metric manager so
// the control-plane API can serve recent latency data.
type BufferMetricSink struct {
	collector metrics.MetricCollector
}

func NewBufferMetricSink(collector metrics.MetricCollector) *BufferMetricSink {
	return &BufferMetricSink{collector: collector}
}

func (*BufferMetricSink) Name() string { return "buffer" }

func (s *BufferMetricSink) Dispatch(_ context.Context, batch []models.MetricPoint) error {
	for i := range batch {
		point := &batch[i]

		if err := s.collector.AddMetric(point.StorageID, point.Timestamp, point.ResponseTime, point.Success); err != nil {
			return err
		}
	}

	return nil
}
