package metrics

import (
	"sync/atomic"
	"time"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// metricPoint is the packed in-buffer representation of one probe sample.
type metricPoint struct {
	timestamp    int64
	responseTime int64
	success      bool
}

// LockFreeRingBuffer is a fixed-size lock-free ring of probe samples.
// Writers only advance an atomic position counter; readers take a snapshot.
type LockFreeRingBuffer struct {
	points    []metricPoint
	pos       int64 // Atomic position counter
	size      int64
	storageID string
}

// NewBuffer creates a MetricStore for one storage device.
func NewBuffer(storageID string, size int) MetricStore {
	if size <= 0 {
		size = defaultRetention
	}

	return &LockFreeRingBuffer{
		points:    make([]metricPoint, size),
		size:      int64(size),
		storageID: storageID,
	}
}

// Add records a probe sample, overwriting the oldest slot when full.
func (b *LockFreeRingBuffer) Add(timestamp time.Time, responseTime int64, success bool) {
	pos := atomic.AddInt64(&b.pos, 1) - 1
	idx := pos % b.size

	b.points[idx] = metricPoint{
		timestamp:    timestamp.UnixNano(),
		responseTime: responseTime,
		success:      success,
	}
}

// GetPoints returns the buffered samples, newest first. Slots never written
// are skipped.
func (b *LockFreeRingBuffer) GetPoints() []models.MetricPoint {
	pos := atomic.LoadInt64(&b.pos)

	count := b.size
	if pos < b.size {
		count = pos
	}

	points := make([]models.MetricPoint, 0, count)

	for i := int64(0); i < count; i++ {
		idx := (pos - i - 1 + b.size) % b.size
		p := b.points[idx]

		points = append(points, models.MetricPoint{
			Timestamp:    time.Unix(0, p.timestamp),
			ResponseTime: p.responseTime,
			StorageID:    b.storageID,
			Success:      p.success,
		})
	}

	return points
}
