package metrics

import (
	"sync"
	"time"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

const defaultRetention = 500

// Manager keeps one probe metric buffer per storage device.
type Manager struct {
	stores sync.Map // storageID -> MetricStore
	config models.MetricsConfig
}

func NewManager(cfg models.MetricsConfig) *Manager {
	return &Manager{config: cfg}
}

// AddMetric records a probe sample for a storage device, creating its buffer
// on first use.
func (m *Manager) AddMetric(storageID string, timestamp time.Time, responseTime int64, success bool) error {
	if !m.config.Enabled {
		return nil
	}

	store, _ := m.stores.LoadOrStore(storageID, NewBuffer(storageID, m.config.Retention))
	store.(MetricStore).Add(timestamp, responseTime, success)

	return nil
}

// GetMetrics returns the buffered samples for a storage device, newest first.
func (m *Manager) GetMetrics(storageID string) []models.MetricPoint {
	store, ok := m.stores.Load(storageID)
	if !ok {
		return nil
	}

	return store.(MetricStore).GetPoints()
}

// StorageIDs lists the devices with at least one recorded sample.
func (m *Manager) StorageIDs() []string {
	var ids []string

	m.stores.Range(func(key, _ interface{}) bool {
		ids = append(ids, key.(string))
		return true
	})

	return ids
}
