// Package models pkg/models/metrics.go
package models

import "time"

// MetricPoint is one probe latency observation for a storage device.
type MetricPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	ResponseTime int64     `json:"response_time"` // microseconds
	StorageID    string    `json:"storage_id"`
	Success      bool      `json:"success"`
}

// MetricsConfig controls the in-memory probe metric buffer.
type MetricsConfig struct {
	Enabled   bool `json:"metrics_enabled"`
	Retention int  `json:"metrics_retention"` // points kept per buffer
}
