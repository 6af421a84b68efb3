package dispatch

import "sync"

// SinkRegistry is the explicit registration table mapping sink names onto
// implementations. It is populated at process start; no discovery scanning.
type SinkRegistry struct {
	mu          sync.RWMutex
	alertSinks  map[string]AlertSink
	metricSinks map[string]MetricSink
}

func NewSinkRegistry() *SinkRegistry {
	return &SinkRegistry{
		alertSinks:  make(map[string]AlertSink),
		metricSinks: make(map[string]MetricSink),
	}
}

// RegisterAlert installs an alert sink under its own name.
func (r *SinkRegistry) RegisterAlert(sink AlertSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alertSinks[sink.Name()] = sink
}

// RegisterMetric installs a metric sink under its own name.
func (r *SinkRegistry) RegisterMetric(sink MetricSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metricSinks[sink.Name()] = sink
}

func (r *SinkRegistry) Alert(name string) (AlertSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sink, ok := r.alertSinks[name]

	return sink, ok
}

func (r *SinkRegistry) Metric(name string) (MetricSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sink, ok := r.metricSinks[name]

	return sink, ok
}
