/*-
 * Copyright 2025 The SODA Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package dispatch pkg/dispatch/dispatch.go fans canonical records out to
// every configured sink. The alert and metric channels are independent and
// a failing sink never blocks its siblings.
package dispatch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// Config selects which registered sinks each channel uses. Unknown names
// are silently absent, not an error.
type Config struct {
	AlertSinks  []string `json:"alert_sinks"`
	MetricSinks []string `json:"metric_sinks"`
}

// Dispatcher implements Forwarder over a sink registry.
type Dispatcher struct {
	alertSinks  []AlertSink
	metricSinks []MetricSink
	log         zerolog.Logger
}

// NewDispatcher resolves the configured sink names against the registry.
func NewDispatcher(cfg Config, reg *SinkRegistry) *Dispatcher {
	d := &Dispatcher{
		log: logger.Component("dispatch"),
	}

	for _, name := range cfg.AlertSinks {
		if sink, ok := reg.Alert(name); ok {
			d.alertSinks = append(d.alertSinks, sink)
		} else {
			d.log.Debug().Str("sink", name).Msg("configured alert sink not registered")
		}
	}

	for _, name := range cfg.MetricSinks {
		if sink, ok := reg.Metric(name); ok {
			d.metricSinks = append(d.metricSinks, sink)
		} else {
			d.log.Debug().Str("sink", name).Msg("configured metric sink not registered")
		}
	}

	return d
}

// DispatchAlerts hands the batch to every alert sink. A sink error or panic
// is logged and the remaining sinks still receive the batch.
func (d *Dispatcher) DispatchAlerts(ctx context.Context, batch ...models.CanonicalAlert) {
	if len(batch) == 0 {
		return
	}

	for _, sink := range d.alertSinks {
		d.deliverAlerts(ctx, sink, batch)
	}
}

// DispatchMetrics mirrors DispatchAlerts for the metric channel.
func (d *Dispatcher) DispatchMetrics(ctx context.Context, batch ...models.MetricPoint) {
	if len(batch) == 0 {
		return
	}

	for _, sink := range d.metricSinks {
		d.deliverMetrics(ctx, sink, batch)
	}
}

func (d *Dispatcher) deliverAlerts(ctx context.Context, sink AlertSink, batch []models.CanonicalAlert) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("sink", sink.Name()).Interface("panic", r).
				Msg("alert sink panicked")
		}
	}()

	if err := sink.Dispatch(ctx, batch); err != nil {
		d.log.Error().Err(err).Str("sink", sink.Name()).Int("batch", len(batch)).
			Msg("alert sink delivery failed")
	}
}

func (d *Dispatcher) deliverMetrics(ctx context.Context, sink MetricSink, batch []models.MetricPoint) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("sink", sink.Name()).Interface("panic", r).
				Msg("metric sink panicked")
		}
	}()

	if err := sink.Dispatch(ctx, batch); err != nil {
		d.log.Error().Err(err).Str("sink", sink.Name()).Int("batch", len(batch)).
			Msg("metric sink delivery failed")
	}
}
