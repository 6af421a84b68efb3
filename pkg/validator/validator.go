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

// Package validator pkg/validator/validator.go probes registered alert
// sources for SNMP reachability and turns state transitions into synthetic
// connectivity alerts. A probe failure is an expected condition, not an
// error: Validate never reports back to its caller.
package validator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sodafoundation/delfin-sub001/pkg/dispatch"
	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/registry"
)

// HealthState is the connectivity state of one device.
type HealthState string

const (
	StateOK    HealthState = "OK"
	StateFault HealthState = "FAULT"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultSweepRate     = 10 // probes per second during a sweep
	defaultSweepPageSize = 100

	recoveredDescription = "SNMP connectivity to the storage device has recovered"
)

// Config controls the validator.
type Config struct {
	// Disabled short-circuits every probe to success without touching the
	// network. Health state is left as-is.
	Disabled bool `json:"disabled"`

	SweepInterval models.Duration `json:"sweep_interval"`
	SweepRate     float64         `json:"sweep_rate"`
	SweepPageSize int             `json:"sweep_page_size"`
}

func (c Config) withDefaults() Config {
	if c.SweepInterval == 0 {
		c.SweepInterval = models.Duration(defaultSweepInterval)
	}

	if c.SweepRate <= 0 {
		c.SweepRate = defaultSweepRate
	}

	if c.SweepPageSize <= 0 {
		c.SweepPageSize = defaultSweepPageSize
	}

	return c
}

// Validator probes alert sources and maintains the in-memory health map.
// The map is keyed by device serial number and is not persisted; a restart
// re-derives state from the next probe round.
type Validator struct {
	config    Config
	store     registry.Store
	prober    Prober
	forwarder dispatch.Forwarder
	log       zerolog.Logger
	limiter   *rate.Limiter

	mu     sync.Mutex
	health map[string]HealthState
}

// New wires a Validator.
func New(config Config, store registry.Store, prober Prober, forwarder dispatch.Forwarder) *Validator {
	c := config.withDefaults()

	return &Validator{
		config:    c,
		store:     store,
		prober:    prober,
		forwarder: forwarder,
		log:       logger.Component("validator"),
		limiter:   rate.NewLimiter(rate.Limit(c.SweepRate), 1),
		health:    make(map[string]HealthState),
	}
}

// Validate probes one alert source and applies the hysteresis transition.
// Defaults are filled into src in place. All failures end here; nothing is
// returned to the caller.
func (v *Validator) Validate(ctx context.Context, src *models.AlertSource) {
	applyDefaults(src)

	if v.config.Disabled {
		v.log.Debug().Str("storage_id", src.StorageID).Msg("Validation disabled, assuming reachable")
		return
	}

	device, err := v.store.GetDevice(ctx, src.StorageID)
	if err != nil {
		v.log.Error().Err(err).Str("storage_id", src.StorageID).Msg("Failed to load device for validation")
		return
	}

	started := time.Now()
	engineID, probeErr := v.prober.Probe(ctx, src)
	elapsed := time.Since(started)

	// A broken record is not a broken device. Config-class failures are
	// logged and leave the health state untouched.
	if errors.Is(probeErr, ErrSourceConfig) {
		v.log.Error().Err(probeErr).Str("storage_id", src.StorageID).Msg("Probe aborted, alert source misconfigured")
		return
	}

	v.forwarder.DispatchMetrics(ctx, models.MetricPoint{
		Timestamp:    started,
		ResponseTime: elapsed.Microseconds(),
		StorageID:    src.StorageID,
		Success:      probeErr == nil,
	})

	if probeErr != nil {
		v.log.Warn().Err(probeErr).Str("storage_id", src.StorageID).Msg("Connectivity probe failed")
		v.transition(ctx, device, false, started)

		return
	}

	v.captureEngineID(ctx, src, engineID)
	v.transition(ctx, device, true, started)
}

// captureEngineID persists a discovered v3 engine id exactly once. An
// already-stored id is never replaced.
func (v *Validator) captureEngineID(ctx context.Context, src *models.AlertSource, engineID string) {
	if engineID == "" || src.EngineID != "" {
		return
	}

	src.EngineID = engineID

	// The row may not exist yet when validation runs ahead of the first
	// persist; the caller's upsert carries the id in that case.
	if err := v.store.UpdateEngineID(ctx, src.StorageID, engineID); err != nil {
		v.log.Warn().Err(err).Str("storage_id", src.StorageID).Msg("Engine id not persisted in place")
		return
	}

	v.log.Info().Str("storage_id", src.StorageID).Msg("Captured security engine id")
}

// transition applies the hysteresis rule. An unseen serial is assumed FAULT,
// so the very first successful probe of a device emits a recovery.
func (v *Validator) transition(ctx context.Context, device *models.Device, success bool, probeTime time.Time) {
	v.mu.Lock()

	prior, seen := v.health[device.SerialNumber]
	if !seen {
		prior = StateFault
	}

	if success {
		v.health[device.SerialNumber] = StateOK
	} else {
		v.health[device.SerialNumber] = StateFault
	}

	v.mu.Unlock()

	switch {
	case success && prior == StateFault:
		v.emit(ctx, device, models.CategoryRecovery, probeTime)
	case !success:
		// Failures are never suppressed, even FAULT -> FAULT.
		v.emit(ctx, device, models.CategoryFault, probeTime)
	}
}

func (v *Validator) emit(ctx context.Context, device *models.Device, category models.Category, probeTime time.Time) {
	alert := models.CanonicalAlert{
		AlertID:        models.ConnectFailedAlertID,
		AlertName:      models.ConnectFailedAlertName,
		Severity:       models.SeverityMajor,
		Category:       category,
		Type:           models.AlertTypeCommunications,
		OccurTime:      probeTime.UnixMilli(),
		Location:       device.Name,
		Description:    models.ConnectFailedDescription,
		Recommendation: models.ConnectFailedRecommend,
		ResourceType:   "storage",
		SequenceNumber: 0,
		StorageID:      device.ID,
		StorageName:    device.Name,
		Vendor:         device.Vendor,
		Model:          device.Model,
		SerialNumber:   device.SerialNumber,
	}

	if category == models.CategoryRecovery {
		alert.Description = recoveredDescription
		alert.Recommendation = ""
		alert.ClearCategory = models.ClearAutomatic
	}

	alert.MatchKey = alert.ComputeMatchKey()

	v.forwarder.DispatchAlerts(ctx, alert)
}

// HealthStates returns a snapshot of the health map.
func (v *Validator) HealthStates() map[string]HealthState {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]HealthState, len(v.health))
	for k, s := range v.health {
		out[k] = s
	}

	return out
}

// RunSweep re-validates every registered alert source once, rate-capped so
// a large fleet does not burst the network.
func (v *Validator) RunSweep(ctx context.Context) error {
	marker := ""

	for {
		sources, next, err := v.store.ListAlertSources(ctx, marker, v.config.SweepPageSize)
		if err != nil {
			return err
		}

		for i := range sources {
			if err := v.limiter.Wait(ctx); err != nil {
				return err
			}

			v.Validate(ctx, &sources[i])
		}

		if next == "" {
			return nil
		}

		marker = next
	}
}

// Start runs periodic sweeps until ctx is cancelled.
func (v *Validator) Start(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(v.config.SweepInterval))
	defer ticker.Stop()

	v.log.Info().
		Dur("interval", time.Duration(v.config.SweepInterval)).
		Msg("Connectivity sweep scheduler started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := v.RunSweep(ctx); err != nil {
				v.log.Error().Err(err).Msg("Connectivity sweep failed")
			}
		}
	}
}

// applyDefaults fills the optional connection fields the control plane may
// leave unset.
func applyDefaults(src *models.AlertSource) {
	if src.Port == 0 {
		src.Port = models.DefaultProbePort
	}

	if src.RetryCount == 0 {
		src.RetryCount = models.DefaultRetryCount
	}

	if src.Timeout == 0 {
		src.Timeout = models.Duration(models.DefaultTimeoutSecs * time.Second)
	}
}
