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

// Package normalizer pkg/normalizer/normalizer.go turns raw traps into
// enriched canonical alerts. Processing is fire-and-forget: every failure
// path ends in a log line, never in an error surfaced to the receive loop.
package normalizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/decoder"
	"github.com/sodafoundation/delfin-sub001/pkg/dispatch"
	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/registry"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
)

const (
	defaultSettleDelay   = 10 * time.Second
	defaultResyncTimeout = 2 * time.Minute
)

var (
	errAmbiguousSource = fmt.Errorf("multiple alert sources registered for host")
	errUnknownOwner    = fmt.Errorf("no registered device matches the reported identity")
	errNoActiveSource  = fmt.Errorf("re-resolved device has no active alert source")
)

// Config tunes the resync trigger.
type Config struct {
	// SettleDelay is slept before a resync so the device can finish the
	// burst of activity that produced the incomplete trap.
	SettleDelay models.Duration `json:"settle_delay"`
	// ResyncTimeout bounds one background resync end to end.
	ResyncTimeout models.Duration `json:"resync_timeout"`
	// ResyncWindow limits the resync query lookback; zero means unbounded.
	ResyncWindow models.Duration `json:"resync_window"`
}

func (c Config) withDefaults() Config {
	if c.SettleDelay == 0 {
		c.SettleDelay = models.Duration(defaultSettleDelay)
	}

	if c.ResyncTimeout == 0 {
		c.ResyncTimeout = models.Duration(defaultResyncTimeout)
	}

	return c
}

// Normalizer resolves, verifies, decodes, and enriches raw traps. It is safe
// for concurrent use; the per-device resync lock is the only shared state.
type Normalizer struct {
	config    Config
	store     registry.Store
	cipher    secrets.Cipher
	decoders  *decoder.Registry
	forwarder dispatch.Forwarder
	log       zerolog.Logger

	resyncLocks sync.Map // storage id -> struct{}
}

// New wires a Normalizer.
func New(config Config, store registry.Store, cipher secrets.Cipher, decoders *decoder.Registry, forwarder dispatch.Forwarder) *Normalizer {
	return &Normalizer{
		config:    config.withDefaults(),
		store:     store,
		cipher:    cipher,
		decoders:  decoders,
		forwarder: forwarder,
		log:       logger.Component("normalizer"),
	}
}

// HandleTrap satisfies the trap engine's handler contract.
func (n *Normalizer) HandleTrap(ctx context.Context, trap *models.RawTrap) {
	n.Process(ctx, trap)
}

// Process runs one trap through the pipeline: source resolution, community
// binding check, vendor decode, owner re-resolution, enrichment, dispatch.
func (n *Normalizer) Process(ctx context.Context, trap *models.RawTrap) {
	src, ok := n.resolveSource(ctx, trap)
	if !ok {
		return
	}

	if trap.SecurityModel != 3 && !n.communityMatches(src, trap) {
		return
	}

	device, err := n.store.GetDevice(ctx, src.StorageID)
	if err != nil {
		n.log.Error().Err(err).Str("storage_id", src.StorageID).Msg("Failed to load device for trap")
		return
	}

	drv, err := n.decoders.Get(device.Vendor)
	if err != nil {
		n.log.Error().Err(err).Str("vendor", device.Vendor).Msg("No decoder available for trap")
		return
	}

	result := drv.ParseAlert(ctx, src.StorageID, trap)

	switch result.Outcome {
	case decoder.OutcomeOK:
	case decoder.OutcomeIncomplete:
		n.triggerResync(src.StorageID)
		return
	case decoder.OutcomeForeignSource:
		n.log.Debug().Str("storage_id", src.StorageID).
			Str("source_ip", trap.SourceIP).
			Msg("Decoder reported a foreign source, dropping trap")

		return
	default:
		n.log.Error().Err(result.Err).
			Str("storage_id", src.StorageID).
			Str("outcome", result.Outcome.String()).
			Msg("Trap decode failed")

		return
	}

	owner, err := n.resolveOwner(ctx, device, result.Alert)
	if err != nil {
		n.log.Error().Err(err).Str("storage_id", src.StorageID).Msg("Failed to resolve alert owner")
		return
	}

	alert := *result.Alert
	enrich(&alert, owner)

	n.forwarder.DispatchAlerts(ctx, alert)
}

// resolveSource maps the trap's source IP onto exactly one alert source.
// Zero matches is a quiet drop; more than one is an ambiguous configuration.
func (n *Normalizer) resolveSource(ctx context.Context, trap *models.RawTrap) (*models.AlertSource, bool) {
	sources, err := n.store.GetAlertSourcesByHost(ctx, trap.SourceIP)
	if err != nil {
		n.log.Error().Err(err).Str("source_ip", trap.SourceIP).Msg("Alert source lookup failed")
		return nil, false
	}

	switch len(sources) {
	case 0:
		n.log.Debug().Str("source_ip", trap.SourceIP).Msg("Trap from unregistered source, dropping")
		return nil, false
	case 1:
		return &sources[0], true
	default:
		n.log.Error().Err(errAmbiguousSource).
			Str("source_ip", trap.SourceIP).
			Int("matches", len(sources)).
			Msg("Dropping trap")

		return nil, false
	}
}

// communityMatches enforces the source-to-community binding for v1/v2c. The
// transport only filters on any known community, so a matching IP with a
// foreign community is treated as spoofed.
func (n *Normalizer) communityMatches(src *models.AlertSource, trap *models.RawTrap) bool {
	community, err := n.cipher.Decrypt(src.CommunityString)
	if err != nil {
		n.log.Error().Err(err).Str("storage_id", src.StorageID).Msg("Failed to decrypt community string")
		return false
	}

	if community != trap.ContextName {
		n.log.Warn().Str("storage_id", src.StorageID).
			Str("source_ip", trap.SourceIP).
			Msg("Community string mismatch, dropping trap")

		return false
	}

	return true
}

// resolveOwner re-resolves the owning device when the decoded alert names a
// serial number or device name that differs from the source device. Clustered
// arrays report events for sibling controllers this way.
func (n *Normalizer) resolveOwner(ctx context.Context, device *models.Device, alert *models.CanonicalAlert) (*models.Device, error) {
	serialMismatch := alert.SerialNumber != "" && alert.SerialNumber != device.SerialNumber
	nameMismatch := alert.StorageName != "" && alert.StorageName != device.Name

	if !serialMismatch && !nameMismatch {
		return device, nil
	}

	filter := registry.DeviceFilter{Vendor: device.Vendor, Model: device.Model}
	if serialMismatch {
		filter.SerialNumber = alert.SerialNumber
	} else {
		filter.Name = alert.StorageName
	}

	matches, err := n.store.FilterDevices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("device filter failed: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: serial %q name %q", errUnknownOwner, alert.SerialNumber, alert.StorageName)
	}

	owner := &matches[0]

	if _, err := n.store.GetAlertSource(ctx, owner.ID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, fmt.Errorf("%w: device %s", errNoActiveSource, owner.ID)
		}

		return nil, fmt.Errorf("alert source lookup for device %s failed: %w", owner.ID, err)
	}

	return owner, nil
}

// triggerResync schedules a background full resync for a device. The
// per-device advisory lock makes a concurrent second trigger a drop, not a
// queue entry.
func (n *Normalizer) triggerResync(storageID string) {
	if _, held := n.resyncLocks.LoadOrStore(storageID, struct{}{}); held {
		n.log.Debug().Str("storage_id", storageID).Msg("Resync already in flight, dropping trigger")
		return
	}

	go func() {
		defer n.resyncLocks.Delete(storageID)

		time.Sleep(time.Duration(n.config.SettleDelay))

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(n.config.ResyncTimeout))
		defer cancel()

		if err := n.Resync(ctx, storageID, n.resyncQuery()); err != nil {
			n.log.Error().Err(err).Str("storage_id", storageID).Msg("Background resync failed")
		}
	}()
}

func (n *Normalizer) resyncQuery() decoder.ListQuery {
	if n.config.ResyncWindow == 0 {
		return decoder.ListQuery{}
	}

	return decoder.ListQuery{BeginTime: time.Now().Add(-time.Duration(n.config.ResyncWindow)).UnixMilli()}
}

// Resync re-fetches the device's current alert list through its decoder and
// dispatches the enriched result as one batch. Also invoked directly by the
// cluster sync surface.
func (n *Normalizer) Resync(ctx context.Context, storageID string, q decoder.ListQuery) error {
	device, err := n.store.GetDevice(ctx, storageID)
	if err != nil {
		return fmt.Errorf("failed to load device %s: %w", storageID, err)
	}

	drv, err := n.decoders.Get(device.Vendor)
	if err != nil {
		return err
	}

	alerts, err := drv.ListAlerts(ctx, storageID, q)
	if err != nil {
		return fmt.Errorf("failed to list alerts for %s: %w", storageID, err)
	}

	if len(alerts) == 0 {
		return nil
	}

	for i := range alerts {
		enrich(&alerts[i], device)
	}

	n.forwarder.DispatchAlerts(ctx, alerts...)
	n.log.Info().Str("storage_id", storageID).Int("alerts", len(alerts)).Msg("Resync dispatched")

	return nil
}

// enrich stamps device attributes onto the alert and derives the fields a
// partial decode leaves empty.
func enrich(alert *models.CanonicalAlert, device *models.Device) {
	alert.StorageID = device.ID
	alert.StorageName = device.Name
	alert.Vendor = device.Vendor
	alert.Model = device.Model
	alert.SerialNumber = device.SerialNumber

	if alert.OccurTime == 0 {
		alert.OccurTime = time.Now().UnixMilli()
	}

	if alert.Location == "" {
		alert.Location = device.Location
	}

	alert.MatchKey = alert.ComputeMatchKey()
}
