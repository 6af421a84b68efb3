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

// Package clustersync pkg/clustersync/clustersync.go replicates control-plane
// credential changes to every trap engine replica over NATS and exposes the
// per-node request surfaces. Replicas converge independently; there is no
// cross-replica transaction.
package clustersync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/decoder"
	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

const (
	// subjectConfigSync is the fanout subject every replica subscribes to.
	subjectConfigSync = "delfin.config.sync"

	// Per-node request subjects, formatted with the node id.
	subjectCheckConfig = "delfin.node.%s.check-config"
	subjectSyncAlerts  = "delfin.node.%s.sync-alerts"

	defaultRequestTimeout = 30 * time.Second
	reconnectWait         = 2 * time.Second
	maxReconnects         = 10
)

// Config controls the cluster sync service.
type Config struct {
	URL            string          `json:"url"`
	NodeID         string          `json:"node_id"`
	RequestTimeout models.Duration `json:"request_timeout"`
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = nats.DefaultURL
	}

	if c.NodeID == "" {
		c.NodeID = uuid.NewString()
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = models.Duration(defaultRequestTimeout)
	}

	return c
}

// SyncConfigMessage is the fanout payload. Either field may be nil.
type SyncConfigMessage struct {
	ToDelete *models.AlertSource `json:"to_delete,omitempty"`
	ToAdd    *models.AlertSource `json:"to_add,omitempty"`
}

// SyncAlertsRequest asks one node to run a full resync for a device.
type SyncAlertsRequest struct {
	StorageID string            `json:"storage_id"`
	Query     decoder.ListQuery `json:"query"`
}

// reply is the targeted-request response envelope.
type reply struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Service is both sides of the cluster surface: it publishes changes made on
// this node and applies changes announced by any node.
type Service struct {
	config    Config
	conn      *nats.Conn
	applier   ConfigApplier
	validator SourceValidator
	resyncer  Resyncer
	log       zerolog.Logger

	subs []*nats.Subscription
}

// Connect dials the configured NATS server. The connection is shared with
// the event sinks, so it is created before the service that owns it.
func Connect(config Config) (*nats.Conn, error) {
	url := config.URL
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url,
		nats.Name("delfin-trapd"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return conn, nil
}

// New wires the service over an established connection. Start must be called
// to begin receiving.
func New(config Config, conn *nats.Conn, applier ConfigApplier, validator SourceValidator, resyncer Resyncer) *Service {
	return &Service{
		config:    config.withDefaults(),
		conn:      conn,
		applier:   applier,
		validator: validator,
		resyncer:  resyncer,
		log:       logger.Component("clustersync"),
	}
}

// Conn exposes the underlying connection so sinks can share it.
func (s *Service) Conn() *nats.Conn {
	return s.conn
}

// NodeID returns this replica's identity on the cluster surface.
func (s *Service) NodeID() string {
	return s.config.NodeID
}

// Start subscribes to the fanout and the per-node request subjects.
func (s *Service) Start(ctx context.Context) error {
	sub, err := s.conn.Subscribe(subjectConfigSync, s.handleConfigSync)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subjectConfigSync, err)
	}

	s.subs = append(s.subs, sub)

	checkSubject := fmt.Sprintf(subjectCheckConfig, s.config.NodeID)

	sub, err = s.conn.Subscribe(checkSubject, s.handleCheckConfig)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", checkSubject, err)
	}

	s.subs = append(s.subs, sub)

	syncSubject := fmt.Sprintf(subjectSyncAlerts, s.config.NodeID)

	sub, err = s.conn.Subscribe(syncSubject, s.handleSyncAlerts)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", syncSubject, err)
	}

	s.subs = append(s.subs, sub)

	s.log.Info().Str("node_id", s.config.NodeID).Msg("Cluster sync subscriptions active")

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	return nil
}

// SyncConfig publishes a credential change to every replica, this node
// included. No reply is expected on the fanout.
func (s *Service) SyncConfig(toDelete, toAdd *models.AlertSource) error {
	data, err := json.Marshal(SyncConfigMessage{ToDelete: toDelete, ToAdd: toAdd})
	if err != nil {
		return fmt.Errorf("failed to marshal config sync: %w", err)
	}

	if err := s.conn.Publish(subjectConfigSync, data); err != nil {
		return fmt.Errorf("failed to publish config sync: %w", err)
	}

	return nil
}

// CheckConfig asks one node to validate an alert source.
func (s *Service) CheckConfig(ctx context.Context, nodeID string, src *models.AlertSource) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal alert source: %w", err)
	}

	return s.request(ctx, fmt.Sprintf(subjectCheckConfig, nodeID), data)
}

// SyncStorageAlerts asks one node to resync a device's alerts.
func (s *Service) SyncStorageAlerts(ctx context.Context, nodeID, storageID string, q decoder.ListQuery) error {
	data, err := json.Marshal(SyncAlertsRequest{StorageID: storageID, Query: q})
	if err != nil {
		return fmt.Errorf("failed to marshal sync request: %w", err)
	}

	return s.request(ctx, fmt.Sprintf(subjectSyncAlerts, nodeID), data)
}

func (s *Service) request(ctx context.Context, subject string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.config.RequestTimeout))
	defer cancel()

	msg, err := s.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", subject, err)
	}

	var r reply
	if err := json.Unmarshal(msg.Data, &r); err != nil {
		return fmt.Errorf("bad reply from %s: %w", subject, err)
	}

	if r.Error != "" {
		return fmt.Errorf("node rejected request on %s: %s", subject, r.Error)
	}

	return nil
}

func (s *Service) handleConfigSync(msg *nats.Msg) {
	var m SyncConfigMessage
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		s.log.Error().Err(err).Msg("Failed to unmarshal config sync message")
		return
	}

	if err := s.applier.ApplyConfigChange(m.ToDelete, m.ToAdd); err != nil {
		s.log.Error().Err(err).Msg("Failed to apply replicated config change")
		return
	}

	s.log.Debug().Msg("Applied replicated config change")
}

func (s *Service) handleCheckConfig(msg *nats.Msg) {
	var src models.AlertSource
	if err := json.Unmarshal(msg.Data, &src); err != nil {
		s.respond(msg, reply{Status: "error", Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.config.RequestTimeout))
	defer cancel()

	// Validate never fails upward; the probe outcome travels through the
	// dispatch channels.
	s.validator.Validate(ctx, &src)
	s.respond(msg, reply{Status: "ok"})
}

func (s *Service) handleSyncAlerts(msg *nats.Msg) {
	var req SyncAlertsRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.respond(msg, reply{Status: "error", Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.config.RequestTimeout))
	defer cancel()

	if err := s.resyncer.Resync(ctx, req.StorageID, req.Query); err != nil {
		s.respond(msg, reply{Status: "error", Error: err.Error()})
		return
	}

	s.respond(msg, reply{Status: "ok"})
}

func (s *Service) respond(msg *nats.Msg, r reply) {
	data, err := json.Marshal(r)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to marshal reply")
		return
	}

	if err := msg.Respond(data); err != nil {
		s.log.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to send reply")
	}
}

// Close drains the subscriptions and closes the connection.
func (s *Service) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}

	if s.conn != nil && !s.conn.IsClosed() {
		s.conn.Close()
	}

	s.log.Info().Msg("Cluster sync stopped")
}
