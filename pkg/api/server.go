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

// Package api pkg/api/server.go is the control plane: alert source CRUD with
// validate-then-broadcast semantics, plus read-only health, metrics, and
// live alert stream endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	httpx "github.com/sodafoundation/delfin-sub001/pkg/http"
	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/metrics"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/registry"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
	"github.com/sodafoundation/delfin-sub001/pkg/validator"
)

const (
	maskedSecret     = "***"
	defaultListLimit = 50
	maxListLimit     = 500
	shutdownTimeout  = 10 * time.Second
)

// ConfigSyncer broadcasts a validated credential change to every replica.
type ConfigSyncer interface {
	SyncConfig(toDelete, toAdd *models.AlertSource) error
}

// SourceValidator probes a source before it is persisted and broadcast.
type SourceValidator interface {
	Validate(ctx context.Context, src *models.AlertSource)
}

// HealthReader exposes the validator's device health snapshot.
type HealthReader interface {
	HealthStates() map[string]validator.HealthState
}

// Config controls the HTTP server.
type Config struct {
	ListenAddr string `json:"listen_addr"`
}

// Server is the control-plane HTTP surface.
type Server struct {
	config    Config
	router    *mux.Router
	store     registry.Store
	cipher    secrets.Cipher
	validator SourceValidator
	syncer    ConfigSyncer
	health    HealthReader
	metrics   *metrics.Manager
	stream    http.Handler
	log       zerolog.Logger

	httpSrv *http.Server
}

// NewServer wires the control plane. stream may be nil when no websocket
// sink is configured.
func NewServer(config Config, store registry.Store, cipher secrets.Cipher, v SourceValidator, syncer ConfigSyncer, health HealthReader, m *metrics.Manager, stream http.Handler) *Server {
	s := &Server{
		config:    config,
		router:    mux.NewRouter(),
		store:     store,
		cipher:    cipher,
		validator: v,
		syncer:    syncer,
		health:    health,
		metrics:   m,
		stream:    stream,
		log:       logger.Component("api"),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware, httpx.AccessLog)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/storages/{id}/alert-source", s.putAlertSource).Methods(http.MethodPut)
	api.HandleFunc("/storages/{id}/alert-source", s.getAlertSource).Methods(http.MethodGet)
	api.HandleFunc("/storages/{id}/alert-source", s.deleteAlertSource).Methods(http.MethodDelete)
	api.HandleFunc("/alert-sources", s.listAlertSources).Methods(http.MethodGet)
	api.HandleFunc("/health", s.getHealth).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.getMetrics).Methods(http.MethodGet)

	if s.stream != nil {
		api.Handle("/stream", s.stream).Methods(http.MethodGet)
	}
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         s.config.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.log.Info().Str("addr", s.config.ListenAddr).Msg("Control plane listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

// putAlertSource validates, persists, and broadcasts an alert source. The
// inbound body carries plaintext secrets; they are encrypted before any
// persistence or broadcast and never serialized back out.
func (s *Server) putAlertSource(w http.ResponseWriter, r *http.Request) {
	storageID := mux.Vars(r)["id"]

	var src models.AlertSource
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	src.StorageID = storageID

	version, ok := models.ParseSnmpVersion(string(src.Version))
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported SNMP version")
		return
	}

	src.Version = version

	if msg := validateFields(&src); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// One alert source per host. A second owner would make every trap from
	// the host ambiguous and undeliverable.
	siblings, err := s.store.GetAlertSourcesByHost(r.Context(), src.Host)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registry lookup failed")
		return
	}

	for i := range siblings {
		if siblings[i].StorageID != storageID {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("host %s is already registered to storage %s", src.Host, siblings[i].StorageID))

			return
		}
	}

	if err := s.encryptSecrets(&src); err != nil {
		s.log.Error().Err(err).Str("storage_id", storageID).Msg("Failed to encrypt credentials")
		writeError(w, http.StatusInternalServerError, "failed to encrypt credentials")

		return
	}

	old, err := s.store.GetAlertSource(r.Context(), storageID)
	if err != nil && !errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "registry lookup failed")
		return
	}

	// Probe outcome travels through the dispatch channels; a failed probe
	// produces a FAULT alert but does not block the write.
	s.validator.Validate(r.Context(), &src)

	if err := s.store.UpsertAlertSource(r.Context(), &src); err != nil {
		s.log.Error().Err(err).Str("storage_id", storageID).Msg("Failed to persist alert source")
		writeError(w, http.StatusInternalServerError, "failed to persist alert source")

		return
	}

	if err := s.syncer.SyncConfig(old, &src); err != nil {
		s.log.Error().Err(err).Str("storage_id", storageID).Msg("Failed to broadcast config change")
	}

	writeJSON(w, http.StatusOK, masked(src))
}

func (s *Server) getAlertSource(w http.ResponseWriter, r *http.Request) {
	storageID := mux.Vars(r)["id"]

	src, err := s.store.GetAlertSource(r.Context(), storageID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert source not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "registry lookup failed")

		return
	}

	writeJSON(w, http.StatusOK, masked(*src))
}

func (s *Server) deleteAlertSource(w http.ResponseWriter, r *http.Request) {
	storageID := mux.Vars(r)["id"]

	old, err := s.store.GetAlertSource(r.Context(), storageID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert source not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "registry lookup failed")

		return
	}

	if err := s.store.DeleteAlertSource(r.Context(), storageID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete alert source")
		return
	}

	if err := s.syncer.SyncConfig(old, nil); err != nil {
		s.log.Error().Err(err).Str("storage_id", storageID).Msg("Failed to broadcast config removal")
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAlertSources(w http.ResponseWriter, r *http.Request) {
	marker := r.URL.Query().Get("marker")

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}

		limit = n
	}

	sources, next, err := s.store.ListAlertSources(r.Context(), marker, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registry scan failed")
		return
	}

	out := struct {
		Sources []models.AlertSource `json:"sources"`
		Next    string               `json:"next,omitempty"`
	}{
		Sources: make([]models.AlertSource, 0, len(sources)),
		Next:    next,
	}

	for _, src := range sources {
		out.Sources = append(out.Sources, masked(src))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health.HealthStates())
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	if storageID := r.URL.Query().Get("storage_id"); storageID != "" {
		writeJSON(w, http.StatusOK, s.metrics.GetMetrics(storageID))
		return
	}

	out := make(map[string][]models.MetricPoint)
	for _, id := range s.metrics.StorageIDs() {
		out[id] = s.metrics.GetMetrics(id)
	}

	writeJSON(w, http.StatusOK, out)
}

// encryptSecrets replaces the plaintext credential fields of the populated
// version group in place.
func (s *Server) encryptSecrets(src *models.AlertSource) error {
	var err error

	switch src.Version {
	case models.SnmpV1, models.SnmpV2c:
		src.CommunityString, err = s.cipher.Encrypt(src.CommunityString)

		return err
	case models.SnmpV3:
		if src.AuthKey != "" {
			if src.AuthKey, err = s.cipher.Encrypt(src.AuthKey); err != nil {
				return err
			}
		}

		if src.PrivacyKey != "" {
			if src.PrivacyKey, err = s.cipher.Encrypt(src.PrivacyKey); err != nil {
				return err
			}
		}

		return nil
	}

	return nil
}

// validateFields checks the version-dependent required fields. It returns an
// empty string when the source is acceptable.
func validateFields(src *models.AlertSource) string {
	if src.Host == "" {
		return "host is required"
	}

	switch src.Version {
	case models.SnmpV1, models.SnmpV2c:
		if src.CommunityString == "" {
			return "community_string is required for v1/v2c"
		}

		// The other field group must stay nulled.
		src.Username = ""
		src.SecurityLevel = ""
		src.AuthProtocol = ""
		src.AuthKey = ""
		src.PrivacyProtocol = ""
		src.PrivacyKey = ""
		src.EngineID = ""
		src.ContextName = ""
	case models.SnmpV3:
		if src.Username == "" {
			return "username is required for v3"
		}

		src.CommunityString = ""
	}

	return ""
}

// masked returns a copy safe to serialize: stored secrets are never exposed,
// not even in encrypted form.
func masked(src models.AlertSource) models.AlertSource {
	if src.CommunityString != "" {
		src.CommunityString = maskedSecret
	}

	if src.AuthKey != "" {
		src.AuthKey = maskedSecret
	}

	if src.PrivacyKey != "" {
		src.PrivacyKey = maskedSecret
	}

	return src
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
