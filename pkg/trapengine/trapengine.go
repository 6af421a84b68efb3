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

// Package trapengine pkg/trapengine/trapengine.go runs the UDP trap listener
// and the live credential table behind it. Sources are loaded from the
// registry at startup and mutated in place afterwards, without rebinding the
// socket.
package trapengine

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/registry"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
)

const (
	defaultListenAddr = "0.0.0.0:162"
	defaultPageSize   = 100
	defaultCloseWait  = 3 * time.Second
)

var errAlreadyRunning = fmt.Errorf("trap engine already running")

// Config controls the trap engine.
type Config struct {
	ListenAddr   string          `json:"listen_addr"`
	PageSize     int             `json:"page_size"`
	CloseTimeout models.Duration `json:"close_timeout"`
}

func (c Config) withDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}

	if c.CloseTimeout == 0 {
		c.CloseTimeout = models.Duration(defaultCloseWait)
	}

	return c
}

// Manager owns the trap listener and the principal table. A single Manager
// serves one UDP bind address; config changes are applied live through
// ApplyConfigChange.
type Manager struct {
	config  Config
	store   registry.Store
	cipher  secrets.Cipher
	handler TrapHandler
	log     zerolog.Logger

	principals *principalTable
	listener   *gosnmp.TrapListener

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewManager wires a Manager; Start must be called before traps arrive.
func NewManager(config Config, store registry.Store, cipher secrets.Cipher, handler TrapHandler) *Manager {
	log := logger.Component("trapengine")
	usm := gosnmp.NewSnmpV3SecurityParametersTable(gosnmp.NewLogger(logger.SnmpLogger{Logger: log}))

	return &Manager{
		config:     config.withDefaults(),
		store:      store,
		cipher:     cipher,
		handler:    handler,
		log:        log,
		principals: newPrincipalTable(usm),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start loads every persisted alert source into the principal table, binds
// the UDP listener, and begins receiving. A per-source registration failure
// is logged and skipped; a bind failure is fatal and returned.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errAlreadyRunning
	}

	m.running = true
	m.mu.Unlock()

	if err := m.loadSources(ctx); err != nil {
		m.setStopped()
		return err
	}

	tl := gosnmp.NewTrapListener()
	tl.Params = &gosnmp.GoSNMP{
		Transport:                   "udp",
		Version:                     gosnmp.Version2c,
		Logger:                      gosnmp.NewLogger(logger.SnmpLogger{Logger: m.log}),
		SecurityModel:               gosnmp.UserSecurityModel,
		SecurityParameters:          &gosnmp.UsmSecurityParameters{},
		TrapSecurityParametersTable: m.principals.usm,
	}
	tl.CloseTimeout = time.Duration(m.config.CloseTimeout)
	tl.OnNewTrap = m.handleTrap

	m.listener = tl

	errCh := make(chan error, 1)

	go func() {
		defer close(m.doneCh)

		errCh <- tl.Listen(m.config.ListenAddr)
	}()

	select {
	case <-tl.Listening():
		m.log.Info().Str("addr", m.config.ListenAddr).Msg("Trap listener bound")
	case err := <-errCh:
		m.setStopped()
		return fmt.Errorf("failed to bind trap listener on %s: %w", m.config.ListenAddr, err)
	case <-ctx.Done():
		tl.Close()
		m.setStopped()

		return ctx.Err()
	}

	go func() {
		select {
		case <-ctx.Done():
			m.Stop()
		case <-m.stopCh:
		}
	}()

	return nil
}

func (m *Manager) setStopped() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// loadSources pages through every alert source in the registry and registers
// its principal.
func (m *Manager) loadSources(ctx context.Context) error {
	marker := ""

	for {
		sources, next, err := m.store.ListAlertSources(ctx, marker, m.config.PageSize)
		if err != nil {
			return fmt.Errorf("failed to load alert sources: %w", err)
		}

		for i := range sources {
			src := &sources[i]
			if err := m.principals.Register(src, m.cipher); err != nil {
				m.log.Warn().Err(err).
					Str("storage_id", src.StorageID).
					Msg("Skipping alert source with unusable credentials")
			}
		}

		if next == "" {
			return nil
		}

		marker = next
	}
}

// ApplyConfigChange mutates the live principal table. toDelete is removed
// first (absent keys are a no-op), then toAdd is validated and registered.
// Either argument may be nil.
func (m *Manager) ApplyConfigChange(toDelete, toAdd *models.AlertSource) error {
	if toDelete != nil {
		m.principals.Remove(toDelete)
		m.log.Debug().Str("storage_id", toDelete.StorageID).Msg("Removed trap principal")
	}

	if toAdd != nil {
		if err := m.principals.Register(toAdd, m.cipher); err != nil {
			return err
		}

		m.log.Debug().Str("storage_id", toAdd.StorageID).Msg("Registered trap principal")
	}

	return nil
}

// Community looks up the decrypted community registered for a v1/v2c
// principal key. Inspection surface over the live table; the source binding
// check itself decrypts from the registry.
func (m *Manager) Community(principalKey string) (string, bool) {
	return m.principals.Community(principalKey)
}

// PrincipalCount reports the number of live principals.
func (m *Manager) PrincipalCount() int {
	return m.principals.Len()
}

// Stop closes the UDP listener. Best effort: close errors are logged, not
// returned, and Stop is safe to call more than once.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.running = false

	if m.listener != nil {
		m.listener.Close()
		<-m.doneCh
	}

	close(m.stopCh)

	m.log.Info().Msg("Trap engine stopped")
}

// handleTrap runs on the gosnmp listener goroutine. Handler panics are
// contained so a bad decode can never take down the receive loop.
func (m *Manager) handleTrap(packet *gosnmp.SnmpPacket, addr *net.UDPAddr) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).
				Str("remote", addr.String()).
				Msg("Recovered from trap handler panic")
		}
	}()

	raw := rawTrapFromPacket(packet, addr)
	if raw == nil {
		return
	}

	m.handler.HandleTrap(context.Background(), raw)
}

// rawTrapFromPacket flattens a decoded PDU into the transport-independent
// form the pipeline consumes. For v1 the agent address field wins over the
// UDP source when present.
func rawTrapFromPacket(packet *gosnmp.SnmpPacket, addr *net.UDPAddr) *models.RawTrap {
	if packet == nil {
		return nil
	}

	sourceIP := ""
	if addr != nil {
		sourceIP = addr.IP.String()
	}

	if packet.Version == gosnmp.Version1 && packet.AgentAddress != "" {
		sourceIP = packet.AgentAddress
	}

	raw := &models.RawTrap{
		SourceIP: sourceIP,
		Varbinds: make(map[string]string, len(packet.Variables)),
	}

	switch packet.Version {
	case gosnmp.Version1:
		raw.SecurityModel = 1
		raw.ContextName = packet.Community
	case gosnmp.Version2c:
		raw.SecurityModel = 2
		raw.ContextName = packet.Community
	case gosnmp.Version3:
		raw.SecurityModel = 3
		raw.ContextName = packet.ContextName
	}

	for _, pdu := range packet.Variables {
		if isErrorPDU(pdu.Type) {
			continue
		}

		raw.Varbinds[normalizeOID(pdu.Name)] = pduValueString(pdu)
	}

	return raw
}
