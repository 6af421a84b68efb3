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

// Package registry pkg/registry/sqlite.go provides the SQLite-backed store.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

const (
	dbOperationTimeout = 5 * time.Second

	createTablesSQL = `
	-- Monitored storage devices
	CREATE TABLE IF NOT EXISTS devices (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		vendor TEXT NOT NULL,
		model TEXT NOT NULL,
		serial_number TEXT NOT NULL,
		location TEXT,
		firmware_version TEXT
	);

	-- Per-device trap credentials; exactly one row per storage id
	CREATE TABLE IF NOT EXISTS alert_sources (
		storage_id TEXT PRIMARY KEY,
		host TEXT NOT NULL,
		port INTEGER NOT NULL DEFAULT 0,
		version TEXT NOT NULL,
		community_string TEXT,
		username TEXT,
		security_level TEXT,
		auth_protocol TEXT,
		auth_key TEXT,
		privacy_protocol TEXT,
		privacy_key TEXT,
		engine_id TEXT,
		context_name TEXT,
		retry_count INTEGER NOT NULL DEFAULT 0,
		timeout_ns INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (storage_id) REFERENCES devices(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_alert_sources_host ON alert_sources(host);
	CREATE INDEX IF NOT EXISTS idx_devices_identity ON devices(vendor, model, serial_number);
	`
)

var (
	errFailedOpenDB      = errors.New("failed to open database")
	errFailedToInit      = errors.New("failed to initialize schema")
	errFailedToEnableWAL = errors.New("failed to enable WAL mode")
	errFailedToQuery     = errors.New("failed to query")
	errFailedToScan      = errors.New("failed to scan row")
	errFailedToUpsert    = errors.New("failed to upsert")
	errFailedToDelete    = errors.New("failed to delete")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the registry database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedOpenDB, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errFailedToEnableWAL, err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errFailedToInit, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
		SELECT id, name, vendor, model, serial_number,
		       COALESCE(location, ''), COALESCE(firmware_version, '')
		FROM devices WHERE id = ?`

	var d models.Device

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Vendor, &d.Model, &d.SerialNumber,
		&d.Location, &d.FirmwareVer)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: device %s", ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}

	return &d, nil
}

func (s *SQLiteStore) UpsertDevice(ctx context.Context, d *models.Device) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
		INSERT INTO devices (id, name, vendor, model, serial_number, location, firmware_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			vendor = excluded.vendor,
			model = excluded.model,
			serial_number = excluded.serial_number,
			location = excluded.location,
			firmware_version = excluded.firmware_version`

	if _, err := s.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Vendor, d.Model, d.SerialNumber, d.Location, d.FirmwareVer); err != nil {
		return fmt.Errorf("%w: %w", errFailedToUpsert, err)
	}

	return nil
}

func (s *SQLiteStore) DeleteDevice(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	// The alert source row goes with the device.
	if _, err := s.db.ExecContext(ctx, "DELETE FROM alert_sources WHERE storage_id = ?", id); err != nil {
		return fmt.Errorf("%w: %w", errFailedToDelete, err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: %w", errFailedToDelete, err)
	}

	return nil
}

func (s *SQLiteStore) FilterDevices(ctx context.Context, f DeviceFilter) ([]models.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	query := `
		SELECT id, name, vendor, model, serial_number,
		       COALESCE(location, ''), COALESCE(firmware_version, '')
		FROM devices WHERE 1=1`

	args := make([]interface{}, 0, 4)

	if f.Vendor != "" {
		query += " AND vendor = ?"
		args = append(args, f.Vendor)
	}

	if f.Model != "" {
		query += " AND model = ?"
		args = append(args, f.Model)
	}

	if f.SerialNumber != "" {
		query += " AND serial_number = ?"
		args = append(args, f.SerialNumber)
	}

	if f.Name != "" {
		query += " AND name = ?"
		args = append(args, f.Name)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}
	defer rows.Close()

	var devices []models.Device

	for rows.Next() {
		var d models.Device

		if err := rows.Scan(&d.ID, &d.Name, &d.Vendor, &d.Model, &d.SerialNumber,
			&d.Location, &d.FirmwareVer); err != nil {
			return nil, fmt.Errorf("%w: %w", errFailedToScan, err)
		}

		devices = append(devices, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}

	return devices, nil
}

const alertSourceColumns = `
	storage_id, host, port, version,
	COALESCE(community_string, ''), COALESCE(username, ''),
	COALESCE(security_level, ''), COALESCE(auth_protocol, ''), COALESCE(auth_key, ''),
	COALESCE(privacy_protocol, ''), COALESCE(privacy_key, ''),
	COALESCE(engine_id, ''), COALESCE(context_name, ''),
	retry_count, timeout_ns`

func scanAlertSource(scanner interface{ Scan(...interface{}) error }) (*models.AlertSource, error) {
	var src models.AlertSource

	var timeoutNs int64

	err := scanner.Scan(
		&src.StorageID, &src.Host, &src.Port, &src.Version,
		&src.CommunityString, &src.Username,
		&src.SecurityLevel, &src.AuthProtocol, &src.AuthKey,
		&src.PrivacyProtocol, &src.PrivacyKey,
		&src.EngineID, &src.ContextName,
		&src.RetryCount, &timeoutNs)
	if err != nil {
		return nil, err
	}

	src.Timeout = models.Duration(timeoutNs)

	return &src, nil
}

func (s *SQLiteStore) GetAlertSource(ctx context.Context, storageID string) (*models.AlertSource, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	query := "SELECT " + alertSourceColumns + " FROM alert_sources WHERE storage_id = ?"

	src, err := scanAlertSource(s.db.QueryRowContext(ctx, query, storageID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: alert source %s", ErrNotFound, storageID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}

	return src, nil
}

func (s *SQLiteStore) GetAlertSourcesByHost(ctx context.Context, host string) ([]models.AlertSource, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	query := "SELECT " + alertSourceColumns + " FROM alert_sources WHERE host = ? ORDER BY storage_id"

	rows, err := s.db.QueryContext(ctx, query, host)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}
	defer rows.Close()

	var sources []models.AlertSource

	for rows.Next() {
		src, err := scanAlertSource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errFailedToScan, err)
		}

		sources = append(sources, *src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}

	return sources, nil
}

func (s *SQLiteStore) UpsertAlertSource(ctx context.Context, src *models.AlertSource) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
		INSERT INTO alert_sources (
			storage_id, host, port, version, community_string,
			username, security_level, auth_protocol, auth_key,
			privacy_protocol, privacy_key, engine_id, context_name,
			retry_count, timeout_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(storage_id) DO UPDATE SET
			host = excluded.host,
			port = excluded.port,
			version = excluded.version,
			community_string = excluded.community_string,
			username = excluded.username,
			security_level = excluded.security_level,
			auth_protocol = excluded.auth_protocol,
			auth_key = excluded.auth_key,
			privacy_protocol = excluded.privacy_protocol,
			privacy_key = excluded.privacy_key,
			engine_id = excluded.engine_id,
			context_name = excluded.context_name,
			retry_count = excluded.retry_count,
			timeout_ns = excluded.timeout_ns`

	if _, err := s.db.ExecContext(ctx, query,
		src.StorageID, src.Host, src.Port, src.Version, src.CommunityString,
		src.Username, src.SecurityLevel, src.AuthProtocol, src.AuthKey,
		src.PrivacyProtocol, src.PrivacyKey, src.EngineID, src.ContextName,
		src.RetryCount, int64(src.Timeout)); err != nil {
		return fmt.Errorf("%w: %w", errFailedToUpsert, err)
	}

	return nil
}

func (s *SQLiteStore) DeleteAlertSource(ctx context.Context, storageID string) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM alert_sources WHERE storage_id = ?", storageID); err != nil {
		return fmt.Errorf("%w: %w", errFailedToDelete, err)
	}

	return nil
}

func (s *SQLiteStore) ListAlertSources(ctx context.Context, marker string, limit int) ([]models.AlertSource, string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	query := "SELECT " + alertSourceColumns + `
		FROM alert_sources WHERE storage_id > ? ORDER BY storage_id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, marker, limit)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", errFailedToQuery, err)
	}
	defer rows.Close()

	var sources []models.AlertSource

	for rows.Next() {
		src, err := scanAlertSource(rows)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", errFailedToScan, err)
		}

		sources = append(sources, *src)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: %w", errFailedToQuery, err)
	}

	next := ""
	if len(sources) == limit {
		next = sources[len(sources)-1].StorageID
	}

	return sources, next, nil
}

func (s *SQLiteStore) UpdateEngineID(ctx context.Context, storageID, engineID string) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		"UPDATE alert_sources SET engine_id = ? WHERE storage_id = ?",
		engineID, storageID); err != nil {
		return fmt.Errorf("%w: %w", errFailedToUpsert, err)
	}

	return nil
}
