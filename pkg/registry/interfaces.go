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

// Package registry pkg/registry/interfaces.go
package registry

import (
	"context"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

//go:generate mockgen -destination=mock_registry.go -package=registry github.com/sodafoundation/delfin-sub001/pkg/registry Store

// DeviceFilter narrows FilterDevices. Vendor and Model are always set by
// callers; exactly one of SerialNumber or Name is used for the cross match.
type DeviceFilter struct {
	Vendor       string
	Model        string
	SerialNumber string
	Name         string
}

// Store is the device registry contract consumed by the pipeline. The
// registry itself is owned elsewhere; this is the narrow surface the alert
// core is allowed to touch.
type Store interface {
	// GetDevice returns the device record for a storage id.
	GetDevice(ctx context.Context, id string) (*models.Device, error)
	// UpsertDevice creates or replaces a device record.
	UpsertDevice(ctx context.Context, d *models.Device) error
	// DeleteDevice removes a device and its alert source.
	DeleteDevice(ctx context.Context, id string) error
	// FilterDevices returns all devices matching the filter.
	FilterDevices(ctx context.Context, f DeviceFilter) ([]models.Device, error)

	// GetAlertSource returns the alert source owned by a storage id.
	GetAlertSource(ctx context.Context, storageID string) (*models.AlertSource, error)
	// GetAlertSourcesByHost returns every alert source registered for a host.
	GetAlertSourcesByHost(ctx context.Context, host string) ([]models.AlertSource, error)
	// UpsertAlertSource creates or replaces the alert source for its storage id.
	UpsertAlertSource(ctx context.Context, s *models.AlertSource) error
	// DeleteAlertSource removes the alert source for a storage id.
	DeleteAlertSource(ctx context.Context, storageID string) error
	// ListAlertSources pages through all alert sources. The marker is the
	// last storage id of the previous page; an empty next marker ends the scan.
	ListAlertSources(ctx context.Context, marker string, limit int) ([]models.AlertSource, string, error)
	// UpdateEngineID persists a discovered v3 security engine id.
	UpdateEngineID(ctx context.Context, storageID, engineID string) error

	Close() error
}
