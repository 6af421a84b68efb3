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

package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestDeviceCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	device := &models.Device{
		ID:           "storage-1",
		Name:         "array-01",
		Vendor:       "fujitsu",
		Model:        "eternus",
		SerialNumber: "SN-0001",
		Location:     "dc-east",
		FirmwareVer:  "V10L70",
	}

	require.NoError(t, store.UpsertDevice(ctx, device))

	got, err := store.GetDevice(ctx, "storage-1")
	require.NoError(t, err)
	assert.Equal(t, device, got)

	// Upsert replaces in place.
	device.Location = "dc-west"
	require.NoError(t, store.UpsertDevice(ctx, device))

	got, err = store.GetDevice(ctx, "storage-1")
	require.NoError(t, err)
	assert.Equal(t, "dc-west", got.Location)

	require.NoError(t, store.DeleteDevice(ctx, "storage-1"))

	_, err = store.GetDevice(ctx, "storage-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDeviceRemovesAlertSource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertDevice(ctx, &models.Device{
		ID: "storage-1", Name: "array-01", Vendor: "v", Model: "m", SerialNumber: "s",
	}))
	require.NoError(t, store.UpsertAlertSource(ctx, &models.AlertSource{
		StorageID: "storage-1", Host: "10.0.0.5", Version: models.SnmpV2c,
	}))

	require.NoError(t, store.DeleteDevice(ctx, "storage-1"))

	_, err := store.GetAlertSource(ctx, "storage-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilterDevices(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []models.Device{
		{ID: "a", Name: "array-a", Vendor: "fujitsu", Model: "eternus", SerialNumber: "SN-A"},
		{ID: "b", Name: "array-b", Vendor: "fujitsu", Model: "eternus", SerialNumber: "SN-B"},
		{ID: "c", Name: "array-c", Vendor: "dell", Model: "vmax", SerialNumber: "SN-C"},
	}
	for i := range seed {
		require.NoError(t, store.UpsertDevice(ctx, &seed[i]))
	}

	bySerial, err := store.FilterDevices(ctx, DeviceFilter{
		Vendor: "fujitsu", Model: "eternus", SerialNumber: "SN-B",
	})
	require.NoError(t, err)
	require.Len(t, bySerial, 1)
	assert.Equal(t, "b", bySerial[0].ID)

	byName, err := store.FilterDevices(ctx, DeviceFilter{
		Vendor: "dell", Model: "vmax", Name: "array-c",
	})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "c", byName[0].ID)

	none, err := store.FilterDevices(ctx, DeviceFilter{
		Vendor: "fujitsu", Model: "eternus", SerialNumber: "SN-MISSING",
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAlertSourceRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	src := &models.AlertSource{
		StorageID:       "storage-1",
		Host:            "10.0.0.5",
		Port:            10162,
		Version:         models.SnmpV3,
		Username:        "monitor",
		SecurityLevel:   models.SecurityAuthPriv,
		AuthProtocol:    "SHA",
		AuthKey:         "enc:auth",
		PrivacyProtocol: "AES",
		PrivacyKey:      "enc:priv",
		EngineID:        "8000000001020304",
		ContextName:     "ctx",
		RetryCount:      3,
		Timeout:         models.Duration(7 * time.Second),
	}

	require.NoError(t, store.UpsertAlertSource(ctx, src))

	got, err := store.GetAlertSource(ctx, "storage-1")
	require.NoError(t, err)
	assert.Equal(t, src, got)

	byHost, err := store.GetAlertSourcesByHost(ctx, "10.0.0.5")
	require.NoError(t, err)
	require.Len(t, byHost, 1)
	assert.Equal(t, "storage-1", byHost[0].StorageID)

	require.NoError(t, store.DeleteAlertSource(ctx, "storage-1"))

	_, err = store.GetAlertSource(ctx, "storage-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent row is a no-op.
	assert.NoError(t, store.DeleteAlertSource(ctx, "storage-1"))
}

func TestGetAlertSourcesByHostReturnsAllForHost(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.UpsertAlertSource(ctx, &models.AlertSource{
			StorageID: fmt.Sprintf("storage-%d", i),
			Host:      "10.0.0.5",
			Version:   models.SnmpV2c,
		}))
	}

	require.NoError(t, store.UpsertAlertSource(ctx, &models.AlertSource{
		StorageID: "other", Host: "10.0.0.9", Version: models.SnmpV2c,
	}))

	sources, err := store.GetAlertSourcesByHost(ctx, "10.0.0.5")
	require.NoError(t, err)
	assert.Len(t, sources, 3)
}

func TestListAlertSourcesPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const total = 7

	for i := 0; i < total; i++ {
		require.NoError(t, store.UpsertAlertSource(ctx, &models.AlertSource{
			StorageID: fmt.Sprintf("storage-%02d", i),
			Host:      "10.0.0.5",
			Version:   models.SnmpV2c,
		}))
	}

	var (
		seen   []string
		marker string
	)

	for {
		page, next, err := store.ListAlertSources(ctx, marker, 3)
		require.NoError(t, err)

		for _, src := range page {
			seen = append(seen, src.StorageID)
		}

		if next == "" {
			break
		}

		marker = next
	}

	require.Len(t, seen, total)

	for i, id := range seen {
		assert.Equal(t, fmt.Sprintf("storage-%02d", i), id)
	}
}

func TestUpdateEngineID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertAlertSource(ctx, &models.AlertSource{
		StorageID: "storage-1", Host: "10.0.0.5", Version: models.SnmpV3, Username: "monitor",
	}))

	require.NoError(t, store.UpdateEngineID(ctx, "storage-1", "80000001"))

	got, err := store.GetAlertSource(ctx, "storage-1")
	require.NoError(t, err)
	assert.Equal(t, "80000001", got.EngineID)

	// Absent row: no error, nothing persisted.
	assert.NoError(t, store.UpdateEngineID(ctx, "missing", "80000002"))
}
