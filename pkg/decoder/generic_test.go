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

package decoder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

func TestGenericDriverParseAlert(t *testing.T) {
	d := NewGenericDriver()

	trap := &models.RawTrap{
		SourceIP:      "10.0.0.5",
		SecurityModel: 2,
		Varbinds: map[string]string{
			OIDSysUpTime:                 "123456",
			OIDSnmpTrapOID:               ".1.3.6.1.4.1.789.0.2",
			".1.3.6.1.4.1.789.1.2.1.1.1": "aggr0 offline",
		},
	}

	result := d.ParseAlert(context.Background(), "storage-1", trap)
	require.Equal(t, OutcomeOK, result.Outcome)
	require.NotNil(t, result.Alert)

	alert := result.Alert
	assert.Equal(t, ".1.3.6.1.4.1.789.0.2", alert.AlertID)
	assert.Equal(t, "storage-1", alert.StorageID)
	assert.Equal(t, models.SeverityNotSpecified, alert.Severity)
	assert.Equal(t, models.CategoryEvent, alert.Category)
	assert.NotZero(t, alert.OccurTime)
	assert.Contains(t, alert.Description, "aggr0 offline")
}

func TestGenericDriverParseAlertWithoutTrapOID(t *testing.T) {
	d := NewGenericDriver()

	result := d.ParseAlert(context.Background(), "storage-1", &models.RawTrap{
		Varbinds: map[string]string{OIDSysUpTime: "42"},
	})
	require.Equal(t, OutcomeOK, result.Outcome)
	assert.Equal(t, "unknown", result.Alert.AlertID)
}

func TestGenericDriverParseAlertEmptyTrap(t *testing.T) {
	d := NewGenericDriver()

	result := d.ParseAlert(context.Background(), "storage-1", &models.RawTrap{})
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Error(t, result.Err)
	assert.Nil(t, result.Alert)
}

func TestGenericDriverListAlerts(t *testing.T) {
	d := NewGenericDriver()

	alerts, err := d.ListAlerts(context.Background(), "storage-1", ListQuery{})
	assert.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("fujitsu")
	assert.ErrorIs(t, err, errNoDriver)

	vendorDriver := NewGenericDriver()
	r.Register("fujitsu", vendorDriver)

	got, err := r.Get("fujitsu")
	require.NoError(t, err)
	assert.Same(t, vendorDriver, got)

	// Unknown vendor falls back once a fallback is installed.
	fallback := NewGenericDriver()
	r.SetFallback(fallback)

	got, err = r.Get("unknown-vendor")
	require.NoError(t, err)
	assert.Same(t, fallback, got)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()

	first := NewGenericDriver()
	second := NewGenericDriver()

	r.Register("dell", first)
	r.Register("dell", second)

	got, err := r.Get("dell")
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestFlattenVarbindsIsSorted(t *testing.T) {
	out := flattenVarbinds(map[string]string{
		".1.3.6.1.2.1.1.3.0": "up",
		".1.3.6.1.1.1.1.0":   "first",
	})
	assert.Equal(t, ".1.3.6.1.1.1.1.0=first; .1.3.6.1.2.1.1.3.0=up", out)
}
