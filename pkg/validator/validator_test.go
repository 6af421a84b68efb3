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

package validator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sodafoundation/delfin-sub001/pkg/dispatch"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/registry"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
)

var errProbeRefused = errors.New("connection refused")

type fixture struct {
	store     *registry.MockStore
	prober    *MockProber
	forwarder *dispatch.MockForwarder
	validator *Validator
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		store:     registry.NewMockStore(ctrl),
		prober:    NewMockProber(ctrl),
		forwarder: dispatch.NewMockForwarder(ctrl),
	}
	f.validator = New(config, f.store, f.prober, f.forwarder)

	return f
}

func testDevice() *models.Device {
	return &models.Device{
		ID:           "storage-1",
		Name:         "array-01",
		Vendor:       "fujitsu",
		Model:        "eternus",
		SerialNumber: "SN-0001",
	}
}

func testSource() *models.AlertSource {
	return &models.AlertSource{
		StorageID:       "storage-1",
		Host:            "10.0.0.5",
		Version:         models.SnmpV2c,
		CommunityString: "public",
	}
}

func TestValidateHysteresis(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	f.store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil).Times(4)
	f.forwarder.EXPECT().DispatchMetrics(gomock.Any(), gomock.Any()).Times(4)

	gomock.InOrder(
		f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", errProbeRefused),
		f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", errProbeRefused),
		f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", nil),
		f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", nil),
	)

	var emitted []models.CanonicalAlert

	// Failures are never suppressed; the first success after FAULT emits one
	// recovery; the steady OK state emits nothing.
	f.forwarder.EXPECT().DispatchAlerts(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, alerts ...models.CanonicalAlert) {
			emitted = append(emitted, alerts...)
		}).Times(3)

	for i := 0; i < 4; i++ {
		f.validator.Validate(ctx, testSource())
	}

	require.Len(t, emitted, 3)
	assert.Equal(t, models.CategoryFault, emitted[0].Category)
	assert.Equal(t, models.CategoryFault, emitted[1].Category)
	assert.Equal(t, models.CategoryRecovery, emitted[2].Category)

	states := f.validator.HealthStates()
	assert.Equal(t, StateOK, states["SN-0001"])
}

func TestValidateUnseenDeviceFirstSuccessEmitsRecovery(t *testing.T) {
	f := newFixture(t, Config{})

	f.store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil)
	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", nil)
	f.forwarder.EXPECT().DispatchMetrics(gomock.Any(), gomock.Any())

	var got models.CanonicalAlert

	f.forwarder.EXPECT().DispatchAlerts(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, alerts ...models.CanonicalAlert) { got = alerts[0] })

	f.validator.Validate(context.Background(), testSource())

	assert.Equal(t, models.CategoryRecovery, got.Category)
	assert.Equal(t, models.ConnectFailedAlertID, got.AlertID)
	assert.Equal(t, models.ClearAutomatic, got.ClearCategory)
	assert.Empty(t, got.Recommendation)
	assert.Equal(t, got.ComputeMatchKey(), got.MatchKey)
}

func TestValidateFaultAlertShape(t *testing.T) {
	f := newFixture(t, Config{})

	f.store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil)
	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", errProbeRefused)
	f.forwarder.EXPECT().DispatchMetrics(gomock.Any(), gomock.Any())

	var got models.CanonicalAlert

	f.forwarder.EXPECT().DispatchAlerts(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, alerts ...models.CanonicalAlert) { got = alerts[0] })

	f.validator.Validate(context.Background(), testSource())

	assert.Equal(t, models.CategoryFault, got.Category)
	assert.Equal(t, models.SeverityMajor, got.Severity)
	assert.Equal(t, models.AlertTypeCommunications, got.Type)
	assert.Equal(t, models.ConnectFailedDescription, got.Description)
	assert.Equal(t, models.ConnectFailedRecommend, got.Recommendation)
	assert.Equal(t, "array-01", got.Location)
	assert.Equal(t, "SN-0001", got.SerialNumber)
	assert.NotZero(t, got.OccurTime)

	assert.Equal(t, StateFault, f.validator.HealthStates()["SN-0001"])
}

func TestValidateEmitsProbeMetric(t *testing.T) {
	f := newFixture(t, Config{})

	f.store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil)
	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", nil)
	f.forwarder.EXPECT().DispatchAlerts(gomock.Any(), gomock.Any())

	var got models.MetricPoint

	f.forwarder.EXPECT().DispatchMetrics(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, points ...models.MetricPoint) { got = points[0] })

	f.validator.Validate(context.Background(), testSource())

	assert.Equal(t, "storage-1", got.StorageID)
	assert.True(t, got.Success)
	assert.NotZero(t, got.Timestamp)
}

func TestValidateCapturesEngineIDOnce(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	src := testSource()
	src.Version = models.SnmpV3
	src.Username = "monitor"

	f.store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil).Times(2)
	f.forwarder.EXPECT().DispatchMetrics(gomock.Any(), gomock.Any()).Times(2)
	f.forwarder.EXPECT().DispatchAlerts(gomock.Any(), gomock.Any())

	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("8000000001", nil).Times(2)

	// Persisted exactly once: the second probe sees the stored id.
	f.store.EXPECT().UpdateEngineID(gomock.Any(), "storage-1", "8000000001").Return(nil)

	f.validator.Validate(ctx, src)
	assert.Equal(t, "8000000001", src.EngineID)

	f.validator.Validate(ctx, src)
}

func TestValidateKeepsEngineIDWhenPersistFails(t *testing.T) {
	f := newFixture(t, Config{})

	src := testSource()
	src.Version = models.SnmpV3
	src.Username = "monitor"

	f.store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil)
	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("8000000001", nil)
	f.store.EXPECT().UpdateEngineID(gomock.Any(), "storage-1", "8000000001").
		Return(errors.New("row locked"))
	f.forwarder.EXPECT().DispatchMetrics(gomock.Any(), gomock.Any())
	f.forwarder.EXPECT().DispatchAlerts(gomock.Any(), gomock.Any())

	f.validator.Validate(context.Background(), src)

	// The in-memory source still carries the discovered id for the caller.
	assert.Equal(t, "8000000001", src.EngineID)
}

func TestValidateSourceConfigErrorLeavesStateAlone(t *testing.T) {
	f := newFixture(t, Config{})

	f.store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil)
	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).
		Return("", fmt.Errorf("%w: decrypt community for storage-1", ErrSourceConfig))

	// A broken record is logged, not alerted: no dispatch on either
	// channel and no hysteresis transition.
	f.validator.Validate(context.Background(), testSource())

	assert.Empty(t, f.validator.HealthStates())
}

func TestValidateUndecryptableCommunityEmitsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)

	cipher, err := secrets.NewAESCipher(make([]byte, 32))
	require.NoError(t, err)

	store := registry.NewMockStore(ctrl)
	forwarder := dispatch.NewMockForwarder(ctrl)
	v := New(Config{}, store, NewSnmpProber(cipher), forwarder)

	store.EXPECT().GetDevice(gomock.Any(), "storage-1").Return(testDevice(), nil)

	// The stored community was never encrypted with this key, so the real
	// prober fails before the network is touched.
	v.Validate(context.Background(), testSource())

	assert.Empty(t, v.HealthStates())
}

func TestSnmpProberClassifiesUnsupportedVersion(t *testing.T) {
	p := NewSnmpProber(secrets.PlainCipher{})

	src := testSource()
	src.Version = "v4"

	_, err := p.Probe(context.Background(), src)
	require.ErrorIs(t, err, ErrSourceConfig)
}

func TestValidateDisabledSkipsProbe(t *testing.T) {
	f := newFixture(t, Config{Disabled: true})

	src := testSource()

	// No store access, no probe, no dispatch.
	f.validator.Validate(context.Background(), src)

	assert.Empty(t, f.validator.HealthStates())
}

func TestValidateFillsConnectionDefaults(t *testing.T) {
	f := newFixture(t, Config{Disabled: true})

	src := testSource()
	f.validator.Validate(context.Background(), src)

	assert.Equal(t, models.DefaultProbePort, src.Port)
	assert.Equal(t, models.DefaultRetryCount, src.RetryCount)
	assert.Equal(t, models.Duration(5*time.Second), src.Timeout)
}

func TestRunSweepValidatesEveryPage(t *testing.T) {
	f := newFixture(t, Config{SweepPageSize: 2, SweepRate: 1000})
	ctx := context.Background()

	page1 := []models.AlertSource{*testSource(), {StorageID: "storage-2", Host: "10.0.0.6", Version: models.SnmpV2c}}
	page2 := []models.AlertSource{{StorageID: "storage-3", Host: "10.0.0.7", Version: models.SnmpV2c}}

	gomock.InOrder(
		f.store.EXPECT().ListAlertSources(gomock.Any(), "", 2).Return(page1, "storage-2", nil),
		f.store.EXPECT().ListAlertSources(gomock.Any(), "storage-2", 2).Return(page2, "", nil),
	)

	for _, id := range []string{"storage-1", "storage-2", "storage-3"} {
		device := testDevice()
		device.ID = id
		device.SerialNumber = "SN-" + id
		f.store.EXPECT().GetDevice(gomock.Any(), id).Return(device, nil)
	}

	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", nil).Times(3)
	f.forwarder.EXPECT().DispatchMetrics(gomock.Any(), gomock.Any()).Times(3)
	f.forwarder.EXPECT().DispatchAlerts(gomock.Any(), gomock.Any()).Times(3)

	require.NoError(t, f.validator.RunSweep(ctx))
	assert.Len(t, f.validator.HealthStates(), 3)
}

func TestRunSweepPropagatesListFailure(t *testing.T) {
	f := newFixture(t, Config{})

	f.store.EXPECT().ListAlertSources(gomock.Any(), "", gomock.Any()).
		Return(nil, "", errors.New("db closed"))

	assert.Error(t, f.validator.RunSweep(context.Background()))
}
