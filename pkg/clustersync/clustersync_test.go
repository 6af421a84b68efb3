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

package clustersync

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sodafoundation/delfin-sub001/pkg/decoder"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

type fixture struct {
	applier   *MockConfigApplier
	validator *MockSourceValidator
	resyncer  *MockResyncer
	service   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		applier:   NewMockConfigApplier(ctrl),
		validator: NewMockSourceValidator(ctrl),
		resyncer:  NewMockResyncer(ctrl),
	}
	f.service = New(Config{NodeID: "node-1", RequestTimeout: models.Duration(time.Second)},
		nil, f.applier, f.validator, f.resyncer)

	return f
}

func configSyncMsg(t *testing.T, m SyncConfigMessage) *nats.Msg {
	t.Helper()

	data, err := json.Marshal(m)
	require.NoError(t, err)

	return &nats.Msg{Subject: subjectConfigSync, Data: data}
}

func TestHandleConfigSyncAppliesChange(t *testing.T) {
	f := newFixture(t)

	toDelete := &models.AlertSource{StorageID: "storage-1", Version: models.SnmpV2c}
	toAdd := &models.AlertSource{StorageID: "storage-1", Version: models.SnmpV3, Username: "monitor"}

	var gotDelete, gotAdd *models.AlertSource

	f.applier.EXPECT().ApplyConfigChange(gomock.Any(), gomock.Any()).
		DoAndReturn(func(d, a *models.AlertSource) error {
			gotDelete, gotAdd = d, a
			return nil
		})

	f.service.handleConfigSync(configSyncMsg(t, SyncConfigMessage{ToDelete: toDelete, ToAdd: toAdd}))

	require.NotNil(t, gotDelete)
	require.NotNil(t, gotAdd)
	assert.Equal(t, "storage-1", gotDelete.StorageID)
	assert.Equal(t, "monitor", gotAdd.Username)
}

func TestHandleConfigSyncDeleteOnly(t *testing.T) {
	f := newFixture(t)

	f.applier.EXPECT().ApplyConfigChange(gomock.Any(), nil).
		DoAndReturn(func(d, _ *models.AlertSource) error {
			require.NotNil(t, d)
			return nil
		})

	f.service.handleConfigSync(configSyncMsg(t, SyncConfigMessage{
		ToDelete: &models.AlertSource{StorageID: "storage-1"},
	}))
}

func TestHandleConfigSyncBadPayload(t *testing.T) {
	f := newFixture(t)

	// No applier expectation: a malformed message never mutates the engine.
	f.service.handleConfigSync(&nats.Msg{Subject: subjectConfigSync, Data: []byte("{broken")})
}

func TestHandleConfigSyncApplierFailureIsContained(t *testing.T) {
	f := newFixture(t)

	f.applier.EXPECT().ApplyConfigChange(gomock.Any(), gomock.Any()).
		Return(errors.New("decrypt failed"))

	// Logged, not propagated.
	f.service.handleConfigSync(configSyncMsg(t, SyncConfigMessage{
		ToAdd: &models.AlertSource{StorageID: "storage-1"},
	}))
}

func TestHandleCheckConfigValidates(t *testing.T) {
	f := newFixture(t)

	src := models.AlertSource{StorageID: "storage-1", Host: "10.0.0.5", Version: models.SnmpV2c}
	data, err := json.Marshal(src)
	require.NoError(t, err)

	f.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).
		Do(func(_ interface{}, got *models.AlertSource) {
			assert.Equal(t, "storage-1", got.StorageID)
		})

	f.service.handleCheckConfig(&nats.Msg{Subject: "delfin.node.node-1.check-config", Data: data})
}

func TestHandleCheckConfigBadPayload(t *testing.T) {
	f := newFixture(t)

	// No validator expectation.
	f.service.handleCheckConfig(&nats.Msg{Data: []byte("not json")})
}

func TestHandleSyncAlertsResyncs(t *testing.T) {
	f := newFixture(t)

	req := SyncAlertsRequest{
		StorageID: "storage-1",
		Query:     decoder.ListQuery{BeginTime: 1700000000000},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	f.resyncer.EXPECT().Resync(gomock.Any(), "storage-1", req.Query).Return(nil)

	f.service.handleSyncAlerts(&nats.Msg{Subject: "delfin.node.node-1.sync-alerts", Data: data})
}

func TestHandleSyncAlertsResyncFailure(t *testing.T) {
	f := newFixture(t)

	data, err := json.Marshal(SyncAlertsRequest{StorageID: "storage-1"})
	require.NoError(t, err)

	f.resyncer.EXPECT().Resync(gomock.Any(), "storage-1", gomock.Any()).
		Return(errors.New("device unreachable"))

	// The error travels back in the reply, not as a panic or crash.
	f.service.handleSyncAlerts(&nats.Msg{Data: data})
}

func TestNewFillsDefaults(t *testing.T) {
	s := New(Config{}, nil, nil, nil, nil)

	assert.NotEmpty(t, s.NodeID())
	assert.Equal(t, models.Duration(defaultRequestTimeout), s.config.RequestTimeout)

	// Distinct nodes mint distinct ids.
	other := New(Config{}, nil, nil, nil, nil)
	assert.NotEqual(t, s.NodeID(), other.NodeID())
}

func TestSyncConfigMessageRoundTrip(t *testing.T) {
	msg := SyncConfigMessage{
		ToAdd: &models.AlertSource{StorageID: "storage-1", Version: models.SnmpV2c},
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var got SyncConfigMessage
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Nil(t, got.ToDelete)
	require.NotNil(t, got.ToAdd)
	assert.Equal(t, "storage-1", got.ToAdd.StorageID)
}
