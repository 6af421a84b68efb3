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

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMatchKeyIsDeterministic(t *testing.T) {
	a := CanonicalAlert{
		StorageID:      "storage-1",
		AlertID:        "0x1234",
		AlertName:      "disk failure",
		Severity:       SeverityCritical,
		Category:       CategoryFault,
		Type:           AlertTypeEquipment,
		Location:       "enclosure 2, slot 5",
		ResourceType:   "disk",
		SequenceNumber: 42,
	}

	b := a
	// Fields outside the identity set must not affect the key.
	b.OccurTime = 1699999999000
	b.Description = "redelivery of the same trap"
	b.MatchKey = "stale"

	assert.Equal(t, a.ComputeMatchKey(), b.ComputeMatchKey())
	assert.Len(t, a.ComputeMatchKey(), 64)
}

func TestComputeMatchKeyDistinguishesIdentityFields(t *testing.T) {
	base := CanonicalAlert{
		StorageID:      "storage-1",
		AlertID:        "0x1234",
		AlertName:      "disk failure",
		Severity:       SeverityCritical,
		Category:       CategoryFault,
		Type:           AlertTypeEquipment,
		SequenceNumber: 42,
	}

	variants := []func(a *CanonicalAlert){
		func(a *CanonicalAlert) { a.StorageID = "storage-2" },
		func(a *CanonicalAlert) { a.AlertID = "0x5678" },
		func(a *CanonicalAlert) { a.Severity = SeverityMajor },
		func(a *CanonicalAlert) { a.Category = CategoryRecovery },
		func(a *CanonicalAlert) { a.SequenceNumber = 43 },
	}

	want := base.ComputeMatchKey()

	for i, mutate := range variants {
		v := base
		mutate(&v)
		assert.NotEqual(t, want, v.ComputeMatchKey(), "variant %d", i)
	}
}

func TestParseSnmpVersion(t *testing.T) {
	tests := []struct {
		in   string
		want SnmpVersion
		ok   bool
	}{
		{in: "v1", want: SnmpV1, ok: true},
		{in: "SNMPv1", want: SnmpV1, ok: true},
		{in: "1", want: SnmpV1, ok: true},
		{in: "v2c", want: SnmpV2c, ok: true},
		{in: " snmpv2c ", want: SnmpV2c, ok: true},
		{in: "2c", want: SnmpV2c, ok: true},
		{in: "V3", want: SnmpV3, ok: true},
		{in: "3", want: SnmpV3, ok: true},
		{in: "v2", ok: false},
		{in: "", ok: false},
		{in: "snmp", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseSnmpVersion(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestPrincipalKeyStripsSeparators(t *testing.T) {
	src := AlertSource{StorageID: "a1b2-c3d4:e5.f6"}
	assert.Equal(t, "a1b2c3d4e5f6", src.PrincipalKey())

	plain := AlertSource{StorageID: "deadbeef"}
	assert.Equal(t, "deadbeef", plain.PrincipalKey())
}
