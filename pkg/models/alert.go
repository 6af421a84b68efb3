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

// Package models pkg/models/alert.go
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Severity is the normalized severity of a canonical alert.
type Severity string

const (
	SeverityFatal         Severity = "Fatal"
	SeverityCritical      Severity = "Critical"
	SeverityMajor         Severity = "Major"
	SeverityMinor         Severity = "Minor"
	SeverityWarning       Severity = "Warning"
	SeverityInformational Severity = "Informational"
	SeverityNotSpecified  Severity = "NotSpecified"
)

// Category classifies what a canonical alert reports.
type Category string

const (
	CategoryFault        Category = "Fault"
	CategoryRecovery     Category = "Recovery"
	CategoryEvent        Category = "Event"
	CategoryNotSpecified Category = "NotSpecified"
)

// ClearType indicates how a fault alert is expected to clear.
type ClearType string

const (
	ClearAutomatic ClearType = "Automatic"
	ClearManual    ClearType = "Manual"
)

// Well-known alert constants for the synthetic connectivity alert emitted by
// the connectivity validator. The id is fixed so consumers can key on it.
const (
	ConnectFailedAlertID     = "0x8000001"
	ConnectFailedAlertName   = "Storage connection failed"
	ConnectFailedDescription = "SNMP connectivity to the storage device is broken"
	ConnectFailedRecommend   = "Check the network between the monitoring server and the storage device, and verify the configured SNMP credentials"
	AlertTypeCommunications  = "CommunicationsAlarm"
	AlertTypeEquipment       = "EquipmentAlarm"
)

// CanonicalAlert is the normalized output unit of the pipeline. It is built
// once by the normalizer or the validator and never mutated afterwards.
type CanonicalAlert struct {
	AlertID        string    `json:"alert_id"`
	AlertName      string    `json:"alert_name"`
	Severity       Severity  `json:"severity"`
	Category       Category  `json:"category"`
	Type           string    `json:"type"`
	OccurTime      int64     `json:"occur_time"` // epoch millis
	Location       string    `json:"location,omitempty"`
	Description    string    `json:"description,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
	ResourceType   string    `json:"resource_type,omitempty"`
	SequenceNumber int64     `json:"sequence_number"`
	MatchKey       string    `json:"match_key"`
	ClearCategory  ClearType `json:"clear_category,omitempty"`

	// Device enrichment, filled from the resolved device record.
	StorageID    string `json:"storage_id"`
	StorageName  string `json:"storage_name,omitempty"`
	Vendor       string `json:"vendor,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// ComputeMatchKey returns a deterministic content hash over the identifying
// fields of an alert. Consumers use it to de-duplicate redeliveries, so the
// field order here must never change.
func (a *CanonicalAlert) ComputeMatchKey() string {
	h := sha256.New()

	fields := []string{
		a.StorageID,
		a.AlertID,
		a.AlertName,
		string(a.Severity),
		string(a.Category),
		a.Type,
		a.Location,
		a.ResourceType,
		strconv.FormatInt(a.SequenceNumber, 10),
	}

	h.Write([]byte(strings.Join(fields, "\x1f")))

	return hex.EncodeToString(h.Sum(nil))
}
