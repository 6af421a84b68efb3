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

// Package models pkg/models/source.go
package models

import "strings"

// SnmpVersion identifies the SNMP protocol version of an alert source.
type SnmpVersion string

const (
	SnmpV1  SnmpVersion = "v1"
	SnmpV2c SnmpVersion = "v2c"
	SnmpV3  SnmpVersion = "v3"
)

// ParseSnmpVersion maps a stored version string onto a SnmpVersion.
// The boolean reports whether the input named a known version.
func ParseSnmpVersion(s string) (SnmpVersion, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "snmpv1", "1":
		return SnmpV1, true
	case "v2c", "snmpv2c", "2c":
		return SnmpV2c, true
	case "v3", "snmpv3", "3":
		return SnmpV3, true
	default:
		return "", false
	}
}

// SecurityLevel is the SNMPv3 user security level.
type SecurityLevel string

const (
	SecurityNoAuthNoPriv SecurityLevel = "noAuthnoPriv"
	SecurityAuthNoPriv   SecurityLevel = "authNoPriv"
	SecurityAuthPriv     SecurityLevel = "authPriv"
)

// Default connection parameters applied by the validator when an alert
// source leaves the optional fields unset.
const (
	DefaultSnmpPort    = 162
	DefaultProbePort   = 161
	DefaultRetryCount  = 2
	DefaultTimeoutSecs = 5
)

// AlertSource holds the per-device trap credentials and connection settings.
// Exactly one source exists per registered host; the version determines which
// credential field group is populated.
type AlertSource struct {
	StorageID string      `json:"storage_id"`
	Host      string      `json:"host"`
	Port      int         `json:"port,omitempty"`
	Version   SnmpVersion `json:"version"`

	// v1/v2c group. CommunityString is stored encrypted.
	CommunityString string `json:"community_string,omitempty"`

	// v3 group. AuthKey and PrivacyKey are stored encrypted.
	Username        string        `json:"username,omitempty"`
	SecurityLevel   SecurityLevel `json:"security_level,omitempty"`
	AuthProtocol    string        `json:"auth_protocol,omitempty"`
	AuthKey         string        `json:"auth_key,omitempty"`
	PrivacyProtocol string        `json:"privacy_protocol,omitempty"`
	PrivacyKey      string        `json:"privacy_key,omitempty"`
	EngineID        string        `json:"engine_id,omitempty"`
	ContextName     string        `json:"context_name,omitempty"`

	RetryCount int      `json:"retry_count,omitempty"`
	Timeout    Duration `json:"timeout,omitempty"`
}

// PrincipalKey derives the security principal key for a v1/v2c source.
// Separator characters are stripped so the key survives transport encodings
// that are hostile to dashes.
func (s *AlertSource) PrincipalKey() string {
	r := strings.NewReplacer("-", "", ":", "", ".", "")
	return r.Replace(s.StorageID)
}

// Device carries the identity and descriptive attributes of a monitored
// storage array. It is owned by the device registry and read-only here.
type Device struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Vendor       string `json:"vendor"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Location     string `json:"location,omitempty"`
	FirmwareVer  string `json:"firmware_version,omitempty"`
}

// RawTrap is one received PDU flattened into OID/value pairs. It is never
// persisted; the normalizer consumes it immediately.
type RawTrap struct {
	SourceIP      string            `json:"source_ip"`
	SecurityModel int               `json:"security_model"`
	ContextName   string            `json:"context_name"` // community for v1/v2c
	Varbinds      map[string]string `json:"varbinds"`
}
