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

// ServerConfig holds the liveness endpoint configuration of a replica.
type ServerConfig struct {
	ListenAddr string          `json:"listen_addr"`
	Security   *SecurityConfig `json:"security"`
}

// ServiceRole describes how a process participates in the cluster.
type ServiceRole string

const (
	RoleEngine ServiceRole = "engine" // trap engine replica, server only
	RoleTool   ServiceRole = "tool"   // one-shot CLI tooling, client only
)

// SecurityConfig holds common security configuration.
type SecurityConfig struct {
	Mode           SecurityMode `json:"mode"`
	CertDir        string       `json:"cert_dir"`
	ServerName     string       `json:"server_name,omitempty"`
	Role           ServiceRole  `json:"role"`
	TrustDomain    string       `json:"trust_domain,omitempty"`    // For SPIFFE
	WorkloadSocket string       `json:"workload_socket,omitempty"` // For SPIFFE
}

// SecurityMode defines the type of security to use.
type SecurityMode string
