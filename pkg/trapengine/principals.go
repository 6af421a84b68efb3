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

package trapengine

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/gosnmp/gosnmp"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
)

var (
	errUnknownVersion = fmt.Errorf("unsupported SNMP version")
	errDecryptSecret  = fmt.Errorf("failed to decrypt credential")
)

// principalTable holds the live receive-side credentials. v1/v2c entries are
// keyed by the separator-stripped storage id and carry the decrypted
// community; v3 entries are keyed by (username, engine id) and are mirrored
// into the gosnmp USM table that the listener consults per message.
type principalTable struct {
	mu          sync.RWMutex
	communities map[string]string
	v3users     map[string]string // (user, engine id) key -> username
	usm         *gosnmp.SnmpV3SecurityParametersTable
}

func newPrincipalTable(usm *gosnmp.SnmpV3SecurityParametersTable) *principalTable {
	return &principalTable{
		communities: make(map[string]string),
		v3users:     make(map[string]string),
		usm:         usm,
	}
}

func v3Key(username, engineID string) string {
	return username + "\x00" + engineID
}

// Register installs the principal derived from src. It is idempotent: adding
// an already-registered source replaces the v1/v2c community and leaves an
// existing v3 USM entry untouched.
func (p *principalTable) Register(src *models.AlertSource, cipher secrets.Cipher) error {
	switch src.Version {
	case models.SnmpV1, models.SnmpV2c:
		community, err := cipher.Decrypt(src.CommunityString)
		if err != nil {
			return fmt.Errorf("%w: storage %s: %w", errDecryptSecret, src.StorageID, err)
		}

		p.mu.Lock()
		p.communities[src.PrincipalKey()] = community
		p.mu.Unlock()

		return nil
	case models.SnmpV3:
		return p.registerV3(src, cipher)
	default:
		return fmt.Errorf("%w: %q (storage %s)", errUnknownVersion, src.Version, src.StorageID)
	}
}

func (p *principalTable) registerV3(src *models.AlertSource, cipher secrets.Cipher) error {
	key := v3Key(src.Username, src.EngineID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.v3users[key]; ok {
		return nil
	}

	usmParams, err := usmFromSource(src, cipher)
	if err != nil {
		return err
	}

	if err := p.usm.Add(src.Username, usmParams); err != nil {
		return fmt.Errorf("failed to add USM user %s: %w", src.Username, err)
	}

	p.v3users[key] = src.Username

	return nil
}

// Remove drops the principal for src. Removing an absent key is a no-op.
// A shared v3 username is only evicted from the USM table once no engine id
// still references it.
func (p *principalTable) Remove(src *models.AlertSource) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch src.Version {
	case models.SnmpV1, models.SnmpV2c:
		delete(p.communities, src.PrincipalKey())
	case models.SnmpV3:
		key := v3Key(src.Username, src.EngineID)

		username, ok := p.v3users[key]
		if !ok {
			return
		}

		delete(p.v3users, key)

		for _, u := range p.v3users {
			if u == username {
				return
			}
		}

		_ = p.usm.Delete(username)
	}
}

// Community returns the decrypted community registered under key.
func (p *principalTable) Community(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	c, ok := p.communities[key]

	return c, ok
}

// Len reports the number of live principals across both versions.
func (p *principalTable) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.communities) + len(p.v3users)
}

// usmFromSource builds gosnmp USM security parameters from the stored record,
// decrypting the auth and privacy keys where the matching protocol is set.
func usmFromSource(src *models.AlertSource, cipher secrets.Cipher) (*gosnmp.UsmSecurityParameters, error) {
	params := &gosnmp.UsmSecurityParameters{
		UserName:               src.Username,
		AuthoritativeEngineID:  decodeEngineID(src.EngineID),
		AuthenticationProtocol: gosnmp.NoAuth,
		PrivacyProtocol:        gosnmp.NoPriv,
	}

	if proto, ok := authProtocol(src.AuthProtocol); ok {
		key, err := cipher.Decrypt(src.AuthKey)
		if err != nil {
			return nil, fmt.Errorf("%w: auth key for %s: %w", errDecryptSecret, src.StorageID, err)
		}

		params.AuthenticationProtocol = proto
		params.AuthenticationPassphrase = key
	}

	if proto, ok := privProtocol(src.PrivacyProtocol); ok {
		key, err := cipher.Decrypt(src.PrivacyKey)
		if err != nil {
			return nil, fmt.Errorf("%w: privacy key for %s: %w", errDecryptSecret, src.StorageID, err)
		}

		params.PrivacyProtocol = proto
		params.PrivacyPassphrase = key
	}

	return params, nil
}

func authProtocol(name string) (gosnmp.SnmpV3AuthProtocol, bool) {
	switch strings.ToLower(name) {
	case "md5":
		return gosnmp.MD5, true
	case "sha":
		return gosnmp.SHA, true
	case "sha224":
		return gosnmp.SHA224, true
	case "sha256":
		return gosnmp.SHA256, true
	case "sha384":
		return gosnmp.SHA384, true
	case "sha512":
		return gosnmp.SHA512, true
	default:
		return gosnmp.NoAuth, false
	}
}

func privProtocol(name string) (gosnmp.SnmpV3PrivProtocol, bool) {
	switch strings.ToLower(name) {
	case "des":
		return gosnmp.DES, true
	case "aes":
		return gosnmp.AES, true
	case "aes192":
		return gosnmp.AES192, true
	case "aes256":
		return gosnmp.AES256, true
	default:
		return gosnmp.NoPriv, false
	}
}

// decodeEngineID converts the hex representation stored in the registry into
// the raw byte string gosnmp expects. Values that are not valid hex are
// passed through unchanged.
func decodeEngineID(engineID string) string {
	s := strings.TrimPrefix(engineID, "0x")
	if s == "" {
		return ""
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return engineID
	}

	return string(raw)
}
