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
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
)

func newTestTable() *principalTable {
	log := gosnmp.NewLogger(logger.SnmpLogger{Logger: logger.Component("test")})
	return newPrincipalTable(gosnmp.NewSnmpV3SecurityParametersTable(log))
}

func v2cSource(storageID, community string) *models.AlertSource {
	return &models.AlertSource{
		StorageID:       storageID,
		Host:            "10.0.0.5",
		Version:         models.SnmpV2c,
		CommunityString: community,
	}
}

func v3Source(storageID, username, engineID string) *models.AlertSource {
	return &models.AlertSource{
		StorageID: storageID,
		Host:      "10.0.0.5",
		Version:   models.SnmpV3,
		Username:  username,
		EngineID:  engineID,
	}
}

func TestRegisterCommunityPrincipal(t *testing.T) {
	p := newTestTable()
	cipher := secrets.PlainCipher{}

	src := v2cSource("a1b2-c3d4", "public")
	require.NoError(t, p.Register(src, cipher))
	assert.Equal(t, 1, p.Len())

	community, ok := p.Community("a1b2c3d4")
	require.True(t, ok)
	assert.Equal(t, "public", community)

	// Re-registering replaces the community, not duplicates the entry.
	src.CommunityString = "private"
	require.NoError(t, p.Register(src, cipher))
	assert.Equal(t, 1, p.Len())

	community, _ = p.Community("a1b2c3d4")
	assert.Equal(t, "private", community)
}

func TestRegisterThenRemoveLeavesNoPrincipal(t *testing.T) {
	p := newTestTable()
	cipher := secrets.PlainCipher{}

	src := v2cSource("storage-1", "public")

	require.NoError(t, p.Register(src, cipher))
	require.NoError(t, p.Register(src, cipher))

	p.Remove(src)

	assert.Zero(t, p.Len())

	_, ok := p.Community(src.PrincipalKey())
	assert.False(t, ok)

	// Removing again is a no-op.
	p.Remove(src)
	assert.Zero(t, p.Len())
}

func TestRegisterV3Principal(t *testing.T) {
	p := newTestTable()
	cipher := secrets.PlainCipher{}

	src := v3Source("storage-1", "monitor", "80000001")
	src.AuthProtocol = "SHA"
	src.AuthKey = "authpass"
	src.PrivacyProtocol = "AES"
	src.PrivacyKey = "privpass"

	require.NoError(t, p.Register(src, cipher))
	assert.Equal(t, 1, p.Len())

	// Same (user, engine id) pair again is a no-op.
	require.NoError(t, p.Register(src, cipher))
	assert.Equal(t, 1, p.Len())

	entries, err := p.usm.Get("monitor")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}

func TestRemoveV3SharedUsernameRefcount(t *testing.T) {
	p := newTestTable()
	cipher := secrets.PlainCipher{}

	first := v3Source("storage-1", "monitor", "80000001")
	second := v3Source("storage-2", "monitor", "80000002")

	require.NoError(t, p.Register(first, cipher))
	require.NoError(t, p.Register(second, cipher))
	assert.Equal(t, 2, p.Len())

	// Dropping one engine id keeps the USM user alive for the other.
	p.Remove(first)
	assert.Equal(t, 1, p.Len())

	_, err := p.usm.Get("monitor")
	assert.NoError(t, err)

	p.Remove(second)
	assert.Zero(t, p.Len())

	_, err = p.usm.Get("monitor")
	assert.Error(t, err)
}

func TestRegisterUnknownVersionRejectedBeforeMutation(t *testing.T) {
	p := newTestTable()

	src := &models.AlertSource{StorageID: "storage-1", Host: "10.0.0.5", Version: "v4"}

	err := p.Register(src, secrets.PlainCipher{})
	assert.ErrorIs(t, err, errUnknownVersion)
	assert.Zero(t, p.Len())
}

func TestRegisterUndecryptableCommunity(t *testing.T) {
	p := newTestTable()

	key := make([]byte, 32)
	cipher, err := secrets.NewAESCipher(key)
	require.NoError(t, err)

	src := v2cSource("storage-1", "not-a-ciphertext")

	err = p.Register(src, cipher)
	assert.ErrorIs(t, err, errDecryptSecret)
	assert.Zero(t, p.Len())
}

func TestManagerApplyConfigChange(t *testing.T) {
	m := NewManager(Config{}, nil, secrets.PlainCipher{}, nil)

	src := v2cSource("storage-1", "public")

	require.NoError(t, m.ApplyConfigChange(nil, src))
	require.NoError(t, m.ApplyConfigChange(nil, src))
	assert.Equal(t, 1, m.PrincipalCount())

	community, ok := m.Community(src.PrincipalKey())
	require.True(t, ok)
	assert.Equal(t, "public", community)

	require.NoError(t, m.ApplyConfigChange(src, nil))
	assert.Zero(t, m.PrincipalCount())

	// Replace flow: old credentials out, new ones in, single principal left.
	oldSrc := v2cSource("storage-2", "old")
	newSrc := v2cSource("storage-2", "new")

	require.NoError(t, m.ApplyConfigChange(nil, oldSrc))
	require.NoError(t, m.ApplyConfigChange(oldSrc, newSrc))
	assert.Equal(t, 1, m.PrincipalCount())

	community, _ = m.Community(newSrc.PrincipalKey())
	assert.Equal(t, "new", community)
}

func TestManagerApplyConfigChangeBadAdd(t *testing.T) {
	m := NewManager(Config{}, nil, secrets.PlainCipher{}, nil)

	bad := &models.AlertSource{StorageID: "storage-1", Host: "10.0.0.5", Version: "bogus"}

	err := m.ApplyConfigChange(nil, bad)
	assert.ErrorIs(t, err, errUnknownVersion)
	assert.Zero(t, m.PrincipalCount())
}

func TestDecodeEngineID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "0x", want: ""},
		{in: "8000000001", want: string([]byte{0x80, 0x00, 0x00, 0x00, 0x01})},
		{in: "0x8000000001", want: string([]byte{0x80, 0x00, 0x00, 0x00, 0x01})},
		{in: "not-hex", want: "not-hex"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeEngineID(tt.in), "input %q", tt.in)
	}
}

func TestAuthProtocolNames(t *testing.T) {
	proto, ok := authProtocol("SHA256")
	assert.True(t, ok)
	assert.Equal(t, gosnmp.SHA256, proto)

	_, ok = authProtocol("")
	assert.False(t, ok)

	_, ok = authProtocol("rot13")
	assert.False(t, ok)

	proto, ok = privProtocol("aes")
	assert.True(t, ok)
	assert.Equal(t, gosnmp.AES, proto)

	_, ok = privProtocol("")
	assert.False(t, ok)
}
