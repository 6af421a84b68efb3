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
	"net"
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
)

func testUDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP("192.0.2.10"), Port: 50162}
}

func TestRawTrapFromPacketV2c(t *testing.T) {
	packet := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "public",
		Variables: []gosnmp.SnmpPDU{
			{Name: "1.3.6.1.2.1.1.3.0", Type: gosnmp.TimeTicks, Value: uint32(123456)},
			{Name: ".1.3.6.1.6.3.1.1.4.1.0", Type: gosnmp.ObjectIdentifier, Value: "1.3.6.1.4.1.789.0.2"},
			{Name: ".1.3.6.1.4.1.789.1.1", Type: gosnmp.OctetString, Value: []byte("aggr0 offline")},
		},
	}

	raw := rawTrapFromPacket(packet, testUDPAddr())
	require.NotNil(t, raw)

	assert.Equal(t, "192.0.2.10", raw.SourceIP)
	assert.Equal(t, 2, raw.SecurityModel)
	assert.Equal(t, "public", raw.ContextName)

	// OIDs are normalized to the dotted form regardless of agent encoding.
	assert.Equal(t, "123456", raw.Varbinds[".1.3.6.1.2.1.1.3.0"])
	assert.Equal(t, ".1.3.6.1.4.1.789.0.2", raw.Varbinds[".1.3.6.1.6.3.1.1.4.1.0"])
	assert.Equal(t, "aggr0 offline", raw.Varbinds[".1.3.6.1.4.1.789.1.1"])
}

func TestRawTrapFromPacketV1AgentAddressWins(t *testing.T) {
	packet := &gosnmp.SnmpPacket{
		Version:      gosnmp.Version1,
		Community:    "public",
		AgentAddress: "10.0.0.77",
	}

	raw := rawTrapFromPacket(packet, testUDPAddr())
	require.NotNil(t, raw)

	assert.Equal(t, "10.0.0.77", raw.SourceIP)
	assert.Equal(t, 1, raw.SecurityModel)

	// Without an agent address the UDP source is used.
	packet.AgentAddress = ""
	raw = rawTrapFromPacket(packet, testUDPAddr())
	assert.Equal(t, "192.0.2.10", raw.SourceIP)
}

func TestRawTrapFromPacketV3UsesContextName(t *testing.T) {
	packet := &gosnmp.SnmpPacket{
		Version:     gosnmp.Version3,
		ContextName: "ctx-a",
	}

	raw := rawTrapFromPacket(packet, testUDPAddr())
	require.NotNil(t, raw)

	assert.Equal(t, 3, raw.SecurityModel)
	assert.Equal(t, "ctx-a", raw.ContextName)
}

func TestRawTrapFromPacketSkipsErrorPDUs(t *testing.T) {
	packet := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "public",
		Variables: []gosnmp.SnmpPDU{
			{Name: ".1.3.6.1.4.1.789.1.1", Type: gosnmp.NoSuchObject},
			{Name: ".1.3.6.1.4.1.789.1.2", Type: gosnmp.NoSuchInstance},
			{Name: ".1.3.6.1.4.1.789.1.3", Type: gosnmp.EndOfMibView},
			{Name: ".1.3.6.1.4.1.789.1.4", Type: gosnmp.Null},
			{Name: ".1.3.6.1.4.1.789.1.5", Type: gosnmp.Integer, Value: 7},
		},
	}

	raw := rawTrapFromPacket(packet, testUDPAddr())
	require.NotNil(t, raw)

	assert.Len(t, raw.Varbinds, 1)
	assert.Equal(t, "7", raw.Varbinds[".1.3.6.1.4.1.789.1.5"])
}

func TestRawTrapFromPacketNil(t *testing.T) {
	assert.Nil(t, rawTrapFromPacket(nil, testUDPAddr()))
}

func TestHandleTrapContainsHandlerPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewMockTrapHandler(ctrl)
	handler.EXPECT().
		HandleTrap(gomock.Any(), gomock.Any()).
		Do(func(interface{}, *models.RawTrap) { panic("decoder bug") })

	m := NewManager(Config{}, nil, secrets.PlainCipher{}, handler)

	packet := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "public",
		Variables: []gosnmp.SnmpPDU{
			{Name: ".1.3.6.1.4.1.789.1.5", Type: gosnmp.Integer, Value: 7},
		},
	}

	// Must not propagate the panic to the listener goroutine.
	assert.NotPanics(t, func() { m.handleTrap(packet, testUDPAddr()) })
}

func TestHandleTrapDeliversRawTrap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var got *models.RawTrap

	handler := NewMockTrapHandler(ctrl)
	handler.EXPECT().
		HandleTrap(gomock.Any(), gomock.Any()).
		Do(func(_ interface{}, trap *models.RawTrap) { got = trap })

	m := NewManager(Config{}, nil, secrets.PlainCipher{}, handler)

	packet := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "private",
	}

	m.handleTrap(packet, testUDPAddr())

	require.NotNil(t, got)
	assert.Equal(t, "private", got.ContextName)
	assert.Equal(t, "192.0.2.10", got.SourceIP)
}

func TestNormalizeOID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1.3.6.1", want: ".1.3.6.1"},
		{in: ".1.3.6.1", want: ".1.3.6.1"},
		{in: ".1.3.6.1.", want: ".1.3.6.1"},
		{in: " 1.3.6.1 ", want: ".1.3.6.1"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeOID(tt.in), "input %q", tt.in)
	}
}

func TestPduValueString(t *testing.T) {
	tests := []struct {
		name string
		pdu  gosnmp.SnmpPDU
		want string
	}{
		{
			name: "printable octets",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("disk fault")},
			want: "disk fault",
		},
		{
			name: "binary octets hex encoded",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte{0x80, 0x00, 0x01}},
			want: "0x800001",
		},
		{
			name: "object identifier normalized",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.ObjectIdentifier, Value: "1.3.6.1.4.1.789.0.2"},
			want: ".1.3.6.1.4.1.789.0.2",
		},
		{
			name: "integer",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: -5},
			want: "-5",
		},
		{
			name: "counter64",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(18446744073709551615)},
			want: "18446744073709551615",
		},
		{
			name: "timeticks",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.TimeTicks, Value: uint32(4242)},
			want: "4242",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pduValueString(tt.pdu))
		})
	}
}

func TestIsPrintable(t *testing.T) {
	assert.True(t, isPrintable([]byte("hello\tworld\n")))
	assert.False(t, isPrintable([]byte{0x00, 0x41}))
	assert.False(t, isPrintable([]byte{0xff}))
}
