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
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/decoder"
	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
)

var (
	errSnmpResponse = fmt.Errorf("snmp error response")

	// ErrSourceConfig marks probe failures caused by the stored record
	// itself (undecryptable secret, unsupported version) rather than the
	// device. They never count against connectivity.
	ErrSourceConfig = errors.New("alert source misconfigured")
)

// SnmpProber issues a real SNMP GET of sysUpTime with the source's stored
// credentials. It is the production Prober.
type SnmpProber struct {
	cipher secrets.Cipher
	log    zerolog.Logger
}

func NewSnmpProber(cipher secrets.Cipher) *SnmpProber {
	return &SnmpProber{
		cipher: cipher,
		log:    logger.Component("prober"),
	}
}

// Probe connects, reads sysUpTime, and for v3 reports the engine id the
// agent authenticated with. Transport, timeout, and auth errors are
// returned as-is; failures that no retry can fix wrap ErrSourceConfig.
func (p *SnmpProber) Probe(ctx context.Context, src *models.AlertSource) (string, error) {
	g := &gosnmp.GoSNMP{
		Target:  src.Host,
		Port:    uint16(src.Port), //nolint:gosec
		Retries: src.RetryCount,
		Timeout: time.Duration(src.Timeout),
		Context: ctx,
		Logger:  gosnmp.NewLogger(logger.SnmpLogger{Logger: p.log}),
	}

	if err := p.applyCredentials(g, src); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceConfig, err)
	}

	if err := g.Connect(); err != nil {
		return "", fmt.Errorf("connect %s:%d: %w", src.Host, src.Port, err)
	}
	defer g.Conn.Close()

	pkt, err := g.Get([]string{decoder.OIDSysUpTime})
	if err != nil {
		return "", fmt.Errorf("get sysUpTime from %s: %w", src.Host, err)
	}

	if pkt.Error != gosnmp.NoError {
		return "", fmt.Errorf("%w: %v from %s", errSnmpResponse, pkt.Error, src.Host)
	}

	if src.Version != models.SnmpV3 {
		return "", nil
	}

	sp, ok := g.SecurityParameters.(*gosnmp.UsmSecurityParameters)
	if !ok || sp.AuthoritativeEngineID == "" {
		return "", nil
	}

	return hex.EncodeToString([]byte(sp.AuthoritativeEngineID)), nil
}

func (p *SnmpProber) applyCredentials(g *gosnmp.GoSNMP, src *models.AlertSource) error {
	switch src.Version {
	case models.SnmpV1, models.SnmpV2c:
		community, err := p.cipher.Decrypt(src.CommunityString)
		if err != nil {
			return fmt.Errorf("decrypt community for %s: %w", src.StorageID, err)
		}

		if src.Version == models.SnmpV1 {
			g.Version = gosnmp.Version1
		} else {
			g.Version = gosnmp.Version2c
		}

		g.Community = community

		return nil
	case models.SnmpV3:
		usm, err := p.usmParameters(src)
		if err != nil {
			return err
		}

		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel
		g.MsgFlags = msgFlags(src.SecurityLevel)
		g.SecurityParameters = usm
		g.ContextName = src.ContextName

		return nil
	default:
		return fmt.Errorf("unsupported SNMP version %q for %s", src.Version, src.StorageID)
	}
}

func (p *SnmpProber) usmParameters(src *models.AlertSource) (*gosnmp.UsmSecurityParameters, error) {
	usm := &gosnmp.UsmSecurityParameters{
		UserName:               src.Username,
		AuthenticationProtocol: gosnmp.NoAuth,
		PrivacyProtocol:        gosnmp.NoPriv,
	}

	if proto, ok := authProtocol(src.AuthProtocol); ok {
		key, err := p.cipher.Decrypt(src.AuthKey)
		if err != nil {
			return nil, fmt.Errorf("decrypt auth key for %s: %w", src.StorageID, err)
		}

		usm.AuthenticationProtocol = proto
		usm.AuthenticationPassphrase = key
	}

	if proto, ok := privProtocol(src.PrivacyProtocol); ok {
		key, err := p.cipher.Decrypt(src.PrivacyKey)
		if err != nil {
			return nil, fmt.Errorf("decrypt privacy key for %s: %w", src.StorageID, err)
		}

		usm.PrivacyProtocol = proto
		usm.PrivacyPassphrase = key
	}

	return usm, nil
}

func msgFlags(level models.SecurityLevel) gosnmp.SnmpV3MsgFlags {
	switch level {
	case models.SecurityAuthNoPriv:
		return gosnmp.AuthNoPriv
	case models.SecurityAuthPriv:
		return gosnmp.AuthPriv
	default:
		return gosnmp.NoAuthNoPriv
	}
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
