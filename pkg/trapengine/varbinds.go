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
	"fmt"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
)

// isErrorPDU reports PDU types that carry no usable value.
func isErrorPDU(t gosnmp.Asn1BER) bool {
	return t == gosnmp.NoSuchObject || t == gosnmp.NoSuchInstance ||
		t == gosnmp.EndOfMibView || t == gosnmp.Null
}

// normalizeOID ensures a leading dot and no trailing dot so map lookups are
// stable regardless of how the agent encoded the name.
func normalizeOID(oid string) string {
	oid = strings.TrimSpace(oid)
	if oid == "" {
		return ""
	}

	if !strings.HasPrefix(oid, ".") {
		oid = "." + oid
	}

	return strings.TrimSuffix(oid, ".")
}

// pduValueString renders a varbind value as text. Octet strings that are not
// printable are hex encoded; numeric types go through gosnmp's big-int
// conversion.
func pduValueString(pdu gosnmp.SnmpPDU) string {
	switch pdu.Type {
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			if isPrintable(b) {
				return string(b)
			}

			return "0x" + strings.ToUpper(fmt.Sprintf("%x", b))
		}

		return fmt.Sprintf("%v", pdu.Value)
	case gosnmp.ObjectIdentifier:
		return normalizeOID(fmt.Sprintf("%v", pdu.Value))
	case gosnmp.Integer:
		return strconv.FormatInt(gosnmp.ToBigInt(pdu.Value).Int64(), 10)
	case gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32, gosnmp.Counter64:
		return strconv.FormatUint(gosnmp.ToBigInt(pdu.Value).Uint64(), 10)
	default:
		return fmt.Sprintf("%v", pdu.Value)
	}
}

// isPrintable reports whether b is printable ASCII plus common whitespace.
func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			return false
		}

		if c > 0x7e {
			return false
		}
	}

	return true
}
