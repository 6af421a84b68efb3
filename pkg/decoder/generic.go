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

package decoder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// Well-known varbind OIDs present in standard v2c/v3 notifications.
const (
	OIDSysUpTime   = ".1.3.6.1.2.1.1.3.0"
	OIDSnmpTrapOID = ".1.3.6.1.6.3.1.1.4.1.0"
)

var errEmptyTrap = fmt.Errorf("trap carries no varbinds")

// GenericDriver decodes well-known trap varbinds into a canonical event so
// the pipeline stays useful for devices without a vendor driver. It never
// reports incomplete information; a resync needs vendor knowledge.
type GenericDriver struct{}

func NewGenericDriver() *GenericDriver { return &GenericDriver{} }

func (*GenericDriver) ParseAlert(_ context.Context, storageID string, trap *models.RawTrap) ParseResult {
	if len(trap.Varbinds) == 0 {
		return Failed(errEmptyTrap)
	}

	trapOID := trap.Varbinds[OIDSnmpTrapOID]
	if trapOID == "" {
		trapOID = "unknown"
	}

	alert := &models.CanonicalAlert{
		AlertID:     trapOID,
		AlertName:   "SNMP notification " + trapOID,
		Severity:    models.SeverityNotSpecified,
		Category:    models.CategoryEvent,
		Type:        models.AlertTypeEquipment,
		OccurTime:   time.Now().UnixMilli(),
		Description: flattenVarbinds(trap.Varbinds),
		StorageID:   storageID,
	}

	return OK(alert)
}

// ListAlerts is a no-op for the generic driver: without vendor knowledge
// there is no alert list to re-fetch.
func (*GenericDriver) ListAlerts(context.Context, string, ListQuery) ([]models.CanonicalAlert, error) {
	return nil, nil
}

func flattenVarbinds(varbinds map[string]string) string {
	oids := make([]string, 0, len(varbinds))
	for oid := range varbinds {
		oids = append(oids, oid)
	}

	sort.Strings(oids)

	parts := make([]string, 0, len(oids))
	for _, oid := range oids {
		parts = append(parts, oid+"="+varbinds[oid])
	}

	return strings.Join(parts, "; ")
}
