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

//go:generate mockgen -destination=mock_validator.go -package=validator github.com/sodafoundation/delfin-sub001/pkg/validator Prober

import (
	"context"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// Prober performs one live reachability check against an alert source. On
// success it returns the authoritative security engine id when the protocol
// exchange revealed one (v3 only, empty otherwise).
type Prober interface {
	Probe(ctx context.Context, src *models.AlertSource) (engineID string, err error)
}
