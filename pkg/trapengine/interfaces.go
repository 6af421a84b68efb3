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

//go:generate mockgen -destination=mock_trapengine.go -package=trapengine github.com/sodafoundation/delfin-sub001/pkg/trapengine TrapHandler

import (
	"context"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// TrapHandler consumes raw traps extracted from the wire. The engine calls
// it synchronously from the listener callback, so implementations must not
// block for long on the happy path.
type TrapHandler interface {
	HandleTrap(ctx context.Context, trap *models.RawTrap)
}
