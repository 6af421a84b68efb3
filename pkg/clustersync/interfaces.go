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

package clustersync

//go:generate mockgen -destination=mock_clustersync.go -package=clustersync github.com/sodafoundation/delfin-sub001/pkg/clustersync ConfigApplier,SourceValidator,Resyncer

import (
	"context"

	"github.com/sodafoundation/delfin-sub001/pkg/decoder"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// ConfigApplier receives replicated credential changes. The trap engine
// manager is the production implementation.
type ConfigApplier interface {
	ApplyConfigChange(toDelete, toAdd *models.AlertSource) error
}

// SourceValidator probes an alert source on request.
type SourceValidator interface {
	Validate(ctx context.Context, src *models.AlertSource)
}

// Resyncer re-fetches and dispatches the full alert list of one device.
type Resyncer interface {
	Resync(ctx context.Context, storageID string, q decoder.ListQuery) error
}
