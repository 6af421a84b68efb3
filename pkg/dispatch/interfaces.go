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

// Package dispatch pkg/dispatch/interfaces.go
package dispatch

import (
	"context"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

//go:generate mockgen -destination=mock_dispatch.go -package=dispatch github.com/sodafoundation/delfin-sub001/pkg/dispatch AlertSink,MetricSink,Forwarder

// AlertSink receives batches of canonical alerts. Implementations must be
// fast or buffer internally: sinks run synchronously on the trap receive
// path. Errors are isolated by the dispatcher and never reach the caller.
type AlertSink interface {
	Name() string
	Dispatch(ctx context.Context, batch []models.CanonicalAlert) error
}

// MetricSink receives batches of probe metric points.
type MetricSink interface {
	Name() string
	Dispatch(ctx context.Context, batch []models.MetricPoint) error
}

// Forwarder is the surface the normalizer and validator hand records to.
type Forwarder interface {
	DispatchAlerts(ctx context.Context, batch ...models.CanonicalAlert)
	DispatchMetrics(ctx context.Context, batch ...models.MetricPoint)
}
