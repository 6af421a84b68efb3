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

// Package decoder pkg/decoder/interfaces.go defines the vendor driver
// contract consumed by the alert normalizer.
package decoder

import (
	"context"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

//go:generate mockgen -destination=mock_decoder.go -package=decoder github.com/sodafoundation/delfin-sub001/pkg/decoder Driver

// Outcome tags the result of a trap decode. The three non-OK states are
// deliberately distinct: incomplete information triggers a resync, a foreign
// source is dropped quietly, and anything else is a decoder defect.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeIncomplete
	OutcomeForeignSource
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeForeignSource:
		return "foreign_source"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseResult is the tagged decode result. Alert is set only for OutcomeOK;
// Err only for OutcomeFailed.
type ParseResult struct {
	Outcome Outcome
	Alert   *models.CanonicalAlert
	Err     error
}

func OK(alert *models.CanonicalAlert) ParseResult {
	return ParseResult{Outcome: OutcomeOK, Alert: alert}
}

func Incomplete() ParseResult { return ParseResult{Outcome: OutcomeIncomplete} }

func ForeignSource() ParseResult { return ParseResult{Outcome: OutcomeForeignSource} }

func Failed(err error) ParseResult { return ParseResult{Outcome: OutcomeFailed, Err: err} }

// ListQuery bounds a full alert re-fetch.
type ListQuery struct {
	BeginTime int64 `json:"begin_time,omitempty"` // epoch millis, 0 = unbounded
	EndTime   int64 `json:"end_time,omitempty"`
}

// Driver is the per-vendor decoder contract. ParseAlert turns one raw trap
// into a partial canonical alert; ListAlerts re-fetches the device's current
// alert list during a resync.
type Driver interface {
	ParseAlert(ctx context.Context, storageID string, trap *models.RawTrap) ParseResult
	ListAlerts(ctx context.Context, storageID string, q ListQuery) ([]models.CanonicalAlert, error)
}
