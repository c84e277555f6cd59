/*
 * Copyright (c) 2025, Aremko SpA. (https://www.aremko.cl).
 *
 * Aremko SpA. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import "time"

// RawRecord is one entity record as handed over by a connector, untouched.
// Field keys are the connector's own column or attribute names.
type RawRecord struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// FieldMapping names which raw field carries each identity signal for one
// side of a reconciliation run. Empty roles are simply not used.
type FieldMapping struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Document string `json:"document,omitempty"`
	Name     string `json:"name,omitempty"`
}

// HasAnyRole reports whether at least one identity signal is configured.
func (fm FieldMapping) HasAnyRole() bool {
	return fm.Phone != "" || fm.Email != "" || fm.Document != "" || fm.Name != ""
}

// Thresholds are the confidence floors that partition match outcomes.
// AutoLink and above links without a human; Review and above queues the pair;
// below Review the source stays unmatched.
type Thresholds struct {
	AutoLink int `json:"auto_link"`
	Review   int `json:"review"`
}

// ReconciliationRequest describes one full matching run between two systems.
// Thresholds may be nil to take the deployment defaults.
type ReconciliationRequest struct {
	SourceSystem  string       `json:"source_system"`
	TargetSystem  string       `json:"target_system"`
	EntityType    string       `json:"entity_type"`
	SourceFields  FieldMapping `json:"source_fields"`
	TargetFields  FieldMapping `json:"target_fields"`
	Thresholds    *Thresholds  `json:"thresholds,omitempty"`
	DryRun        bool         `json:"dry_run,omitempty"`
	SourceRecords []RawRecord  `json:"source_records"`
	TargetRecords []RawRecord  `json:"target_records"`
}

// Outcome values for one source record after a run.
const (
	OutcomeAutoLinked  = "auto_linked"
	OutcomeNeedsReview = "needs_review"
	OutcomeUnmatched   = "unmatched"
	OutcomeFailed      = "failed"
)

// Report status values.
const (
	ReportStatusCompleted = "completed"
	ReportStatusCancelled = "cancelled"
	ReportStatusFailed    = "failed"
)

// RecordOutcome is the per-source-record verdict of a run.
type RecordOutcome struct {
	SourceID   string   `json:"source_id"`
	TargetID   string   `json:"target_id,omitempty"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
	Outcome    string   `json:"outcome"`
	Error      string   `json:"error,omitempty"`
}

// Report summarises a reconciliation run. A cancelled or failed run still
// returns the verdicts reached before the cut; counts always agree with
// Details, so a caller can resume the remainder by re-running.
type Report struct {
	RunID              string          `json:"run_id"`
	Status             string          `json:"status"`
	SourceSystem       string          `json:"source_system"`
	TargetSystem       string          `json:"target_system"`
	EntityType         string          `json:"entity_type"`
	TotalSource        int             `json:"total_source"`
	TotalTarget        int             `json:"total_target"`
	AutoLinked         int             `json:"auto_linked"`
	NeedsReview        int             `json:"needs_review"`
	Unmatched          int             `json:"unmatched"`
	StoreFailures      int             `json:"store_failures"`
	NormalizationSkips int             `json:"normalization_skips"`
	StartedAt          time.Time       `json:"started_at"`
	FinishedAt         time.Time       `json:"finished_at"`
	Details            []RecordOutcome `json:"details"`
}
