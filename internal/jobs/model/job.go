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

import (
	"time"

	reconciliation "github.com/aremko/integration-backbone/internal/reconciliation/model"
)

// JobTypeReconciliation is the only job type today. The column exists so
// future bulk work (backfills, exports) can share the same tracking table.
const JobTypeReconciliation = "reconciliation"

// Job tracks one asynchronous run from trigger to terminal state.
type Job struct {
	JobID            string                                `json:"job_id"`
	OrgHandle        string                                `json:"org_handle"`
	JobType          string                                `json:"job_type"`
	SourceSystem     string                                `json:"source_system"`
	TargetSystem     string                                `json:"target_system"`
	EntityType       string                                `json:"entity_type"`
	Status           string                                `json:"status"`
	TotalRecords     int                                   `json:"total_records"`
	ProcessedRecords int                                   `json:"processed_records"`
	FailedRecords    int                                   `json:"failed_records"`
	Config           *reconciliation.ReconciliationRequest `json:"config,omitempty"`
	Result           *reconciliation.Report                `json:"result,omitempty"`
	ErrorMessage     string                                `json:"error_message,omitempty"`
	CreatedAt        time.Time                             `json:"created_at"`
	StartedAt        *time.Time                            `json:"started_at,omitempty"`
	CompletedAt      *time.Time                            `json:"completed_at,omitempty"`
}

// TriggerJobRequest is the trigger-job request body.
type TriggerJobRequest struct {
	JobType        string                                `json:"job_type"`
	Reconciliation *reconciliation.ReconciliationRequest `json:"reconciliation,omitempty"`
}

// JobListFilter narrows a job listing. Zero values mean "no filter".
type JobListFilter struct {
	JobType      string
	SourceSystem string
	TargetSystem string
	Status       string
}
