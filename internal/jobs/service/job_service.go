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

package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	auditprovider "github.com/aremko/integration-backbone/internal/audit/provider"
	"github.com/aremko/integration-backbone/internal/jobs/model"
	"github.com/aremko/integration-backbone/internal/jobs/store"
	reconciliation "github.com/aremko/integration-backbone/internal/reconciliation/model"
	reconciliationprovider "github.com/aremko/integration-backbone/internal/reconciliation/provider"
	"github.com/aremko/integration-backbone/internal/system/constants"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
)

type JobServiceInterface interface {
	TriggerJob(orgHandle string, request model.TriggerJobRequest) (*model.Job, error)
	GetJob(orgHandle, jobID string) (*model.Job, error)
	ListJobs(orgHandle string, filter model.JobListFilter, limit, offset int) ([]model.Job, int, error)
	CancelJob(orgHandle, jobID string) (*model.Job, error)
}

// JobService is the default implementation of the JobServiceInterface.
type JobService struct{}

// GetJobService creates a new instance of JobService.
func GetJobService() JobServiceInterface {

	return &JobService{}
}

// runRegistry holds the cancel functions of in-flight runs so CancelJob can
// reach across goroutines. Entries disappear when the run goroutine exits.
var runRegistry = struct {
	sync.Mutex
	cancels map[string]context.CancelFunc
}{cancels: make(map[string]context.CancelFunc)}

func registerRun(jobID string, cancel context.CancelFunc) {
	runRegistry.Lock()
	defer runRegistry.Unlock()
	runRegistry.cancels[jobID] = cancel
}

func deregisterRun(jobID string) {
	runRegistry.Lock()
	defer runRegistry.Unlock()
	delete(runRegistry.cancels, jobID)
}

func cancelRun(jobID string) bool {
	runRegistry.Lock()
	defer runRegistry.Unlock()
	if cancel, ok := runRegistry.cancels[jobID]; ok {
		cancel()
		return true
	}
	return false
}

// TriggerJob validates and persists a new job, then starts the run in the
// background. The returned job is still pending; callers poll GetJob for
// progress.
func (js *JobService) TriggerJob(orgHandle string, request model.TriggerJobRequest) (*model.Job, error) {

	if request.JobType != model.JobTypeReconciliation {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: fmt.Sprintf("Unsupported job type: %s", request.JobType),
		}, http.StatusBadRequest)
	}
	if request.Reconciliation == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "A reconciliation job needs a reconciliation request body.",
		}, http.StatusBadRequest)
	}

	job := model.Job{
		JobID:        uuid.New().String(),
		OrgHandle:    orgHandle,
		JobType:      request.JobType,
		SourceSystem: request.Reconciliation.SourceSystem,
		TargetSystem: request.Reconciliation.TargetSystem,
		EntityType:   request.Reconciliation.EntityType,
		Status:       constants.JobStatusPending,
		TotalRecords: len(request.Reconciliation.SourceRecords),
		Config:       request.Reconciliation,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.InsertJob(job); err != nil {
		return nil, err
	}

	go js.runReconciliationJob(job)

	return &job, nil
}

// runReconciliationJob executes one job end to end in its own goroutine. The
// job row is the only progress channel; every transition is written through
// immediately so pollers never see a stale terminal state.
func (js *JobService) runReconciliationJob(job model.Job) {

	logger := log.GetLogger()
	ctx, cancel := context.WithCancel(context.Background())
	registerRun(job.JobID, cancel)
	defer deregisterRun(job.JobID)
	defer cancel()

	startedAt := time.Now().UTC()
	job.StartedAt = &startedAt
	job.Status = constants.JobStatusRunning
	if err := store.UpdateJobProgress(job); err != nil {
		logger.Error("Failed to mark job running", log.String("job_id", job.JobID), log.Error(err))
		return
	}

	reconciliationService := reconciliationprovider.NewReconciliationProvider().GetReconciliationService()
	report, err := reconciliationService.Reconcile(ctx, job.OrgHandle, *job.Config)

	completedAt := time.Now().UTC()
	job.CompletedAt = &completedAt

	switch {
	case err != nil:
		job.Status = constants.JobStatusFailed
		job.ErrorMessage = err.Error()
	case report.Status == reconciliation.ReportStatusCancelled:
		job.Status = constants.JobStatusCancelled
		job.Result = report
		job.ProcessedRecords = len(report.Details)
		job.FailedRecords = report.StoreFailures
	case report.Status == reconciliation.ReportStatusFailed:
		job.Status = constants.JobStatusFailed
		job.ErrorMessage = "Mapping store rejected writes; run aborted with partial results."
		job.Result = report
		job.ProcessedRecords = len(report.Details)
		job.FailedRecords = report.StoreFailures
	default:
		job.Status = constants.JobStatusCompleted
		job.Result = report
		job.ProcessedRecords = len(report.Details)
		job.FailedRecords = report.StoreFailures
	}

	if err := store.UpdateJobProgress(job); err != nil {
		logger.Error("Failed to record job outcome", log.String("job_id", job.JobID), log.Error(err))
	}

	auditService := auditprovider.NewAuditProvider().GetAuditService()
	auditService.Record(job.OrgHandle, log.AuditEvent{
		InitiatorID:   "job-runner",
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      job.JobID,
		TargetType:    log.TargetTypeJob,
		ActionID:      log.ActionRunReconciliation,
		Data: map[string]string{
			"org_handle": job.OrgHandle,
			"status":     job.Status,
		},
	})
}

// GetJob fetches a job by id.
func (js *JobService) GetJob(orgHandle, jobID string) (*model.Job, error) {

	job, err := store.GetJobByID(orgHandle, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors2.NewClientError(errors2.JOB_NOT_FOUND, http.StatusNotFound)
	}
	return job, nil
}

// ListJobs returns a filtered page of jobs with the total match count.
func (js *JobService) ListJobs(orgHandle string, filter model.JobListFilter,
	limit, offset int) ([]model.Job, int, error) {

	return store.ListJobs(orgHandle, filter, limit, offset)
}

// CancelJob requests cancellation of a pending or running job. Terminal jobs
// cannot be cancelled.
func (js *JobService) CancelJob(orgHandle, jobID string) (*model.Job, error) {

	job, err := js.GetJob(orgHandle, jobID)
	if err != nil {
		return nil, err
	}
	if !IsCancellable(job.Status) {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.JOB_NOT_CANCELLABLE.Code,
			Message:     errors2.JOB_NOT_CANCELLABLE.Message,
			Description: fmt.Sprintf("Job %s is already %s.", jobID, job.Status),
		}, http.StatusConflict)
	}

	// A running job is cancelled through its context and writes its own
	// terminal state; a pending job that never started is closed out here.
	if !cancelRun(jobID) {
		if err := store.UpdateJobStatus(orgHandle, jobID, constants.JobStatusCancelled, ""); err != nil {
			return nil, err
		}
	}

	return js.GetJob(orgHandle, jobID)
}

// IsCancellable reports whether a job in the given status can still be
// cancelled.
func IsCancellable(status string) bool {

	switch status {
	case constants.JobStatusPending, constants.JobStatusRunning:
		return true
	}
	return false
}
