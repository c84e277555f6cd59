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

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aremko/integration-backbone/internal/jobs/model"
	"github.com/aremko/integration-backbone/internal/jobs/provider"
	auditprovider "github.com/aremko/integration-backbone/internal/audit/provider"
	"github.com/aremko/integration-backbone/internal/system/authn"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
	"github.com/aremko/integration-backbone/internal/system/pagination"
	"github.com/aremko/integration-backbone/internal/system/security"
	"github.com/aremko/integration-backbone/internal/system/utils"
)

type JobHandler struct{}

func NewJobHandler() *JobHandler {

	return &JobHandler{}
}

type jobListResponse struct {
	Jobs       []model.Job           `json:"jobs"`
	Pagination pagination.Pagination `json:"pagination"`
}

// TriggerJob handles starting an asynchronous run. Responds immediately with
// the pending job; progress is polled through GetJob.
func (jh *JobHandler) TriggerJob(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "jobs:create")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var request model.TriggerJobRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "job"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	jobService := provider.NewJobProvider().GetJobService()
	job, err := jobService.TriggerJob(orgHandle, request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	auditService := auditprovider.NewAuditProvider().GetAuditService()
	auditService.Record(orgHandle, log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      job.JobID,
		TargetType:    log.TargetTypeJob,
		ActionID:      log.ActionTriggerJob,
		Data: map[string]string{
			"org_handle": orgHandle,
			"job_type":   job.JobType,
		},
	})

	utils.WriteJSONResponse(w, http.StatusAccepted, job)
}

// ListJobs handles filtered, paginated listing of jobs.
func (jh *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "jobs:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	page, err := pagination.ParsePage(r)
	if err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.INVALID_PAGINATION, http.StatusBadRequest))
		return
	}

	query := r.URL.Query()
	filter := model.JobListFilter{
		JobType:      query.Get("job_type"),
		SourceSystem: query.Get("source_system"),
		TargetSystem: query.Get("target_system"),
		Status:       query.Get("status"),
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	jobService := provider.NewJobProvider().GetJobService()
	jobs, total, err := jobService.ListJobs(orgHandle, filter, page.Limit, page.Offset)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, jobListResponse{
		Jobs: jobs,
		Pagination: pagination.Pagination{
			Count:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	})
}

// GetJob handles fetching one job by id.
func (jh *JobHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {

	err := security.AuthnAndAuthz(r, "jobs:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	jobService := provider.NewJobProvider().GetJobService()
	job, err := jobService.GetJob(orgHandle, jobID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, job)
}

// CancelJob handles cancellation of a pending or running job.
func (jh *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request, jobID string) {

	err := security.AuthnAndAuthz(r, "jobs:update")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	jobService := provider.NewJobProvider().GetJobService()
	job, err := jobService.CancelJob(orgHandle, jobID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	auditService := auditprovider.NewAuditProvider().GetAuditService()
	auditService.Record(orgHandle, log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      jobID,
		TargetType:    log.TargetTypeJob,
		ActionID:      log.ActionCancelJob,
		Data: map[string]string{
			"org_handle": orgHandle,
			"status":     job.Status,
		},
	})

	utils.WriteJSONResponse(w, http.StatusOK, job)
}
