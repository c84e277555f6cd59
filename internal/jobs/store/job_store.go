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

package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aremko/integration-backbone/internal/jobs/model"
	reconciliation "github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/system/database/provider"
	"github.com/aremko/integration-backbone/internal/system/database/scripts"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
)

// InsertJob persists a freshly triggered job.
func InsertJob(job model.Job) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get database client for inserting job", log.Error(err))
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	configJSON, err := json.Marshal(job.Config)
	if err != nil {
		return errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}

	query := scripts.InsertJob[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query,
		job.JobID, job.OrgHandle, job.JobType,
		job.SourceSystem, job.TargetSystem, job.EntityType,
		job.Status, job.TotalRecords, job.ProcessedRecords, job.FailedRecords,
		string(configJSON), job.CreatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while creating job: %s", job.JobID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_JOB.Code,
			Message:     errors2.ADD_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// GetJobByID fetches one job, or nil when absent.
func GetJobByID(orgHandle, jobID string) (*model.Job, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get database client for fetching job", log.Error(err))
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetJobByID[provider.NewDBProvider().GetDBType()]
	rows, err := dbClient.ExecuteQuery(query, orgHandle, jobID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed fetching job: %s", jobID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_JOB.Code,
			Message:     errors2.FETCH_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	job := jobFromRow(rows[0])
	return &job, nil
}

// ListJobs returns a page of jobs matching the filter, newest first, plus the
// total match count.
func ListJobs(orgHandle string, filter model.JobListFilter, limit, offset int) ([]model.Job, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get database client for listing jobs", log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	whereClauses := []string{"org_handle = $1"}
	args := []interface{}{orgHandle}
	argIndex := 2

	addClause := func(column string, value string) {
		if value == "" {
			return
		}
		whereClauses = append(whereClauses, column+" = $"+strconv.Itoa(argIndex))
		args = append(args, value)
		argIndex++
	}
	addClause("job_type", filter.JobType)
	addClause("source_system", filter.SourceSystem)
	addClause("target_system", filter.TargetSystem)
	addClause("status", filter.Status)

	where := strings.Join(whereClauses, " AND ")

	countRows, err := dbClient.ExecuteQuery("SELECT COUNT(*) AS total FROM sync_jobs WHERE "+where, args...)
	if err != nil {
		return nil, 0, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	total := 0
	if len(countRows) > 0 {
		total = int(countRows[0]["total"].(int64))
	}

	listQuery := `SELECT job_id, org_handle, job_type, source_system, target_system, entity_type,
		       status, total_records, processed_records, failed_records,
		       config::text, result::text, error_message,
		       created_at, started_at, completed_at
		FROM sync_jobs WHERE ` + where +
		" ORDER BY created_at DESC, job_id LIMIT $" + strconv.Itoa(argIndex) +
		" OFFSET $" + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := dbClient.ExecuteQuery(listQuery, args...)
	if err != nil {
		return nil, 0, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}

	jobs := make([]model.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, jobFromRow(row))
	}
	return jobs, total, nil
}

// UpdateJobStatus moves a job to a new status, recording the failure reason
// when there is one.
func UpdateJobStatus(orgHandle, jobID, status, errorMessage string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.UpdateJobStatus[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, orgHandle, jobID, status, errorMessage)
	if err != nil {
		return errors2.NewServerError(errors2.UPDATE_JOB, err)
	}
	return nil
}

// UpdateJobProgress writes the full run outcome back onto the job row.
func UpdateJobProgress(job model.Job) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get database client for updating job", log.Error(err))
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	resultJSON, err := json.Marshal(job.Result)
	if err != nil {
		return errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}

	query := scripts.UpdateJobProgress[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query,
		job.OrgHandle, job.JobID, job.Status,
		job.TotalRecords, job.ProcessedRecords, job.FailedRecords,
		string(resultJSON), job.ErrorMessage, job.StartedAt, job.CompletedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while updating job: %s", job.JobID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_JOB.Code,
			Message:     errors2.UPDATE_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

func jobFromRow(row map[string]interface{}) model.Job {

	var job model.Job
	job.JobID = row["job_id"].(string)
	job.OrgHandle = row["org_handle"].(string)
	job.JobType = row["job_type"].(string)
	job.SourceSystem = row["source_system"].(string)
	job.TargetSystem = row["target_system"].(string)
	job.EntityType = row["entity_type"].(string)
	job.Status = row["status"].(string)
	job.TotalRecords = int(row["total_records"].(int64))
	job.ProcessedRecords = int(row["processed_records"].(int64))
	job.FailedRecords = int(row["failed_records"].(int64))
	job.CreatedAt = row["created_at"].(time.Time)

	if raw, ok := row["error_message"].(string); ok {
		job.ErrorMessage = raw
	}
	if raw, ok := row["config"].(string); ok && raw != "" && raw != "null" {
		var cfg reconciliation.ReconciliationRequest
		if json.Unmarshal([]byte(raw), &cfg) == nil {
			job.Config = &cfg
		}
	}
	if raw, ok := row["result"].(string); ok && raw != "" && raw != "null" {
		var report reconciliation.Report
		if json.Unmarshal([]byte(raw), &report) == nil {
			job.Result = &report
		}
	}
	if startedAt, ok := row["started_at"].(time.Time); ok {
		job.StartedAt = &startedAt
	}
	if completedAt, ok := row["completed_at"].(time.Time); ok {
		job.CompletedAt = &completedAt
	}

	return job
}
