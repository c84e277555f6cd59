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

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmodel "github.com/aremko/integration-backbone/internal/jobs/model"
	jobservice "github.com/aremko/integration-backbone/internal/jobs/service"
	mappingservice "github.com/aremko/integration-backbone/internal/mappings/service"
	"github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/system/errors"
)

func TestTriggerJob_RunsReconciliationToCompletion(t *testing.T) {
	svc := jobservice.GetJobService()

	reconReq := reconciliationRequest()
	reconReq.SourceRecords = []model.RawRecord{
		{ID: "job-rec-1", Fields: map[string]string{"email": "pedro@example.cl"}},
	}
	reconReq.TargetRecords = []model.RawRecord{
		{ID: "db-30", Fields: map[string]string{"email": "pedro@example.cl"}},
	}

	job, err := svc.TriggerJob(testOrg, jobmodel.TriggerJobRequest{
		JobType:        jobmodel.JobTypeReconciliation,
		Reconciliation: &reconReq,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", job.Status)
	assert.Equal(t, 1, job.TotalRecords)

	require.Eventually(t, func() bool {
		fetched, err := svc.GetJob(testOrg, job.JobID)
		return err == nil && fetched.Status == "completed"
	}, 10*time.Second, 100*time.Millisecond, "job never reached completed")

	completed, err := svc.GetJob(testOrg, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 1, completed.ProcessedRecords)
	assert.Equal(t, 0, completed.FailedRecords)
	require.NotNil(t, completed.Result)
	assert.Equal(t, 1, completed.Result.AutoLinked)
	require.NotNil(t, completed.StartedAt)
	require.NotNil(t, completed.CompletedAt)

	// The run's verdicts landed in the mapping registry.
	mappings := mappingservice.GetMappingService()
	linked, err := mappings.ResolveSource(testOrg, "legacy_pos", "job-rec-1", "aremko_db", "customer")
	require.NoError(t, err)
	assert.Equal(t, "db-30", linked.TargetID)
}

func TestCancelJob_TerminalJobRejected(t *testing.T) {
	svc := jobservice.GetJobService()

	reconReq := reconciliationRequest()
	reconReq.SourceRecords = []model.RawRecord{
		{ID: "job-rec-2", Fields: map[string]string{"email": "ines@example.cl"}},
	}
	reconReq.TargetRecords = []model.RawRecord{
		{ID: "db-31", Fields: map[string]string{"email": "ines@example.cl"}},
	}

	job, err := svc.TriggerJob(testOrg, jobmodel.TriggerJobRequest{
		JobType:        jobmodel.JobTypeReconciliation,
		Reconciliation: &reconReq,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		fetched, err := svc.GetJob(testOrg, job.JobID)
		return err == nil && fetched.Status == "completed"
	}, 10*time.Second, 100*time.Millisecond)

	_, err = svc.CancelJob(testOrg, job.JobID)
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, clientErr.StatusCode)
	assert.Equal(t, errors.JOB_NOT_CANCELLABLE.Code, clientErr.Code)
}

func TestGetJob_UnknownJobNotFound(t *testing.T) {
	svc := jobservice.GetJobService()

	_, err := svc.GetJob(testOrg, "559b9cd1-0000-0000-0000-000000000000")
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
}

func TestListJobs_FiltersByStatus(t *testing.T) {
	svc := jobservice.GetJobService()

	jobs, total, err := svc.ListJobs(testOrg, jobmodel.JobListFilter{Status: "completed"}, 50, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
	for _, job := range jobs {
		assert.Equal(t, "completed", job.Status)
	}
}
