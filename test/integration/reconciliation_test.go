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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mappingservice "github.com/aremko/integration-backbone/internal/mappings/service"
	"github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/reconciliation/service"
)

func reconciliationRequest() model.ReconciliationRequest {
	fields := model.FieldMapping{Phone: "phone", Email: "email", Name: "name"}
	return model.ReconciliationRequest{
		SourceSystem: "legacy_pos",
		TargetSystem: "aremko_db",
		EntityType:   "customer",
		SourceFields: fields,
		TargetFields: fields,
	}
}

func TestReconcile_WritesMappingsThroughToStore(t *testing.T) {
	svc := service.GetReconciliationService()

	req := reconciliationRequest()
	req.SourceRecords = []model.RawRecord{
		// Same line, different formats: links without review.
		{ID: "rec-1", Fields: map[string]string{"phone": "9 1234 5678", "name": "Maria Gonzalez"}},
		// Name-only fuzzy candidate: queued for review.
		{ID: "rec-2", Fields: map[string]string{"name": "Karla Soto"}},
		// Nobody resembles this one.
		{ID: "rec-3", Fields: map[string]string{"name": "Roberto Fuentes"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "db-1", Fields: map[string]string{"phone": "+56912345678", "name": "María González"}},
		{ID: "db-2", Fields: map[string]string{"name": "Carlos Soto"}},
	}
	req.Thresholds = &model.Thresholds{AutoLink: 90, Review: 50}

	report, err := svc.Reconcile(context.Background(), testOrg, req)
	require.NoError(t, err)

	assert.Equal(t, model.ReportStatusCompleted, report.Status)
	assert.Equal(t, 3, report.TotalSource)
	assert.Equal(t, 1, report.AutoLinked)
	assert.Equal(t, 1, report.NeedsReview)
	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, 0, report.StoreFailures)

	mappings := mappingservice.GetMappingService()

	linked, err := mappings.ResolveSource(testOrg, "legacy_pos", "rec-1", "aremko_db", "customer")
	require.NoError(t, err)
	assert.Equal(t, "db-1", linked.TargetID)
	assert.Equal(t, "active", linked.Status)
	assert.Contains(t, linked.MatchReasons, "phone_exact")
	assert.Equal(t, report.RunID, linked.Metadata["run_id"])

	// The review-band pair shows up in the report only; confirming it is a
	// manual registration, so the store has no row for rec-2.
	reviewDetail := report.Details[1]
	assert.Equal(t, "rec-2", reviewDetail.SourceID)
	assert.Equal(t, "db-2", reviewDetail.TargetID)
	assert.Equal(t, model.OutcomeNeedsReview, reviewDetail.Outcome)
	_, err = mappings.ResolveSource(testOrg, "legacy_pos", "rec-2", "aremko_db", "customer")
	require.Error(t, err)

	_, err = mappings.ResolveSource(testOrg, "legacy_pos", "rec-3", "aremko_db", "customer")
	require.Error(t, err)
}

func TestReconcile_DryRunLeavesStoreUntouched(t *testing.T) {
	svc := service.GetReconciliationService()

	req := reconciliationRequest()
	req.DryRun = true
	req.SourceRecords = []model.RawRecord{
		{ID: "dry-1", Fields: map[string]string{"phone": "987001122"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "db-9", Fields: map[string]string{"phone": "+56987001122"}},
	}

	report, err := svc.Reconcile(context.Background(), testOrg, req)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AutoLinked)

	mappings := mappingservice.GetMappingService()
	_, err = mappings.ResolveSource(testOrg, "legacy_pos", "dry-1", "aremko_db", "customer")
	require.Error(t, err, "dry run must not persist mappings")
}

func TestReconcile_RerunIsIdempotent(t *testing.T) {
	svc := service.GetReconciliationService()

	req := reconciliationRequest()
	req.SourceRecords = []model.RawRecord{
		{ID: "rerun-1", Fields: map[string]string{"email": "ana@example.cl"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "db-20", Fields: map[string]string{"email": "ana@example.cl"}},
	}

	_, err := svc.Reconcile(context.Background(), testOrg, req)
	require.NoError(t, err)
	_, err = svc.Reconcile(context.Background(), testOrg, req)
	require.NoError(t, err)

	mappings := mappingservice.GetMappingService()
	bySource, err := mappings.GetMappingsForSource(testOrg, "legacy_pos", "rerun-1")
	require.NoError(t, err)
	assert.Len(t, bySource, 1, "rerunning the same reconciliation must not duplicate mappings")
}
