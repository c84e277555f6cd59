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
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mappingsmodel "github.com/aremko/integration-backbone/internal/mappings/model"
	"github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/system/config"
	"github.com/aremko/integration-backbone/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		DefaultCountryCode: "56",
		AutoLinkFloor:      85,
		ReviewFloor:        50,
		PhoneWeight:        0.90,
		EmailWeight:        0.85,
		DocumentWeight:     0.95,
		NameWeight:         0.70,
	}
}

func customerFields() model.FieldMapping {
	return model.FieldMapping{
		Phone: "phone",
		Email: "email",
		Name:  "name",
	}
}

func baseRequest() model.ReconciliationRequest {
	return model.ReconciliationRequest{
		SourceSystem: "legacy_pos",
		TargetSystem: "aremko_db",
		EntityType:   "customer",
		SourceFields: customerFields(),
		TargetFields: customerFields(),
	}
}

// collectCommits returns a commit func that records every mapping it is
// handed.
func collectCommits(committed *[]mappingsmodel.Mapping) CommitFunc {
	return func(m mappingsmodel.Mapping) error {
		*committed = append(*committed, m)
		return nil
	}
}

func TestRun_PhoneFormatsLinkAcrossSystems(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-1", Fields: map[string]string{"phone": "9 8765 4321", "name": "Maria Gonzalez"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-7", Fields: map[string]string{"phone": "+56987654321", "name": "María González P."}},
		{ID: "tgt-9", Fields: map[string]string{"phone": "+56911112222", "name": "Carlos Soto"}},
	}

	var committed []mappingsmodel.Mapping
	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, collectCommits(&committed))

	require.Len(t, report.Details, 1)
	outcome := report.Details[0]
	assert.Equal(t, model.OutcomeAutoLinked, outcome.Outcome)
	assert.Equal(t, "tgt-7", outcome.TargetID)
	assert.GreaterOrEqual(t, outcome.Confidence, 85)
	assert.Contains(t, outcome.Reasons, "phone_exact")

	assert.Equal(t, 1, report.AutoLinked)
	assert.Equal(t, 0, report.Unmatched)
	require.Len(t, committed, 1)
	assert.Equal(t, "legacy-1", committed[0].SourceID)
	assert.Equal(t, "tgt-7", committed[0].TargetID)
	assert.Equal(t, "active", committed[0].Status)
	assert.Equal(t, report.RunID, committed[0].Metadata["run_id"])
}

func TestRun_NameOnlyFuzzyMatchNeedsReview(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceFields = model.FieldMapping{Name: "name"}
	req.TargetFields = model.FieldMapping{Name: "full_name"}
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-2", Fields: map[string]string{"name": "Maria Gonzalez"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"full_name": "Carlos Soto"}},
		{ID: "tgt-2", Fields: map[string]string{"full_name": "González María"}},
	}

	var committed []mappingsmodel.Mapping
	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 90, Review: 50}, collectCommits(&committed))

	require.Len(t, report.Details, 1)
	outcome := report.Details[0]
	assert.Equal(t, model.OutcomeNeedsReview, outcome.Outcome)
	assert.Equal(t, "tgt-2", outcome.TargetID)
	assert.Contains(t, outcome.Reasons, "name_fuzzy")
	assert.GreaterOrEqual(t, outcome.Confidence, 50)
	assert.Less(t, outcome.Confidence, 90)

	// A review-band candidate lives in the report only; nothing reaches
	// the store until a human confirms the link.
	assert.Empty(t, committed)
	assert.Equal(t, 1, report.NeedsReview)
}

func TestRun_ReviewBandLeavesExistingLinkUntouched(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	// legacy-12 scored 100 against tgt-5 on a previous run and was linked.
	// Today only the fuzzy name survives, putting the pair in the review
	// band; the run must not push a weaker verdict over the confirmed one.
	req := baseRequest()
	req.SourceFields = model.FieldMapping{Name: "name"}
	req.TargetFields = model.FieldMapping{Name: "name"}
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-12", Fields: map[string]string{"name": "Maria Gonzalez"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-5", Fields: map[string]string{"name": "González María"}},
	}

	var committed []mappingsmodel.Mapping
	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 95, Review: 50}, collectCommits(&committed))

	require.Len(t, report.Details, 1)
	assert.Equal(t, model.OutcomeNeedsReview, report.Details[0].Outcome)
	assert.Empty(t, committed)
}

func TestRun_BelowReviewFloorStaysUnmatched(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceFields = model.FieldMapping{Name: "name"}
	req.TargetFields = model.FieldMapping{Name: "name"}
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-3", Fields: map[string]string{"name": "Maria Gonzalez"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"name": "Roberto Fuentes"}},
	}

	var committed []mappingsmodel.Mapping
	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, collectCommits(&committed))

	require.Len(t, report.Details, 1)
	assert.Equal(t, model.OutcomeUnmatched, report.Details[0].Outcome)
	assert.Empty(t, report.Details[0].TargetID)
	assert.Equal(t, 1, report.Unmatched)
	assert.Empty(t, committed)
}

func TestRun_NoSharedIdentifiersStaysUnmatched(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceFields = model.FieldMapping{Phone: "phone"}
	req.TargetFields = model.FieldMapping{Email: "email"}
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-4", Fields: map[string]string{"phone": "987654321"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"email": "maria@example.cl"}},
	}

	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, nil)

	require.Len(t, report.Details, 1)
	assert.Equal(t, model.OutcomeUnmatched, report.Details[0].Outcome)
	assert.Equal(t, 0, report.Details[0].Confidence)
}

func TestRun_InvalidPhoneCountedAsSkipRecordStillMatches(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-5", Fields: map[string]string{
			"phone": "12345", // landline fragment, not normalizable
			"email": "Maria.Gonzalez@Example.CL",
		}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-3", Fields: map[string]string{"email": "maria.gonzalez@example.cl"}},
	}

	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, nil)

	assert.Equal(t, 1, report.NormalizationSkips)
	require.Len(t, report.Details, 1)
	assert.Equal(t, model.OutcomeAutoLinked, report.Details[0].Outcome)
	assert.Contains(t, report.Details[0].Reasons, "email_exact")
}

func TestRun_MissingRecordIDIsSkippedNotCommitted(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceRecords = []model.RawRecord{
		{ID: "", Fields: map[string]string{"phone": "987654321"}},
		{ID: "legacy-11", Fields: map[string]string{"phone": "911112222"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"phone": "+56987654321"}},
		{ID: "tgt-2", Fields: map[string]string{"phone": "+56911112222"}},
	}

	var committed []mappingsmodel.Mapping
	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, collectCommits(&committed))

	// The id-less record never reaches scoring or the store; the rest of
	// the batch is unaffected.
	assert.Equal(t, 1, report.NormalizationSkips)
	require.Len(t, report.Details, 1)
	assert.Equal(t, "legacy-11", report.Details[0].SourceID)
	require.Len(t, committed, 1)
	assert.Equal(t, "legacy-11", committed[0].SourceID)
}

func TestRun_RecordWithNoUsableFieldsIsSkipped(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceRecords = []model.RawRecord{
		// Carries only a column the field mapping never references.
		{ID: "legacy-13", Fields: map[string]string{"notes": "walk-in client"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"phone": "+56987654321"}},
		// An id-less target must not become a link destination either.
		{ID: "", Fields: map[string]string{"phone": "+56911112222"}},
	}

	var committed []mappingsmodel.Mapping
	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, collectCommits(&committed))

	assert.Equal(t, 2, report.NormalizationSkips)
	assert.Empty(t, report.Details)
	assert.Empty(t, committed)
}

func TestRun_StoreFailureAbortsBatchKeepsCommitted(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-6", Fields: map[string]string{"phone": "987654321"}},
		{ID: "legacy-7", Fields: map[string]string{"phone": "911112222"}},
		{ID: "legacy-8", Fields: map[string]string{"phone": "933334444"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"phone": "+56987654321"}},
		{ID: "tgt-2", Fields: map[string]string{"phone": "+56911112222"}},
		{ID: "tgt-3", Fields: map[string]string{"phone": "+56933334444"}},
	}

	// legacy-6 commits fine; the store goes away before legacy-7.
	committed := 0
	commit := func(m mappingsmodel.Mapping) error {
		if m.SourceID == "legacy-7" {
			return errors.New("connection reset")
		}
		committed++
		return nil
	}

	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, commit)

	// legacy-8 is never processed; the committed count survives the abort.
	require.Len(t, report.Details, 2)
	assert.Equal(t, model.OutcomeAutoLinked, report.Details[0].Outcome)
	assert.Equal(t, model.OutcomeFailed, report.Details[1].Outcome)
	assert.Contains(t, report.Details[1].Error, "connection reset")
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, report.AutoLinked)
	assert.Equal(t, 1, report.StoreFailures)
	assert.Equal(t, model.ReportStatusFailed, report.Status)
}

func TestRun_CancelledContextStopsBetweenRecords(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-8", Fields: map[string]string{"phone": "987654321"}},
		{ID: "legacy-9", Fields: map[string]string{"phone": "911112222"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"phone": "+56987654321"}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := engine.Run(ctx, "aremko", req, model.Thresholds{AutoLink: 85, Review: 50}, nil)

	assert.Equal(t, model.ReportStatusCancelled, report.Status)
	assert.Empty(t, report.Details)
	assert.Equal(t, 2, report.TotalSource)
}

func TestRun_DryRunCommitsNothing(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.DryRun = true
	req.SourceRecords = []model.RawRecord{
		{ID: "legacy-10", Fields: map[string]string{"phone": "987654321"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "tgt-1", Fields: map[string]string{"phone": "+56987654321"}},
	}

	var committed []mappingsmodel.Mapping
	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, collectCommits(&committed))

	assert.Empty(t, committed)
	assert.Equal(t, 1, report.AutoLinked)
	require.Len(t, report.Details, 1)
	assert.Equal(t, model.OutcomeAutoLinked, report.Details[0].Outcome)
}

func TestRun_Deterministic(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceRecords = []model.RawRecord{
		{ID: "s-1", Fields: map[string]string{"phone": "987654321", "name": "Maria Gonzalez"}},
		{ID: "s-2", Fields: map[string]string{"email": "carlos@soto.cl", "name": "Carlos Soto"}},
		{ID: "s-3", Fields: map[string]string{"name": "Roberto Fuentes"}},
	}
	req.TargetRecords = []model.RawRecord{
		{ID: "t-1", Fields: map[string]string{"phone": "+56987654321", "name": "María González"}},
		{ID: "t-2", Fields: map[string]string{"email": "carlos@soto.cl", "name": "C. Soto"}},
		{ID: "t-3", Fields: map[string]string{"name": "Ana Muñoz"}},
	}

	first := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, nil)
	for i := 0; i < 10; i++ {
		again := engine.Run(context.Background(), "aremko", req,
			model.Thresholds{AutoLink: 85, Review: 50}, nil)
		assert.Equal(t, first.Details, again.Details)
		assert.Equal(t, first.AutoLinked, again.AutoLinked)
		assert.Equal(t, first.NeedsReview, again.NeedsReview)
		assert.Equal(t, first.Unmatched, again.Unmatched)
	}
}

func TestRun_TieBreaksOnTargetID(t *testing.T) {
	engine := NewEngine(testMatchingConfig())

	req := baseRequest()
	req.SourceFields = model.FieldMapping{Email: "email"}
	req.TargetFields = model.FieldMapping{Email: "email"}
	req.SourceRecords = []model.RawRecord{
		{ID: "s-1", Fields: map[string]string{"email": "dup@example.cl"}},
	}
	// Two targets with the identical identifier score the same.
	req.TargetRecords = []model.RawRecord{
		{ID: "t-b", Fields: map[string]string{"email": "dup@example.cl"}},
		{ID: "t-a", Fields: map[string]string{"email": "dup@example.cl"}},
	}

	report := engine.Run(context.Background(), "aremko", req,
		model.Thresholds{AutoLink: 85, Review: 50}, nil)

	require.Len(t, report.Details, 1)
	assert.Equal(t, "t-a", report.Details[0].TargetID)
}
