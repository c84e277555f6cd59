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
	"sort"
	"time"

	"github.com/google/uuid"

	mappingsmodel "github.com/aremko/integration-backbone/internal/mappings/model"
	"github.com/aremko/integration-backbone/internal/normalize"
	"github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/similarity"
	"github.com/aremko/integration-backbone/internal/system/config"
	"github.com/aremko/integration-backbone/internal/system/constants"
	"github.com/aremko/integration-backbone/internal/system/log"
)

// CommitFunc persists one proposed mapping. A commit failure means the store
// is unreachable, so the engine stops the run there; everything committed
// before the failure stays committed and is reflected in the report.
type CommitFunc func(mapping mappingsmodel.Mapping) error

// Engine runs one matching pass between a source and a target record set.
// It is stateless across runs; all tuning lives in the matching config.
type Engine struct {
	scorer      similarity.Config
	countryCode string
}

// NewEngine builds an engine from the deployment matching config.
func NewEngine(matching config.MatchingConfig) *Engine {

	weights := map[similarity.Field]float64{
		similarity.FieldPhone:    matching.PhoneWeight,
		similarity.FieldEmail:    matching.EmailWeight,
		similarity.FieldDocument: matching.DocumentWeight,
		similarity.FieldName:     matching.NameWeight,
	}
	return &Engine{
		scorer:      similarity.NewConfig(weights),
		countryCode: matching.DefaultCountryCode,
	}
}

// blocked pairs a candidate with its blocking keys so the engine only scores
// pairs that share at least one strong identifier. Candidates with no strong
// identifier fall back to a full scan against the other side.
type blocked struct {
	candidate similarity.Candidate
	keys      []string
}

// Run executes the matching pass. Records are processed in input order and
// ties broken on target id, so the same inputs always produce the same
// report. Only auto-link verdicts are persisted; a review-band pair is
// surfaced in the report as a candidate and nothing else. Cancellation stops
// between records; verdicts already reached are kept and the report is
// marked cancelled.
func (e *Engine) Run(ctx context.Context, orgHandle string, req model.ReconciliationRequest,
	thresholds model.Thresholds, commit CommitFunc) *model.Report {

	report := &model.Report{
		RunID:        uuid.New().String(),
		Status:       model.ReportStatusCompleted,
		SourceSystem: req.SourceSystem,
		TargetSystem: req.TargetSystem,
		EntityType:   req.EntityType,
		TotalSource:  len(req.SourceRecords),
		TotalTarget:  len(req.TargetRecords),
		StartedAt:    time.Now().UTC(),
		Details:      make([]model.RecordOutcome, 0, len(req.SourceRecords)),
	}

	logger := log.GetLogger()

	targets := make([]blocked, 0, len(req.TargetRecords))
	blockIndex := make(map[string][]int)
	for _, record := range req.TargetRecords {
		candidate, skips := e.buildCandidate(record, req.TargetFields)
		report.NormalizationSkips += skips
		if record.ID == "" || !hasSignal(candidate) {
			report.NormalizationSkips++
			logger.Warn("Skipping target record with no usable identity",
				log.String("record_id", record.ID))
			continue
		}
		idx := len(targets)
		targets = append(targets, blocked{candidate: candidate, keys: blockKeys(candidate)})
		for _, key := range targets[idx].keys {
			blockIndex[key] = append(blockIndex[key], idx)
		}
	}

	for _, record := range req.SourceRecords {
		if ctx.Err() != nil {
			report.Status = model.ReportStatusCancelled
			break
		}

		source, skips := e.buildCandidate(record, req.SourceFields)
		report.NormalizationSkips += skips
		if record.ID == "" || !hasSignal(source) {
			report.NormalizationSkips++
			logger.Warn("Skipping source record with no usable identity",
				log.String("record_id", record.ID))
			continue
		}

		best, result := e.bestMatch(source, targets, blockIndex)
		outcome := model.RecordOutcome{
			SourceID:   record.ID,
			Confidence: result.Confidence,
			Reasons:    result.Reasons,
		}

		switch {
		case best == nil || result.Confidence < thresholds.Review:
			outcome.Outcome = model.OutcomeUnmatched
			report.Unmatched++
		case result.Confidence >= thresholds.AutoLink:
			outcome.TargetID = best.ID
			outcome.Outcome = model.OutcomeAutoLinked
			e.commitLink(&outcome, report, req, orgHandle, commit)
		default:
			// Review-band pairs are surfaced for a human verdict only;
			// nothing is written until someone confirms the link.
			outcome.TargetID = best.ID
			outcome.Outcome = model.OutcomeNeedsReview
			report.NeedsReview++
		}

		report.Details = append(report.Details, outcome)

		// A store failure aborts the rest of the batch; the report keeps
		// the counts committed so far and a re-run picks up the remainder.
		if outcome.Outcome == model.OutcomeFailed {
			report.Status = model.ReportStatusFailed
			break
		}
	}

	report.FinishedAt = time.Now().UTC()
	return report
}

// commitLink persists an auto-link verdict unless the run is a dry run. When
// the store rejects the write the outcome is downgraded to failed; the
// caller stops the run on that signal.
func (e *Engine) commitLink(outcome *model.RecordOutcome, report *model.Report,
	req model.ReconciliationRequest, orgHandle string, commit CommitFunc) {

	if !req.DryRun && commit != nil {
		mapping := mappingsmodel.Mapping{
			MappingID:        uuid.New().String(),
			OrgHandle:        orgHandle,
			SourceSystem:     req.SourceSystem,
			SourceID:         outcome.SourceID,
			SourceEntityType: req.EntityType,
			TargetSystem:     req.TargetSystem,
			TargetID:         outcome.TargetID,
			TargetEntityType: req.EntityType,
			ConfidenceScore:  outcome.Confidence,
			MatchReasons:     outcome.Reasons,
			Metadata:         map[string]string{"run_id": report.RunID},
			Status:           constants.MappingStatusActive,
		}
		if err := commit(mapping); err != nil {
			outcome.Outcome = model.OutcomeFailed
			outcome.Error = err.Error()
			report.StoreFailures++
			return
		}
	}

	report.AutoLinked++
}

// bestMatch scores the source against its blocked target set and returns the
// highest-confidence target, or nil when no target scores above zero.
func (e *Engine) bestMatch(source similarity.Candidate, targets []blocked,
	blockIndex map[string][]int) (*similarity.Candidate, similarity.MatchResult) {

	indices := candidateIndices(source, targets, blockIndex)

	var best *similarity.Candidate
	var bestResult similarity.MatchResult
	for _, i := range indices {
		target := targets[i].candidate
		result := similarity.Score(source, target, e.scorer)
		if result.Confidence == 0 {
			continue
		}
		if best == nil || result.Confidence > bestResult.Confidence ||
			(result.Confidence == bestResult.Confidence && target.ID < best.ID) {
			match := target
			best = &match
			bestResult = result
		}
	}
	return best, bestResult
}

// candidateIndices selects which targets are worth scoring. Sources carrying
// a strong identifier only meet targets sharing a blocking key; sources with
// nothing but a name meet every target.
func candidateIndices(source similarity.Candidate, targets []blocked,
	blockIndex map[string][]int) []int {

	keys := blockKeys(source)
	if len(keys) == 0 {
		indices := make([]int, len(targets))
		for i := range targets {
			indices[i] = i
		}
		return indices
	}

	seen := make(map[int]bool)
	indices := make([]int, 0)
	for _, key := range keys {
		for _, i := range blockIndex[key] {
			if !seen[i] {
				seen[i] = true
				indices = append(indices, i)
			}
		}
	}
	sort.Ints(indices)
	return indices
}

// buildCandidate normalizes the raw fields named by the mapping into a
// scoring candidate. A field that is present but fails normalization is
// dropped from the candidate and counted as a skip; the record itself still
// participates with whatever survived.
func (e *Engine) buildCandidate(record model.RawRecord, fields model.FieldMapping) (similarity.Candidate, int) {

	candidate := similarity.Candidate{
		ID:     record.ID,
		Fields: make(map[similarity.Field]string),
		Raw:    record.Fields,
	}
	skips := 0

	if raw := record.Fields[fields.Phone]; fields.Phone != "" && raw != "" {
		if phone, ok := normalize.Phone(raw, e.countryCode); ok {
			candidate.Fields[similarity.FieldPhone] = phone
		} else {
			skips++
		}
	}
	if raw := record.Fields[fields.Email]; fields.Email != "" && raw != "" {
		if email, ok := normalize.Email(raw); ok {
			candidate.Fields[similarity.FieldEmail] = email
		} else {
			skips++
		}
	}
	if raw := record.Fields[fields.Document]; fields.Document != "" && raw != "" {
		if document, ok := normalize.DocumentID(raw); ok {
			candidate.Fields[similarity.FieldDocument] = document
		} else {
			skips++
		}
	}
	if raw := record.Fields[fields.Name]; fields.Name != "" && raw != "" {
		if name, ok := normalize.PersonName(raw); ok {
			candidate.Name = name
		} else {
			skips++
		}
	}

	return candidate, skips
}

// hasSignal reports whether normalization left the candidate with anything
// to match on. A record with no id or no signal is a normalization skip.
func hasSignal(candidate similarity.Candidate) bool {
	return len(candidate.Fields) > 0 || len(candidate.Name.Tokens) > 0
}

// blockKeys derives the strong-identifier keys a candidate can be indexed
// under. Phones block on their last eight digits so country-code variants of
// the same line land in the same block.
func blockKeys(candidate similarity.Candidate) []string {

	keys := make([]string, 0, 3)
	if phone := candidate.Fields[similarity.FieldPhone]; phone != "" {
		digits := phoneSuffix(phone, 8)
		keys = append(keys, "p:"+digits)
	}
	if email := candidate.Fields[similarity.FieldEmail]; email != "" {
		keys = append(keys, "e:"+email)
	}
	if document := candidate.Fields[similarity.FieldDocument]; document != "" {
		keys = append(keys, "d:"+document)
	}
	return keys
}

func phoneSuffix(phone string, n int) string {

	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= n {
		return string(digits)
	}
	return string(digits[len(digits)-n:])
}
