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

	mappingsmodel "github.com/aremko/integration-backbone/internal/mappings/model"
	mappingstore "github.com/aremko/integration-backbone/internal/mappings/store"
	"github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/system/config"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
)

type ReconciliationServiceInterface interface {
	Reconcile(ctx context.Context, orgHandle string, req model.ReconciliationRequest) (*model.Report, error)
}

// ReconciliationService is the default implementation of the
// ReconciliationServiceInterface. It wires the engine to the mapping store
// and the deployment matching config.
type ReconciliationService struct{}

// GetReconciliationService creates a new instance of ReconciliationService.
func GetReconciliationService() ReconciliationServiceInterface {

	return &ReconciliationService{}
}

// Reconcile validates the request, resolves thresholds against the deployment
// defaults and runs the matching pass. Proposed links go straight to the
// mapping store unless the run is a dry run.
func (rs *ReconciliationService) Reconcile(ctx context.Context, orgHandle string,
	req model.ReconciliationRequest) (*model.Report, error) {

	matching := config.GetIBSRuntime().Config.Matching
	thresholds, err := resolveThresholds(req, matching)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	engine := NewEngine(matching)
	commit := func(mapping mappingsmodel.Mapping) error {
		_, err := mappingstore.UpsertMapping(mapping)
		return err
	}

	report := engine.Run(ctx, orgHandle, req, thresholds, commit)

	logger := log.GetLogger()
	logger.Info("Reconciliation run finished",
		log.String("run_id", report.RunID),
		log.String("status", report.Status),
		log.Int("auto_linked", report.AutoLinked),
		log.Int("needs_review", report.NeedsReview),
		log.Int("unmatched", report.Unmatched),
		log.Int("store_failures", report.StoreFailures))
	return report, nil
}

func validateRequest(req model.ReconciliationRequest) error {

	required := []struct {
		field string
		value string
	}{
		{"source_system", req.SourceSystem},
		{"target_system", req.TargetSystem},
		{"entity_type", req.EntityType},
	}
	for _, item := range required {
		if item.value == "" {
			return errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.INVALID_FIELD_MAPPING.Code,
				Message:     errors2.INVALID_FIELD_MAPPING.Message,
				Description: fmt.Sprintf("%s is required", item.field),
			}, http.StatusBadRequest)
		}
	}
	if !req.SourceFields.HasAnyRole() || !req.TargetFields.HasAnyRole() {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_FIELD_MAPPING.Code,
			Message:     errors2.INVALID_FIELD_MAPPING.Message,
			Description: "Both sides must map at least one of phone, email, document or name.",
		}, http.StatusBadRequest)
	}
	return nil
}

func resolveThresholds(req model.ReconciliationRequest, matching config.MatchingConfig) (model.Thresholds, error) {

	thresholds := model.Thresholds{
		AutoLink: matching.AutoLinkFloor,
		Review:   matching.ReviewFloor,
	}
	if req.Thresholds != nil {
		thresholds = *req.Thresholds
	}
	if thresholds.Review < 0 || thresholds.AutoLink > 100 || thresholds.AutoLink < thresholds.Review {
		return model.Thresholds{}, errors2.NewClientError(errors2.INVALID_THRESHOLDS, http.StatusBadRequest)
	}
	return thresholds, nil
}
