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
	"strconv"
	"time"

	"github.com/aremko/integration-backbone/internal/mappings/model"
	"github.com/aremko/integration-backbone/internal/mappings/provider"
	auditprovider "github.com/aremko/integration-backbone/internal/audit/provider"
	"github.com/aremko/integration-backbone/internal/system/authn"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
	"github.com/aremko/integration-backbone/internal/system/pagination"
	"github.com/aremko/integration-backbone/internal/system/security"
	"github.com/aremko/integration-backbone/internal/system/utils"
)

type MappingHandler struct{}

func NewMappingHandler() *MappingHandler {

	return &MappingHandler{}
}

type mappingListResponse struct {
	Mappings   []model.Mapping       `json:"mappings"`
	Pagination pagination.Pagination `json:"pagination"`
}

// RegisterMapping handles direct registration of a known-correct mapping.
func (mh *MappingHandler) RegisterMapping(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "mappings:create")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var request model.MappingAPIRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "mapping"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	mapping, err := mappingService.RegisterMapping(orgHandle, request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	auditService := auditprovider.NewAuditProvider().GetAuditService()
	auditService.Record(orgHandle, log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      mapping.MappingID,
		TargetType:    log.TargetTypeMapping,
		ActionID:      log.ActionRegisterMapping,
		Data: map[string]string{
			"org_handle":    orgHandle,
			"source_system": mapping.SourceSystem,
			"source_id":     mapping.SourceID,
			"target_system": mapping.TargetSystem,
			"target_id":     mapping.TargetID,
		},
	})

	utils.WriteJSONResponse(w, http.StatusCreated, mapping)
}

// ListMappings handles filtered, paginated listing of mappings.
func (mh *MappingHandler) ListMappings(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "mappings:view")
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
	filter := model.ListFilter{
		SourceSystem: query.Get("source_system"),
		TargetSystem: query.Get("target_system"),
		EntityType:   query.Get("entity_type"),
		Status:       query.Get("status"),
	}
	filter.MinConfidence, err = parseConfidenceParam(query.Get("min_confidence"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	filter.MaxConfidence, err = parseConfidenceParam(query.Get("max_confidence"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	mappings, total, err := mappingService.ListMappings(orgHandle, filter, page.Limit, page.Offset)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, mappingListResponse{
		Mappings: mappings,
		Pagination: pagination.Pagination{
			Count:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	})
}

// GetMapping handles fetching one mapping by id.
func (mh *MappingHandler) GetMapping(w http.ResponseWriter, r *http.Request, mappingID string) {

	err := security.AuthnAndAuthz(r, "mappings:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	mapping, err := mappingService.GetMapping(orgHandle, mappingID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, mapping)
}

// ResolveSource handles the sync hot path: given a source record and a target
// system, answer with the single current mapping or 404.
func (mh *MappingHandler) ResolveSource(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "mappings:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	query := r.URL.Query()
	sourceSystem := query.Get("source_system")
	sourceID := query.Get("source_id")
	targetSystem := query.Get("target_system")
	targetEntityType := query.Get("target_entity_type")
	if sourceSystem == "" || sourceID == "" || targetSystem == "" || targetEntityType == "" {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MAPPING_VALIDATION.Code,
			Message:     errors2.MAPPING_VALIDATION.Message,
			Description: "source_system, source_id, target_system and target_entity_type are required",
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	mapping, err := mappingService.ResolveSource(orgHandle, sourceSystem, sourceID, targetSystem, targetEntityType)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, mapping)
}

// GetMappingsForSource handles listing every mapping a source record holds
// across target systems.
func (mh *MappingHandler) GetMappingsForSource(w http.ResponseWriter, r *http.Request,
	sourceSystem, sourceID string) {

	err := security.AuthnAndAuthz(r, "mappings:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	mappings, err := mappingService.GetMappingsForSource(orgHandle, sourceSystem, sourceID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, mappings)
}

// GetMappingsForTarget handles the reverse lookup: which source records point
// at this target.
func (mh *MappingHandler) GetMappingsForTarget(w http.ResponseWriter, r *http.Request,
	targetSystem, targetID string) {

	err := security.AuthnAndAuthz(r, "mappings:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	mappings, err := mappingService.GetMappingsForTarget(orgHandle, targetSystem, targetID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, mappings)
}

// PatchMapping handles partial updates to an existing mapping.
func (mh *MappingHandler) PatchMapping(w http.ResponseWriter, r *http.Request, mappingID string) {

	err := security.AuthnAndAuthz(r, "mappings:update")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var patch model.MappingPatchRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "mapping patch"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	mapping, err := mappingService.PatchMapping(orgHandle, mappingID, patch)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	auditService := auditprovider.NewAuditProvider().GetAuditService()
	auditService.Record(orgHandle, log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      mappingID,
		TargetType:    log.TargetTypeMapping,
		ActionID:      log.ActionUpdateMapping,
		Data: map[string]string{
			"org_handle": orgHandle,
		},
	})

	utils.WriteJSONResponse(w, http.StatusOK, mapping)
}

// DeleteMapping handles archival of a mapping. The hard=true query parameter
// removes the row entirely.
func (mh *MappingHandler) DeleteMapping(w http.ResponseWriter, r *http.Request, mappingID string) {

	err := security.AuthnAndAuthz(r, "mappings:delete")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	hard := r.URL.Query().Get("hard") == "true"
	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	if err := mappingService.DeleteMapping(orgHandle, mappingID, hard); err != nil {
		utils.HandleError(w, err)
		return
	}

	auditService := auditprovider.NewAuditProvider().GetAuditService()
	auditService.Record(orgHandle, log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      mappingID,
		TargetType:    log.TargetTypeMapping,
		ActionID:      log.ActionDeleteMapping,
		Data: map[string]string{
			"org_handle": orgHandle,
		},
	})

	w.WriteHeader(http.StatusNoContent)
}

// MarkSynced handles recording a downstream sync confirmation.
func (mh *MappingHandler) MarkSynced(w http.ResponseWriter, r *http.Request, mappingID string) {

	err := security.AuthnAndAuthz(r, "mappings:update")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	mappingService := provider.NewMappingProvider().GetMappingService()
	if err := mappingService.MarkSynced(orgHandle, mappingID, time.Now().UTC()); err != nil {
		utils.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseConfidenceParam parses an optional confidence bound. An absent
// parameter means no bound, so "0" and "" must stay distinguishable.
func parseConfidenceParam(raw string) (*int, error) {

	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 || value > 100 {
		return nil, errors2.NewClientError(errors2.CONFIDENCE_OUT_OF_RANGE, http.StatusBadRequest)
	}
	return &value, nil
}
