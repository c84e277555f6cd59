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
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aremko/integration-backbone/internal/mappings/model"
	"github.com/aremko/integration-backbone/internal/mappings/store"
	"github.com/aremko/integration-backbone/internal/system/cache"
	"github.com/aremko/integration-backbone/internal/system/constants"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
)

type MappingServiceInterface interface {
	RegisterMapping(orgHandle string, request model.MappingAPIRequest) (*model.Mapping, error)
	GetMapping(orgHandle, mappingID string) (*model.Mapping, error)
	ResolveSource(orgHandle, sourceSystem, sourceID, targetSystem, targetEntityType string) (*model.Mapping, error)
	GetMappingsForSource(orgHandle, sourceSystem, sourceID string) ([]model.Mapping, error)
	GetMappingsForTarget(orgHandle, targetSystem, targetID string) ([]model.Mapping, error)
	ListMappings(orgHandle string, filter model.ListFilter, limit, offset int) ([]model.Mapping, int, error)
	PatchMapping(orgHandle, mappingID string, patch model.MappingPatchRequest) (*model.Mapping, error)
	DeleteMapping(orgHandle, mappingID string, hard bool) error
	MarkSynced(orgHandle, mappingID string, syncedAt time.Time) error
}

// MappingService is the default implementation of the MappingServiceInterface.
type MappingService struct{}

// resolveCache keeps hot source lookups out of the database. Entries are
// invalidated on every write to the same source identity.
var resolveCache = cache.NewCache(2 * time.Minute)

// GetMappingService creates a new instance of MappingService.
func GetMappingService() MappingServiceInterface {

	return &MappingService{}
}

// RegisterMapping validates and stores a mapping. Registering over an existing
// (source_system, source_id, target_system, target_entity_type) tuple replaces
// it atomically rather than creating a duplicate.
func (ms *MappingService) RegisterMapping(orgHandle string, request model.MappingAPIRequest) (*model.Mapping, error) {

	if err := validateMappingRequest(request); err != nil {
		return nil, err
	}

	mapping := model.Mapping{
		MappingID:        uuid.New().String(),
		OrgHandle:        orgHandle,
		SourceSystem:     request.SourceSystem,
		SourceID:         request.SourceID,
		SourceEntityType: request.SourceEntityType,
		TargetSystem:     request.TargetSystem,
		TargetID:         request.TargetID,
		TargetEntityType: request.TargetEntityType,
		ConfidenceScore:  request.ConfidenceScore,
		MatchReasons:     request.MatchReasons,
		Metadata:         request.Metadata,
		Status:           constants.MappingStatusActive,
	}
	if mapping.MatchReasons == nil {
		mapping.MatchReasons = []string{}
	}

	stored, err := store.UpsertMapping(mapping)
	if err != nil {
		return nil, err
	}

	resolveCache.Delete(resolveCacheKey(orgHandle, mapping.SourceSystem, mapping.SourceID,
		mapping.TargetSystem, mapping.TargetEntityType))
	return stored, nil
}

// GetMapping fetches a mapping by id.
func (ms *MappingService) GetMapping(orgHandle, mappingID string) (*model.Mapping, error) {

	mapping, err := store.GetMappingByID(orgHandle, mappingID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, errors2.NewClientError(errors2.MAPPING_NOT_FOUND, http.StatusNotFound)
	}
	return mapping, nil
}

// ResolveSource answers "what does source X map to in system Y", the hot path
// of every outbound sync.
func (ms *MappingService) ResolveSource(orgHandle, sourceSystem, sourceID, targetSystem,
	targetEntityType string) (*model.Mapping, error) {

	cacheKey := resolveCacheKey(orgHandle, sourceSystem, sourceID, targetSystem, targetEntityType)
	if cached, ok := resolveCache.Get(cacheKey); ok {
		mapping := cached.(model.Mapping)
		return &mapping, nil
	}

	mapping, err := store.GetMappingBySource(orgHandle, sourceSystem, sourceID, targetSystem, targetEntityType)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:    errors2.MAPPING_NOT_FOUND.Code,
			Message: errors2.MAPPING_NOT_FOUND.Message,
			Description: fmt.Sprintf("No mapping found for source %s:%s in target system %s",
				sourceSystem, sourceID, targetSystem),
		}, http.StatusNotFound)
	}

	resolveCache.Set(cacheKey, *mapping)
	return mapping, nil
}

// GetMappingsForSource fetches all mappings held by one source record.
func (ms *MappingService) GetMappingsForSource(orgHandle, sourceSystem, sourceID string) ([]model.Mapping, error) {

	return store.GetMappingsBySource(orgHandle, sourceSystem, sourceID)
}

// GetMappingsForTarget fetches all mappings pointing at one target record.
func (ms *MappingService) GetMappingsForTarget(orgHandle, targetSystem, targetID string) ([]model.Mapping, error) {

	return store.GetMappingsByTarget(orgHandle, targetSystem, targetID)
}

// ListMappings returns a filtered page of mappings with the total match count.
func (ms *MappingService) ListMappings(orgHandle string, filter model.ListFilter,
	limit, offset int) ([]model.Mapping, int, error) {

	if filter.MinConfidence != nil && (*filter.MinConfidence < 0 || *filter.MinConfidence > 100) {
		return nil, 0, errors2.NewClientError(errors2.CONFIDENCE_OUT_OF_RANGE, http.StatusBadRequest)
	}
	if filter.MaxConfidence != nil && (*filter.MaxConfidence < 0 || *filter.MaxConfidence > 100) {
		return nil, 0, errors2.NewClientError(errors2.CONFIDENCE_OUT_OF_RANGE, http.StatusBadRequest)
	}
	if filter.Status != "" && !isKnownMappingStatus(filter.Status) {
		return nil, 0, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MAPPING_VALIDATION.Code,
			Message:     errors2.MAPPING_VALIDATION.Message,
			Description: fmt.Sprintf("Unknown mapping status: %s", filter.Status),
		}, http.StatusBadRequest)
	}
	return store.ListMappings(orgHandle, filter, limit, offset)
}

// PatchMapping applies a partial update and returns the updated mapping. The
// identity tuple itself is immutable: re-pointing a source means registering a
// new mapping, which replaces the old one.
func (ms *MappingService) PatchMapping(orgHandle, mappingID string,
	patch model.MappingPatchRequest) (*model.Mapping, error) {

	existing, err := ms.GetMapping(orgHandle, mappingID)
	if err != nil {
		return nil, err
	}

	if patch.TargetID != nil {
		if *patch.TargetID == "" {
			return nil, validationError("target_id cannot be empty")
		}
		existing.TargetID = *patch.TargetID
	}
	if patch.ConfidenceScore != nil {
		if *patch.ConfidenceScore < 0 || *patch.ConfidenceScore > 100 {
			return nil, errors2.NewClientError(errors2.CONFIDENCE_OUT_OF_RANGE, http.StatusBadRequest)
		}
		existing.ConfidenceScore = *patch.ConfidenceScore
	}
	if patch.MatchReasons != nil {
		existing.MatchReasons = *patch.MatchReasons
	}
	if patch.Metadata != nil {
		existing.Metadata = *patch.Metadata
	}
	if patch.Status != nil {
		if !isKnownMappingStatus(*patch.Status) {
			return nil, validationError(fmt.Sprintf("Unknown mapping status: %s", *patch.Status))
		}
		existing.Status = *patch.Status
	}

	stored, err := store.UpsertMapping(*existing)
	if err != nil {
		return nil, err
	}

	resolveCache.Delete(resolveCacheKey(orgHandle, stored.SourceSystem, stored.SourceID,
		stored.TargetSystem, stored.TargetEntityType))
	return stored, nil
}

// DeleteMapping archives a mapping, or removes the row entirely when hard is
// set.
func (ms *MappingService) DeleteMapping(orgHandle, mappingID string, hard bool) error {

	existing, err := ms.GetMapping(orgHandle, mappingID)
	if err != nil {
		return err
	}
	if err := store.DeleteMapping(orgHandle, mappingID, hard); err != nil {
		return err
	}
	resolveCache.Delete(resolveCacheKey(orgHandle, existing.SourceSystem, existing.SourceID,
		existing.TargetSystem, existing.TargetEntityType))
	return nil
}

// MarkSynced records the instant a downstream sync last confirmed this
// mapping.
func (ms *MappingService) MarkSynced(orgHandle, mappingID string, syncedAt time.Time) error {

	return store.TouchSyncedAt(orgHandle, mappingID, syncedAt)
}

func validateMappingRequest(request model.MappingAPIRequest) error {

	required := []struct {
		field string
		value string
	}{
		{"source_system", request.SourceSystem},
		{"source_id", request.SourceID},
		{"source_entity_type", request.SourceEntityType},
		{"target_system", request.TargetSystem},
		{"target_id", request.TargetID},
		{"target_entity_type", request.TargetEntityType},
	}
	for _, item := range required {
		if item.value == "" {
			return validationError(fmt.Sprintf("%s is required", item.field))
		}
	}
	if request.ConfidenceScore < 0 || request.ConfidenceScore > 100 {
		return errors2.NewClientError(errors2.CONFIDENCE_OUT_OF_RANGE, http.StatusBadRequest)
	}
	return nil
}

func validationError(description string) error {

	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.MAPPING_VALIDATION.Code,
		Message:     errors2.MAPPING_VALIDATION.Message,
		Description: description,
	}, http.StatusBadRequest)
}

func isKnownMappingStatus(status string) bool {

	switch status {
	case constants.MappingStatusPending, constants.MappingStatusActive,
		constants.MappingStatusFailed, constants.MappingStatusArchived:
		return true
	}
	return false
}

func resolveCacheKey(orgHandle, sourceSystem, sourceID, targetSystem, targetEntityType string) string {

	return orgHandle + "|" + sourceSystem + "|" + sourceID + "|" + targetSystem + "|" + targetEntityType
}
