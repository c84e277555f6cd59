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

	"github.com/aremko/integration-backbone/internal/mappings/model"
	"github.com/aremko/integration-backbone/internal/system/database/provider"
	"github.com/aremko/integration-backbone/internal/system/database/scripts"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
)

// UpsertMapping inserts or replaces the mapping for its
// (source_system, source_id, target_system, target_entity_type) tuple using a
// single atomic statement. Returns the stored mapping with its assigned id and
// timestamps.
func UpsertMapping(mapping model.Mapping) (*model.Mapping, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for registering mapping: %s:%s",
			mapping.SourceSystem, mapping.SourceID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	reasonsJSON, err := json.Marshal(mapping.MatchReasons)
	if err != nil {
		return nil, errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}
	metadataJSON, err := json.Marshal(mapping.Metadata)
	if err != nil {
		return nil, errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}

	now := time.Now().UTC()
	query := scripts.UpsertMapping[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query,
		mapping.MappingID, mapping.OrgHandle,
		mapping.SourceSystem, mapping.SourceID, mapping.SourceEntityType,
		mapping.TargetSystem, mapping.TargetID, mapping.TargetEntityType,
		mapping.ConfidenceScore, string(reasonsJSON), string(metadataJSON),
		mapping.Status, now)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while registering mapping: %s:%s -> %s:%s",
			mapping.SourceSystem, mapping.SourceID, mapping.TargetSystem, mapping.TargetID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.EXECUTE_QUERY.Code,
			Message:     errors2.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
	}

	stored := mapping
	if len(results) > 0 {
		row := results[0]
		stored.MappingID = row["mapping_id"].(string)
		stored.CreatedAt = row["created_at"].(time.Time)
		stored.UpdatedAt = row["updated_at"].(time.Time)
	}

	logger.Debug(fmt.Sprintf("Mapping registered for source %s:%s", mapping.SourceSystem, mapping.SourceID))
	return &stored, nil
}

// GetMappingByID fetches one mapping by its id, or nil when absent.
func GetMappingByID(orgHandle, mappingID string) (*model.Mapping, error) {

	rows, err := executeLookup(scripts.GetMappingByID, "mapping_id "+mappingID, orgHandle, mappingID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	mapping := mappingFromRow(rows[0])
	return &mapping, nil
}

// GetMappingBySource fetches the zero-or-one current mapping for a source
// record against the given target system and entity type.
func GetMappingBySource(orgHandle, sourceSystem, sourceID, targetSystem, targetEntityType string) (*model.Mapping, error) {

	key := fmt.Sprintf("source %s:%s", sourceSystem, sourceID)
	rows, err := executeLookup(scripts.GetMappingBySource, key,
		orgHandle, sourceSystem, sourceID, targetSystem, targetEntityType)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	mapping := mappingFromRow(rows[0])
	return &mapping, nil
}

// GetMappingsBySource fetches all current mappings for a source record across
// target systems.
func GetMappingsBySource(orgHandle, sourceSystem, sourceID string) ([]model.Mapping, error) {

	key := fmt.Sprintf("source %s:%s", sourceSystem, sourceID)
	rows, err := executeLookup(scripts.GetMappingsBySourceAnyTarget, key, orgHandle, sourceSystem, sourceID)
	if err != nil {
		return nil, err
	}
	return mappingsFromRows(rows), nil
}

// GetMappingsByTarget fetches the zero-or-more mappings pointing at a target
// record. A target may be linked from multiple sources, e.g. merged legacy
// records.
func GetMappingsByTarget(orgHandle, targetSystem, targetID string) ([]model.Mapping, error) {

	key := fmt.Sprintf("target %s:%s", targetSystem, targetID)
	rows, err := executeLookup(scripts.GetMappingsByTarget, key, orgHandle, targetSystem, targetID)
	if err != nil {
		return nil, err
	}
	return mappingsFromRows(rows), nil
}

// ListMappings returns a page of mappings matching the filter, plus the total
// match count for pagination.
func ListMappings(orgHandle string, filter model.ListFilter, limit, offset int) ([]model.Mapping, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get database client for listing mappings", log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	whereClauses := []string{"org_handle = $1", "deleted_at IS NULL"}
	args := []interface{}{orgHandle}
	argIndex := 2

	addClause := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, clause+" = $"+strconv.Itoa(argIndex))
		args = append(args, value)
		argIndex++
	}
	if filter.SourceSystem != "" {
		addClause("source_system", filter.SourceSystem)
	}
	if filter.TargetSystem != "" {
		addClause("target_system", filter.TargetSystem)
	}
	if filter.EntityType != "" {
		addClause("source_entity_type", filter.EntityType)
	}
	if filter.Status != "" {
		addClause("status", filter.Status)
	}
	if filter.MinConfidence != nil {
		whereClauses = append(whereClauses, "confidence_score >= $"+strconv.Itoa(argIndex))
		args = append(args, *filter.MinConfidence)
		argIndex++
	}
	if filter.MaxConfidence != nil {
		whereClauses = append(whereClauses, "confidence_score <= $"+strconv.Itoa(argIndex))
		args = append(args, *filter.MaxConfidence)
		argIndex++
	}

	where := strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*) AS total FROM entity_mappings WHERE " + where
	countRows, err := dbClient.ExecuteQuery(countQuery, args...)
	if err != nil {
		logger.Debug("Failed counting mappings", log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	total := 0
	if len(countRows) > 0 {
		total = int(countRows[0]["total"].(int64))
	}

	listQuery := `SELECT mapping_id, org_handle, source_system, source_id, source_entity_type,
		       target_system, target_id, target_entity_type,
		       confidence_score, match_reasons::text, metadata::text, status,
		       created_at, updated_at, last_synced_at
		FROM entity_mappings WHERE ` + where +
		" ORDER BY updated_at DESC, mapping_id LIMIT $" + strconv.Itoa(argIndex) +
		" OFFSET $" + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := dbClient.ExecuteQuery(listQuery, args...)
	if err != nil {
		logger.Debug("Failed listing mappings", log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}

	return mappingsFromRows(rows), total, nil
}

// DeleteMapping archives a mapping (soft delete) or removes the row when hard
// is set.
func DeleteMapping(orgHandle, mappingID string, hard bool) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get database client for deleting mapping", log.Error(err))
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	if hard {
		_, err = dbClient.ExecuteQuery(scripts.HardDeleteMapping[dbType], orgHandle, mappingID)
	} else {
		_, err = dbClient.ExecuteQuery(scripts.SoftDeleteMapping[dbType], orgHandle, mappingID, time.Now().UTC())
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while deleting mapping: %s", mappingID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.EXECUTE_QUERY.Code,
			Message:     errors2.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info("Mapping deleted: " + mappingID)
	return nil
}

// TouchSyncedAt records a successful downstream sync against the mapping.
func TouchSyncedAt(orgHandle, mappingID string, syncedAt time.Time) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.TouchMappingSyncedAt[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, orgHandle, mappingID, syncedAt)
	if err != nil {
		return errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	return nil
}

func executeLookup(queries map[string]string, describe string, args ...interface{}) ([]map[string]interface{}, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching mapping by " + describe
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := queries[provider.NewDBProvider().GetDBType()]
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed fetching mapping by " + describe
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MAPPING.Code,
			Message:     errors2.FETCH_MAPPING.Message,
			Description: errorMsg,
		}, err)
	}
	return rows, nil
}

func mappingsFromRows(rows []map[string]interface{}) []model.Mapping {
	mappings := make([]model.Mapping, 0, len(rows))
	for _, row := range rows {
		mappings = append(mappings, mappingFromRow(row))
	}
	return mappings
}

func mappingFromRow(row map[string]interface{}) model.Mapping {

	var mapping model.Mapping
	mapping.MappingID = row["mapping_id"].(string)
	mapping.OrgHandle = row["org_handle"].(string)
	mapping.SourceSystem = row["source_system"].(string)
	mapping.SourceID = row["source_id"].(string)
	mapping.SourceEntityType = row["source_entity_type"].(string)
	mapping.TargetSystem = row["target_system"].(string)
	mapping.TargetID = row["target_id"].(string)
	mapping.TargetEntityType = row["target_entity_type"].(string)
	mapping.ConfidenceScore = int(row["confidence_score"].(int64))
	mapping.Status = row["status"].(string)
	mapping.CreatedAt = row["created_at"].(time.Time)
	mapping.UpdatedAt = row["updated_at"].(time.Time)

	if raw, ok := row["match_reasons"].(string); ok && raw != "" {
		_ = json.Unmarshal([]byte(raw), &mapping.MatchReasons)
	}
	if raw, ok := row["metadata"].(string); ok && raw != "" {
		_ = json.Unmarshal([]byte(raw), &mapping.Metadata)
	}
	if syncedAt, ok := row["last_synced_at"].(time.Time); ok {
		mapping.LastSyncedAt = &syncedAt
	}

	return mapping
}
