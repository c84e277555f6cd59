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

package model

import "time"

// Mapping is a stored, confidence-scored correspondence between one source
// entity and one target entity. At most one active mapping exists per
// (source_system, source_id, target_system, target_entity_type); superseded
// mappings are replaced in place so callers always see a single current truth.
type Mapping struct {
	MappingID        string            `json:"mapping_id"`
	OrgHandle        string            `json:"org_handle"`
	SourceSystem     string            `json:"source_system"`
	SourceID         string            `json:"source_id"`
	SourceEntityType string            `json:"source_entity_type"`
	TargetSystem     string            `json:"target_system"`
	TargetID         string            `json:"target_id"`
	TargetEntityType string            `json:"target_entity_type"`
	ConfidenceScore  int               `json:"confidence_score"`
	MatchReasons     []string          `json:"match_reasons"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	LastSyncedAt     *time.Time        `json:"last_synced_at,omitempty"`
}

// MappingAPIRequest is the register-mapping request body. Confidence is
// caller-asserted; direct registration is the manual, known-correct path.
type MappingAPIRequest struct {
	SourceSystem     string            `json:"source_system"`
	SourceID         string            `json:"source_id"`
	SourceEntityType string            `json:"source_entity_type"`
	TargetSystem     string            `json:"target_system"`
	TargetID         string            `json:"target_id"`
	TargetEntityType string            `json:"target_entity_type"`
	ConfidenceScore  int               `json:"confidence_score"`
	MatchReasons     []string          `json:"match_reasons,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// MappingPatchRequest carries a partial update. Nil fields are left untouched.
type MappingPatchRequest struct {
	TargetID        *string            `json:"target_id,omitempty"`
	ConfidenceScore *int               `json:"confidence_score,omitempty"`
	MatchReasons    *[]string          `json:"match_reasons,omitempty"`
	Metadata        *map[string]string `json:"metadata,omitempty"`
	Status          *string            `json:"status,omitempty"`
}

// ListFilter narrows a mapping listing. Empty strings and nil bounds mean
// "no filter"; the confidence bounds are pointers so a range of exactly
// [0,0] remains expressible.
type ListFilter struct {
	SourceSystem  string
	TargetSystem  string
	EntityType    string
	Status        string
	MinConfidence *int
	MaxConfidence *int
}
