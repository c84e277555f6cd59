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

package scripts

// UpsertMapping enforces the single-current-truth invariant: one active row per
// (source_system, source_id, target_system, target_entity_type). Racing callers
// resolve to last-writer-wins inside the database, never a duplicate row.
var UpsertMapping = map[string]string{
	"postgres": `
		INSERT INTO entity_mappings
			(mapping_id, org_handle, source_system, source_id, source_entity_type,
			 target_system, target_id, target_entity_type,
			 confidence_score, match_reasons, metadata, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (org_handle, source_system, source_id, target_system, target_entity_type)
		DO UPDATE SET
			target_id        = EXCLUDED.target_id,
			confidence_score = EXCLUDED.confidence_score,
			match_reasons    = EXCLUDED.match_reasons,
			metadata         = EXCLUDED.metadata,
			status           = EXCLUDED.status,
			updated_at       = EXCLUDED.updated_at,
			deleted_at       = NULL
		RETURNING mapping_id, created_at, updated_at`,
}

var GetMappingByID = map[string]string{
	"postgres": `
		SELECT mapping_id, org_handle, source_system, source_id, source_entity_type,
		       target_system, target_id, target_entity_type,
		       confidence_score, match_reasons::text, metadata::text, status,
		       created_at, updated_at, last_synced_at
		FROM entity_mappings
		WHERE org_handle = $1 AND mapping_id = $2 AND deleted_at IS NULL`,
}

var GetMappingBySource = map[string]string{
	"postgres": `
		SELECT mapping_id, org_handle, source_system, source_id, source_entity_type,
		       target_system, target_id, target_entity_type,
		       confidence_score, match_reasons::text, metadata::text, status,
		       created_at, updated_at, last_synced_at
		FROM entity_mappings
		WHERE org_handle = $1 AND source_system = $2 AND source_id = $3
		  AND target_system = $4 AND target_entity_type = $5 AND deleted_at IS NULL`,
}

var GetMappingsBySourceAnyTarget = map[string]string{
	"postgres": `
		SELECT mapping_id, org_handle, source_system, source_id, source_entity_type,
		       target_system, target_id, target_entity_type,
		       confidence_score, match_reasons::text, metadata::text, status,
		       created_at, updated_at, last_synced_at
		FROM entity_mappings
		WHERE org_handle = $1 AND source_system = $2 AND source_id = $3 AND deleted_at IS NULL
		ORDER BY updated_at DESC`,
}

var GetMappingsByTarget = map[string]string{
	"postgres": `
		SELECT mapping_id, org_handle, source_system, source_id, source_entity_type,
		       target_system, target_id, target_entity_type,
		       confidence_score, match_reasons::text, metadata::text, status,
		       created_at, updated_at, last_synced_at
		FROM entity_mappings
		WHERE org_handle = $1 AND target_system = $2 AND target_id = $3 AND deleted_at IS NULL
		ORDER BY updated_at DESC`,
}

var SoftDeleteMapping = map[string]string{
	"postgres": `
		UPDATE entity_mappings SET deleted_at = $3, status = 'archived', updated_at = $3
		WHERE org_handle = $1 AND mapping_id = $2 AND deleted_at IS NULL`,
}

var HardDeleteMapping = map[string]string{
	"postgres": `DELETE FROM entity_mappings WHERE org_handle = $1 AND mapping_id = $2`,
}

var TouchMappingSyncedAt = map[string]string{
	"postgres": `
		UPDATE entity_mappings SET last_synced_at = $3
		WHERE org_handle = $1 AND mapping_id = $2 AND deleted_at IS NULL`,
}

var InsertJob = map[string]string{
	"postgres": `
		INSERT INTO sync_jobs
			(job_id, org_handle, job_type, source_system, target_system, entity_type,
			 status, total_records, processed_records, failed_records, config, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
}

var GetJobByID = map[string]string{
	"postgres": `
		SELECT job_id, org_handle, job_type, source_system, target_system, entity_type,
		       status, total_records, processed_records, failed_records,
		       config::text, result::text, error_message,
		       created_at, started_at, completed_at
		FROM sync_jobs
		WHERE org_handle = $1 AND job_id = $2`,
}

var UpdateJobStatus = map[string]string{
	"postgres": `
		UPDATE sync_jobs SET status = $3, error_message = $4
		WHERE org_handle = $1 AND job_id = $2`,
}

var UpdateJobProgress = map[string]string{
	"postgres": `
		UPDATE sync_jobs
		SET status = $3, total_records = $4, processed_records = $5, failed_records = $6,
		    result = $7, error_message = $8, started_at = $9, completed_at = $10
		WHERE org_handle = $1 AND job_id = $2`,
}
