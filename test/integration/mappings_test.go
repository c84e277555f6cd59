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

	"github.com/aremko/integration-backbone/internal/mappings/model"
	"github.com/aremko/integration-backbone/internal/mappings/service"
	"github.com/aremko/integration-backbone/internal/system/errors"
)

func registerRequest(sourceID, targetID string) model.MappingAPIRequest {
	return model.MappingAPIRequest{
		SourceSystem:     "legacy_pos",
		SourceID:         sourceID,
		SourceEntityType: "customer",
		TargetSystem:     "aremko_db",
		TargetID:         targetID,
		TargetEntityType: "customer",
		ConfidenceScore:  92,
		MatchReasons:     []string{"phone_exact"},
	}
}

func TestMappingLifecycle(t *testing.T) {
	svc := service.GetMappingService()

	mapping, err := svc.RegisterMapping(testOrg, registerRequest("cust-1", "100"))
	require.NoError(t, err)
	require.NotEmpty(t, mapping.MappingID)
	assert.Equal(t, "active", mapping.Status)
	assert.Equal(t, 92, mapping.ConfidenceScore)
	assert.False(t, mapping.CreatedAt.IsZero())

	resolved, err := svc.ResolveSource(testOrg, "legacy_pos", "cust-1", "aremko_db", "customer")
	require.NoError(t, err)
	assert.Equal(t, "100", resolved.TargetID)
	assert.Equal(t, []string{"phone_exact"}, resolved.MatchReasons)

	fetched, err := svc.GetMapping(testOrg, mapping.MappingID)
	require.NoError(t, err)
	assert.Equal(t, mapping.MappingID, fetched.MappingID)
}

func TestRegisterMapping_SameTupleReplacesNotDuplicates(t *testing.T) {
	svc := service.GetMappingService()

	first, err := svc.RegisterMapping(testOrg, registerRequest("cust-2", "200"))
	require.NoError(t, err)

	second, err := svc.RegisterMapping(testOrg, registerRequest("cust-2", "201"))
	require.NoError(t, err)

	// The row is replaced in place: same mapping id, original creation time.
	assert.Equal(t, first.MappingID, second.MappingID)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	resolved, err := svc.ResolveSource(testOrg, "legacy_pos", "cust-2", "aremko_db", "customer")
	require.NoError(t, err)
	assert.Equal(t, "201", resolved.TargetID)

	mappings, total, err := svc.ListMappings(testOrg, model.ListFilter{SourceSystem: "legacy_pos"}, 200, 0)
	require.NoError(t, err)
	count := 0
	for _, m := range mappings {
		if m.SourceID == "cust-2" {
			count++
		}
	}
	assert.Equal(t, 1, count, "expected exactly one row for the tuple, got %d of %d", count, total)
}

func TestRegisterMapping_ConfidenceBoundsInclusive(t *testing.T) {
	svc := service.GetMappingService()

	for i, confidence := range []int{0, 100} {
		request := registerRequest("cust-bounds", "300")
		request.SourceID = request.SourceID + string(rune('a'+i))
		request.ConfidenceScore = confidence

		mapping, err := svc.RegisterMapping(testOrg, request)
		require.NoError(t, err)
		assert.Equal(t, confidence, mapping.ConfidenceScore)
	}
}

func TestListMappings_ZeroConfidenceRangeIsFilterable(t *testing.T) {
	svc := service.GetMappingService()

	request := registerRequest("cust-zero", "310")
	request.ConfidenceScore = 0
	_, err := svc.RegisterMapping(testOrg, request)
	require.NoError(t, err)

	// A range of exactly [0,0] must select zero-confidence rows rather
	// than being read as "no filter".
	zero := 0
	filter := model.ListFilter{MinConfidence: &zero, MaxConfidence: &zero}
	mappings, total, err := svc.ListMappings(testOrg, filter, 50, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, 1)
	found := false
	for _, m := range mappings {
		assert.Equal(t, 0, m.ConfidenceScore)
		if m.SourceID == "cust-zero" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLookupsBySourceAndTarget(t *testing.T) {
	svc := service.GetMappingService()

	_, err := svc.RegisterMapping(testOrg, registerRequest("cust-3", "400"))
	require.NoError(t, err)

	crm := registerRequest("cust-3", "crm-55")
	crm.TargetSystem = "analytics"
	_, err = svc.RegisterMapping(testOrg, crm)
	require.NoError(t, err)

	bySource, err := svc.GetMappingsForSource(testOrg, "legacy_pos", "cust-3")
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	byTarget, err := svc.GetMappingsForTarget(testOrg, "aremko_db", "400")
	require.NoError(t, err)
	require.Len(t, byTarget, 1)
	assert.Equal(t, "cust-3", byTarget[0].SourceID)
}

func TestPatchMapping(t *testing.T) {
	svc := service.GetMappingService()

	mapping, err := svc.RegisterMapping(testOrg, registerRequest("cust-4", "500"))
	require.NoError(t, err)

	newStatus := "pending"
	newConfidence := 60
	patched, err := svc.PatchMapping(testOrg, mapping.MappingID, model.MappingPatchRequest{
		Status:          &newStatus,
		ConfidenceScore: &newConfidence,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", patched.Status)
	assert.Equal(t, 60, patched.ConfidenceScore)

	badStatus := "linked"
	_, err = svc.PatchMapping(testOrg, mapping.MappingID, model.MappingPatchRequest{Status: &badStatus})
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
}

func TestDeleteMapping_SoftDeleteAndResurrect(t *testing.T) {
	svc := service.GetMappingService()

	mapping, err := svc.RegisterMapping(testOrg, registerRequest("cust-5", "600"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMapping(testOrg, mapping.MappingID, false))

	_, err = svc.GetMapping(testOrg, mapping.MappingID)
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)

	_, err = svc.ResolveSource(testOrg, "legacy_pos", "cust-5", "aremko_db", "customer")
	require.Error(t, err)

	// Re-registering the same tuple revives the archived row.
	revived, err := svc.RegisterMapping(testOrg, registerRequest("cust-5", "601"))
	require.NoError(t, err)
	assert.Equal(t, mapping.MappingID, revived.MappingID)

	resolved, err := svc.ResolveSource(testOrg, "legacy_pos", "cust-5", "aremko_db", "customer")
	require.NoError(t, err)
	assert.Equal(t, "601", resolved.TargetID)
}

func TestMarkSynced(t *testing.T) {
	svc := service.GetMappingService()

	mapping, err := svc.RegisterMapping(testOrg, registerRequest("cust-6", "700"))
	require.NoError(t, err)
	require.Nil(t, mapping.LastSyncedAt)

	syncedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, svc.MarkSynced(testOrg, mapping.MappingID, syncedAt))

	fetched, err := svc.GetMapping(testOrg, mapping.MappingID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LastSyncedAt)
	assert.WithinDuration(t, syncedAt, *fetched.LastSyncedAt, time.Second)
}
