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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/system/errors"
)

func TestValidateRequest(t *testing.T) {
	valid := baseRequest()
	require.NoError(t, validateRequest(valid))

	tests := []struct {
		name   string
		mutate func(*model.ReconciliationRequest)
	}{
		{"missing source_system", func(r *model.ReconciliationRequest) { r.SourceSystem = "" }},
		{"missing target_system", func(r *model.ReconciliationRequest) { r.TargetSystem = "" }},
		{"missing entity_type", func(r *model.ReconciliationRequest) { r.EntityType = "" }},
		{"empty source fields", func(r *model.ReconciliationRequest) { r.SourceFields = model.FieldMapping{} }},
		{"empty target fields", func(r *model.ReconciliationRequest) { r.TargetFields = model.FieldMapping{} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := baseRequest()
			tc.mutate(&request)

			err := validateRequest(request)
			require.Error(t, err)
			clientErr, ok := err.(*errors.ClientError)
			require.True(t, ok, "expected a ClientError")
			assert.Equal(t, errors.INVALID_FIELD_MAPPING.Code, clientErr.Code)
		})
	}
}

func TestResolveThresholds_DefaultsFromConfig(t *testing.T) {
	req := baseRequest()

	thresholds, err := resolveThresholds(req, testMatchingConfig())
	require.NoError(t, err)
	assert.Equal(t, model.Thresholds{AutoLink: 85, Review: 50}, thresholds)
}

func TestResolveThresholds_RequestOverridesDefaults(t *testing.T) {
	req := baseRequest()
	req.Thresholds = &model.Thresholds{AutoLink: 95, Review: 70}

	thresholds, err := resolveThresholds(req, testMatchingConfig())
	require.NoError(t, err)
	assert.Equal(t, model.Thresholds{AutoLink: 95, Review: 70}, thresholds)
}

func TestResolveThresholds_InvalidRejected(t *testing.T) {
	invalid := []model.Thresholds{
		{AutoLink: 40, Review: 60}, // inverted
		{AutoLink: 120, Review: 50},
		{AutoLink: 80, Review: -1},
	}
	for _, thresholds := range invalid {
		req := baseRequest()
		value := thresholds
		req.Thresholds = &value

		_, err := resolveThresholds(req, testMatchingConfig())
		require.Error(t, err)
		clientErr, ok := err.(*errors.ClientError)
		require.True(t, ok)
		assert.Equal(t, errors.INVALID_THRESHOLDS.Code, clientErr.Code)
	}
}
