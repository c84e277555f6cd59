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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfidenceParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    *int
		wantErr bool
	}{
		{raw: "", want: nil},
		// "0" is a real bound, distinct from an absent parameter.
		{raw: "0", want: intPtr(0)},
		{raw: "100", want: intPtr(100)},
		{raw: "42", want: intPtr(42)},
		{raw: "-1", wantErr: true},
		{raw: "101", wantErr: true},
		{raw: "many", wantErr: true},
	}
	for _, tc := range tests {
		t.Run("value "+tc.raw, func(t *testing.T) {
			got, err := parseConfidenceParam(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func intPtr(v int) *int {
	return &v
}
