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

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "bare national mobile",
			raw:      "987654321",
			expected: "+56987654321",
			ok:       true,
		},
		{
			name:     "already has country code",
			raw:      "+56987654321",
			expected: "+56987654321",
			ok:       true,
		},
		{
			name:     "formatted with spaces and dashes",
			raw:      "+56 9 8765-4321",
			expected: "+56987654321",
			ok:       true,
		},
		{
			name:     "country code without plus",
			raw:      "56987654321",
			expected: "+56987654321",
			ok:       true,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
		{
			name: "too short",
			raw:  "12345",
			ok:   false,
		},
		{
			name: "landline shape not recognized",
			raw:  "221234567",
			ok:   false,
		},
		{
			name: "letters only",
			raw:  "no phone",
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Phone(tc.raw, "56")
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPhone_EquivalentFormatsCompareEqual(t *testing.T) {
	a, okA := Phone("987654321", "56")
	b, okB := Phone("+56 987 654 321", "56")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{name: "simple", raw: "Maria@Example.COM", expected: "maria@example.com", ok: true},
		{name: "surrounding whitespace", raw: "  jose@mail.cl ", expected: "jose@mail.cl", ok: true},
		{name: "missing at", raw: "maria.example.com", ok: false},
		{name: "missing domain dot", raw: "maria@localhost", ok: false},
		{name: "double at", raw: "a@@b.cl", ok: false},
		{name: "empty local part", raw: "@example.com", ok: false},
		{name: "empty", raw: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Email(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPersonName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		tokens   []string
		ok       bool
	}{
		{
			name:     "lowercase legacy name",
			raw:      "sonia silva",
			expected: "Sonia Silva",
			tokens:   []string{"Sonia", "Silva"},
			ok:       true,
		},
		{
			name:     "embedded phone number dropped",
			raw:      "sonia silva 984280796",
			expected: "Sonia Silva",
			tokens:   []string{"Sonia", "Silva"},
			ok:       true,
		},
		{
			name:     "accented characters preserved",
			raw:      "maría GONZÁLEZ",
			expected: "María González",
			tokens:   []string{"María", "González"},
			ok:       true,
		},
		{
			name: "only digits",
			raw:  "987654321",
			ok:   false,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PersonName(tc.raw)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got.Full)
			assert.Equal(t, tc.tokens, got.Tokens)
		})
	}
}

func TestLocation(t *testing.T) {
	city, region, ok := Location("Puerto Varas, Los Lagos")
	require.True(t, ok)
	assert.Equal(t, "Puerto Varas", city)
	assert.Equal(t, "Los Lagos", region)

	city, region, ok = Location("Santiago")
	require.True(t, ok)
	assert.Equal(t, "Santiago", city)
	assert.Equal(t, "", region)

	_, _, ok = Location("   ")
	assert.False(t, ok)
}

func TestDocumentID(t *testing.T) {
	doc, ok := DocumentID("12.345.678-k")
	require.True(t, ok)
	assert.Equal(t, "12345678-K", doc)

	_, ok = DocumentID("")
	assert.False(t, ok)
}

func TestNormalizersArePure(t *testing.T) {
	// Same input twice must produce identical output.
	for i := 0; i < 2; i++ {
		p, _ := Phone("98765 4321", "56")
		assert.Equal(t, "+56987654321", p)

		n, _ := PersonName("maria gonzalez")
		assert.Equal(t, "Maria Gonzalez", n.Full)
	}
}
