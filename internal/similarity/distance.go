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

package similarity

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// StringDistance scores the similarity of two strings in [0,1]. The scorer
// only depends on this interface so stricter algorithms (phonetic matching,
// Jaro-Winkler) can be substituted per field without touching the
// orchestration logic.
type StringDistance interface {
	Ratio(a, b string) float64
}

// LevenshteinDistance is the default StringDistance: one minus the edit
// distance over the longer rune length.
type LevenshteinDistance struct{}

func (LevenshteinDistance) Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// tokenSetRatio is the share of shared tokens over the union of tokens.
// Order-insensitive, so "González María" and "María González" score 1.0.
func tokenSetRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	union := make(map[string]struct{}, len(a)+len(b))
	setA := make(map[string]struct{}, len(a))
	for _, tok := range a {
		setA[tok] = struct{}{}
		union[tok] = struct{}{}
	}
	shared := 0
	for _, tok := range b {
		if _, ok := union[tok]; !ok {
			union[tok] = struct{}{}
			continue
		}
		if _, ok := setA[tok]; ok {
			shared++
			// Count each shared token once even when repeated.
			delete(setA, tok)
		}
	}
	return float64(shared) / float64(len(union))
}

// sortedTokens returns a copy of the tokens joined in lexical order, pinning
// down word reordering before the edit-distance comparison.
func sortedTokens(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
