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

// Package similarity computes a weighted confidence score between two
// candidate entity records built from normalized fields.
package similarity

import (
	"math"
	"sort"

	"github.com/aremko/integration-backbone/internal/normalize"
)

// Field identifies a normalized field kind carried by a candidate.
type Field string

const (
	FieldPhone    Field = "phone"
	FieldEmail    Field = "email"
	FieldDocument Field = "document"
	FieldName     Field = "name"
)

// Candidate is the ephemeral projection of one source or target record used
// during a matching pass: normalized field values plus the raw record it came
// from. Never persisted.
type Candidate struct {
	ID     string
	Fields map[Field]string
	Name   normalize.Name
	Raw    map[string]string
}

// HasField reports whether the candidate carries a non-empty normalized value
// for the given field.
func (c Candidate) HasField(f Field) bool {
	if f == FieldName {
		return len(c.Name.Tokens) > 0
	}
	v, ok := c.Fields[f]
	return ok && v != ""
}

// MatchResult is the outcome of scoring one candidate pair.
type MatchResult struct {
	Confidence int
	Reasons    []string
}

// Config carries the field weights and the reason threshold. The weights
// reflect how reliable each field is as an identity signal: legacy phone data
// is densely populated and rarely ambiguous, names collide across customers.
type Config struct {
	Weights map[Field]float64

	// ReasonFloor is the minimum field similarity that earns a reason tag.
	ReasonFloor float64

	// Distance is the fuzzy comparator for name fields.
	Distance StringDistance
}

// DefaultReasonFloor marks a field as a stated match reason.
const DefaultReasonFloor = 0.85

// NewConfig builds a scoring config with the given per-field weights and the
// default Levenshtein comparator.
func NewConfig(weights map[Field]float64) Config {
	return Config{
		Weights:     weights,
		ReasonFloor: DefaultReasonFloor,
		Distance:    LevenshteinDistance{},
	}
}

type fieldContribution struct {
	reason       string
	contribution float64
}

// Score computes the weighted confidence for a candidate pair. Only fields
// present in both records participate: a field missing on either side is
// excluded from numerator and denominator alike, so sparse legacy records are
// scored on the signals actually available. Score(a,b) equals Score(b,a).
func Score(a, b Candidate, cfg Config) MatchResult {
	distance := cfg.Distance
	if distance == nil {
		distance = LevenshteinDistance{}
	}
	reasonFloor := cfg.ReasonFloor
	if reasonFloor == 0 {
		reasonFloor = DefaultReasonFloor
	}

	var weightTotal, simTotal float64
	var contributions []fieldContribution

	for field, weight := range cfg.Weights {
		if weight <= 0 || !a.HasField(field) || !b.HasField(field) {
			continue
		}

		var sim float64
		var reason string
		switch field {
		case FieldName:
			sim = nameSimilarity(a.Name, b.Name, distance)
			if a.Name.Full == b.Name.Full {
				reason = "name_exact"
			} else {
				reason = "name_fuzzy"
			}
		default:
			if a.Fields[field] == b.Fields[field] {
				sim = 1.0
			}
			reason = string(field) + "_exact"
		}

		weightTotal += weight
		simTotal += weight * sim

		if sim >= reasonFloor {
			contributions = append(contributions, fieldContribution{
				reason:       reason,
				contribution: weight * sim,
			})
		}
	}

	// No shared fields: similarity is undefined, reported as zero confidence
	// rather than a division by zero.
	if weightTotal == 0 {
		return MatchResult{Confidence: 0, Reasons: []string{}}
	}

	confidence := int(math.Round(simTotal / weightTotal * 100))
	if confidence > 100 {
		confidence = 100
	}

	// Reasons ordered by the weight they contributed, for explainability.
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].contribution != contributions[j].contribution {
			return contributions[i].contribution > contributions[j].contribution
		}
		return contributions[i].reason < contributions[j].reason
	})
	reasons := make([]string, len(contributions))
	for i, c := range contributions {
		reasons[i] = c.reason
	}

	return MatchResult{Confidence: confidence, Reasons: reasons}
}

// nameSimilarity tolerates both token reordering and minor misspellings by
// taking the best of the token-set overlap and the edit ratios on the joined
// name (as written and with tokens in lexical order).
func nameSimilarity(a, b normalize.Name, distance StringDistance) float64 {
	best := tokenSetRatio(a.Tokens, b.Tokens)

	if r := distance.Ratio(a.Full, b.Full); r > best {
		best = r
	}
	if r := distance.Ratio(sortedTokens(a.Tokens), sortedTokens(b.Tokens)); r > best {
		best = r
	}
	return best
}
