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

// Package normalize canonicalizes raw identifier values from heterogeneous
// source systems so that equivalent real-world values compare equal. All
// functions are pure: same input, same output, no I/O. A value that cannot be
// normalized yields ok=false, never an error; absence of a field just removes
// that signal from matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Phone canonicalizes a raw phone number to "+<country><national>" form.
// All non-digit characters are stripped. A bare national number (nine digits
// starting with 9, the Chilean mobile shape) gets the default country code
// prefixed; a number already carrying the country code keeps it.
func Phone(raw, defaultCountryCode string) (string, bool) {
	digits := keepDigits(raw)
	if digits == "" || defaultCountryCode == "" {
		return "", false
	}

	// National mobile number without country prefix.
	if len(digits) == 9 && digits[0] == '9' {
		return "+" + defaultCountryCode + digits, true
	}

	// Number already carrying the country code.
	if strings.HasPrefix(digits, defaultCountryCode) && len(digits) == len(defaultCountryCode)+9 {
		return "+" + digits, true
	}

	return "", false
}

// Email trims, lowercases and validates the basic local@domain shape. The
// domain must contain a dot. Anything else normalizes to absent.
func Email(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", false
	}

	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return "", false
	}
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" || !strings.Contains(domain, ".") {
		return "", false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", false
	}

	return email, true
}

// Name is the canonical projection of a free-text person name: a title-cased
// full string plus the token set used for order-insensitive comparison.
type Name struct {
	Full   string
	Tokens []string
}

// PersonName canonicalizes a free-text name. Purely numeric tokens are dropped
// because the legacy export embeds phone numbers in the name column
// ("sonia silva 984280796"). Remaining tokens are title-cased and rejoined.
func PersonName(raw string) (Name, bool) {
	var tokens []string
	for _, tok := range strings.Fields(raw) {
		if isNumeric(tok) {
			continue
		}
		tokens = append(tokens, titleCaser.String(strings.ToLower(tok)))
	}
	if len(tokens) == 0 {
		return Name{}, false
	}

	return Name{
		Full:   strings.Join(tokens, " "),
		Tokens: tokens,
	}, true
}

// Location splits a "City, Region" pattern into its parts. Without a comma the
// whole string is the city and the region is unknown.
func Location(raw string) (city, region string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", false
	}

	if idx := strings.Index(trimmed, ","); idx >= 0 {
		city = strings.TrimSpace(trimmed[:idx])
		region = strings.TrimSpace(trimmed[idx+1:])
	} else {
		city = trimmed
	}
	if city == "" {
		return "", "", false
	}
	return city, region, true
}

// DocumentID canonicalizes an identity document number (RUT style): uppercase,
// dots and spaces stripped, the verifier hyphen kept.
func DocumentID(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if r == '.' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	doc := b.String()
	if doc == "" {
		return "", false
	}
	return doc, true
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
