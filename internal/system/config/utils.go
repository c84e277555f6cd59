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

package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment configuration file, expands environment
// variable references and unmarshals it.
func LoadConfig(ibsHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(ibsHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	applyMatchingDefaults(&cfg.Matching)
	return &cfg, nil
}

// applyMatchingDefaults fills in the matching weights and thresholds that the
// deployment file left unset. Weights mirror the reliability of each identity
// signal in the legacy corpus: phone and document id are densely populated and
// rarely ambiguous, names collide across customers.
func applyMatchingDefaults(m *MatchingConfig) {
	if m.DefaultCountryCode == "" {
		m.DefaultCountryCode = "56"
	}
	if m.AutoLinkFloor == 0 {
		m.AutoLinkFloor = 85
	}
	if m.ReviewFloor == 0 {
		m.ReviewFloor = 50
	}
	if m.PhoneWeight == 0 {
		m.PhoneWeight = 0.90
	}
	if m.EmailWeight == 0 {
		m.EmailWeight = 0.85
	}
	if m.DocumentWeight == 0 {
		m.DocumentWeight = 0.95
	}
	if m.NameWeight == 0 {
		m.NameWeight = 0.70
	}
}
