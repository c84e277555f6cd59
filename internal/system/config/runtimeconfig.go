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

import "sync"

// IBSRuntime holds the runtime configuration for the integration backbone server.
type IBSRuntime struct {
	IBSHome string `yaml:"ibs_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *IBSRuntime
	once          sync.Once
)

// InitializeIBSRuntime initializes the IBSRuntime configuration.
func InitializeIBSRuntime(ibsHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &IBSRuntime{
			IBSHome: ibsHome,
			Config:  *config,
		}
	})

	return nil
}

// GetIBSRuntime returns the IBSRuntime configuration.
func GetIBSRuntime() *IBSRuntime {

	if runtimeConfig == nil {
		panic("IBSRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideIBSRuntime replaces the runtime configuration. Used by tests.
func OverrideIBSRuntime(conf Config) {
	runtimeConfig = &IBSRuntime{
		Config: conf,
	}
}
