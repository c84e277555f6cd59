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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aremko/integration-backbone/internal/system/config"
	"github.com/aremko/integration-backbone/internal/system/database/provider"
	"github.com/aremko/integration-backbone/internal/system/log"
	"github.com/aremko/integration-backbone/test/setup"
)

const testOrg = "aremko"

func TestMain(m *testing.M) {
	ctx := context.Background()
	os.Setenv("TEST_MODE", "true")

	conf := config.Config{
		Log: config.LogConfig{
			LogLevel: "ERROR",
		},
		Matching: config.MatchingConfig{
			DefaultCountryCode: "56",
			AutoLinkFloor:      85,
			ReviewFloor:        50,
			PhoneWeight:        0.90,
			EmailWeight:        0.85,
			DocumentWeight:     0.95,
			NameWeight:         0.70,
		},
	}
	config.OverrideIBSRuntime(conf)
	_ = log.Init("ERROR")

	pg, err := setup.SetupTestPostgres(ctx)
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}

	provider.SetTestDB(pg.DB)
	if err := setup.ApplySchema(pg.DB, filepath.Join("..", "..", "dbscripts", "postgres.sql")); err != nil {
		fmt.Println("Failed to apply schema:", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = pg.Container.Terminate(ctx)
	os.Exit(code)
}
