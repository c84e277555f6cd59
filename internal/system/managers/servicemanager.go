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

package managers

import (
	"net/http"
	"strings"

	"github.com/aremko/integration-backbone/internal/system/constants"
	"github.com/aremko/integration-backbone/internal/system/services"
	"github.com/aremko/integration-backbone/internal/system/utils"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	utils.RewriteToDefaultOrg(apiBasePath, sm.mux, constants.DefaultOrgHandle)

	mappingsService := services.NewMappingsService()
	reconciliationService := services.NewReconciliationService()
	jobsService := services.NewJobsService()
	auditService := services.NewAuditService()

	// Single org dispatcher for all services
	utils.MountTenantDispatcher(sm.mux, apiBasePath, func(w http.ResponseWriter, r *http.Request) {
		// Internal path after org and base path stripping
		path := strings.TrimSuffix(r.URL.Path, "/")

		// Dispatch to correct service based on path
		switch {
		case strings.HasPrefix(path, "/mappings"):
			mappingsService.Route(w, r)
		case strings.HasPrefix(path, "/reconciliations"):
			reconciliationService.Route(w, r)
		case strings.HasPrefix(path, "/jobs"):
			jobsService.Route(w, r)
		case strings.HasPrefix(path, "/audit-events"):
			auditService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	// Liveness endpoints live outside the org-scoped API surface.
	healthService := services.NewHealthService()
	sm.mux.HandleFunc("/health", healthService.Route)
	sm.mux.HandleFunc("/ready", healthService.Route)

	return nil
}
