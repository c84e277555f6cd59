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

package services

import (
	"net/http"
	"strings"

	"github.com/aremko/integration-backbone/internal/mappings/handler"
)

type MappingsService struct {
	mappingHandler *handler.MappingHandler
}

func NewMappingsService() *MappingsService {
	return &MappingsService{
		mappingHandler: handler.NewMappingHandler(),
	}
}

// Route handles all mapping registry endpoints.
func (s *MappingsService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")

	switch {
	case method == http.MethodPost && path == "/mappings":
		s.mappingHandler.RegisterMapping(w, r)

	case method == http.MethodGet && path == "/mappings":
		s.mappingHandler.ListMappings(w, r)

	case method == http.MethodGet && path == "/mappings/resolve":
		s.mappingHandler.ResolveSource(w, r)

	// /mappings/source/{system}/{id}
	case method == http.MethodGet && len(segments) == 4 && segments[1] == "source":
		s.mappingHandler.GetMappingsForSource(w, r, segments[2], segments[3])

	// /mappings/target/{system}/{id}
	case method == http.MethodGet && len(segments) == 4 && segments[1] == "target":
		s.mappingHandler.GetMappingsForTarget(w, r, segments[2], segments[3])

	// /mappings/{id}/synced
	case method == http.MethodPost && len(segments) == 3 && segments[2] == "synced":
		s.mappingHandler.MarkSynced(w, r, segments[1])

	case method == http.MethodGet && len(segments) == 2:
		s.mappingHandler.GetMapping(w, r, segments[1])

	case method == http.MethodPatch && len(segments) == 2:
		s.mappingHandler.PatchMapping(w, r, segments[1])

	case method == http.MethodDelete && len(segments) == 2:
		s.mappingHandler.DeleteMapping(w, r, segments[1])

	default:
		http.NotFound(w, r)
	}
}
