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

	"github.com/aremko/integration-backbone/internal/jobs/handler"
)

type JobsService struct {
	jobHandler *handler.JobHandler
}

func NewJobsService() *JobsService {
	return &JobsService{
		jobHandler: handler.NewJobHandler(),
	}
}

// Route handles all sync job endpoints.
func (s *JobsService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")

	switch {
	case method == http.MethodPost && path == "/jobs":
		s.jobHandler.TriggerJob(w, r)

	case method == http.MethodGet && path == "/jobs":
		s.jobHandler.ListJobs(w, r)

	// /jobs/{id}/cancel
	case method == http.MethodPost && len(segments) == 3 && segments[2] == "cancel":
		s.jobHandler.CancelJob(w, r, segments[1])

	case method == http.MethodGet && len(segments) == 2:
		s.jobHandler.GetJob(w, r, segments[1])

	default:
		http.NotFound(w, r)
	}
}
