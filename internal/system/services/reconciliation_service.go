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

	"github.com/aremko/integration-backbone/internal/reconciliation/handler"
)

type ReconciliationService struct {
	reconciliationHandler *handler.ReconciliationHandler
}

func NewReconciliationService() *ReconciliationService {
	return &ReconciliationService{
		reconciliationHandler: handler.NewReconciliationHandler(),
	}
}

// Route handles the synchronous reconciliation endpoint.
func (s *ReconciliationService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodPost && path == "/reconciliations":
		s.reconciliationHandler.Reconcile(w, r)

	default:
		http.NotFound(w, r)
	}
}
