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

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aremko/integration-backbone/internal/audit/model"
	"github.com/aremko/integration-backbone/internal/audit/provider"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/security"
	"github.com/aremko/integration-backbone/internal/system/utils"
)

type AuditHandler struct{}

func NewAuditHandler() *AuditHandler {

	return &AuditHandler{}
}

// ListAuditEvents handles querying the persisted audit trail.
func (ah *AuditHandler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "audit:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	queryParams := r.URL.Query()
	query := model.AuditQuery{
		ActionID:   queryParams.Get("action_id"),
		TargetType: queryParams.Get("target_type"),
		TargetID:   queryParams.Get("target_id"),
	}
	if raw := queryParams.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			utils.WriteErrorResponse(w, errors2.NewClientError(errors2.INVALID_PAGINATION, http.StatusBadRequest))
			return
		}
		query.Limit = limit
	}
	for param, dest := range map[string]**time.Time{"from": &query.From, "to": &query.To} {
		if raw := queryParams.Get(param); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				clientError := errors2.NewClientError(errors2.ErrorMessage{
					Code:        errors2.BAD_REQUEST.Code,
					Message:     errors2.BAD_REQUEST.Message,
					Description: param + " must be an RFC3339 timestamp",
				}, http.StatusBadRequest)
				utils.WriteErrorResponse(w, clientError)
				return
			}
			*dest = &parsed
		}
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	auditService := provider.NewAuditProvider().GetAuditService()
	records, err := auditService.ListRecords(orgHandle, query)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, records)
}
