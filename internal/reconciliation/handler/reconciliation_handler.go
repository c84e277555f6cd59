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
	"encoding/json"
	"net/http"

	"github.com/aremko/integration-backbone/internal/reconciliation/model"
	"github.com/aremko/integration-backbone/internal/reconciliation/provider"
	auditprovider "github.com/aremko/integration-backbone/internal/audit/provider"
	"github.com/aremko/integration-backbone/internal/system/authn"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
	"github.com/aremko/integration-backbone/internal/system/security"
	"github.com/aremko/integration-backbone/internal/system/utils"
)

type ReconciliationHandler struct{}

func NewReconciliationHandler() *ReconciliationHandler {

	return &ReconciliationHandler{}
}

// Reconcile handles a synchronous reconciliation run. The request carries
// both record sets inline; long-running batch work goes through the jobs API
// instead.
func (rh *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "reconciliation:run")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var request model.ReconciliationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "reconciliation request"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	orgHandle := utils.ExtractOrgHandleFromRequest(r)
	reconciliationService := provider.NewReconciliationProvider().GetReconciliationService()
	report, err := reconciliationService.Reconcile(r.Context(), orgHandle, request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	auditService := auditprovider.NewAuditProvider().GetAuditService()
	auditService.Record(orgHandle, log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      report.RunID,
		TargetType:    log.TargetTypeReconciliation,
		ActionID:      log.ActionRunReconciliation,
		Data: map[string]string{
			"org_handle":    orgHandle,
			"source_system": request.SourceSystem,
			"target_system": request.TargetSystem,
			"status":        report.Status,
		},
	})

	utils.WriteJSONResponse(w, http.StatusOK, report)
}
