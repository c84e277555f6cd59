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

package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/aremko/integration-backbone/internal/audit/model"
	"github.com/aremko/integration-backbone/internal/audit/store"
	"github.com/aremko/integration-backbone/internal/system/log"
)

type AuditServiceInterface interface {
	Record(orgHandle string, event log.AuditEvent)
	ListRecords(orgHandle string, query model.AuditQuery) ([]model.AuditRecord, error)
}

// AuditService is the default implementation of the AuditServiceInterface.
type AuditService struct{}

// GetAuditService creates a new instance of AuditService.
func GetAuditService() AuditServiceInterface {

	return &AuditService{}
}

// Record writes the event to the structured log and appends it to the audit
// store. Store failures are logged and swallowed; an audit write must never
// fail the operation it describes.
func (as *AuditService) Record(orgHandle string, event log.AuditEvent) {

	logger := log.GetLogger()
	logger.Audit(event)

	data, _ := event.Data.(map[string]string)
	record := model.AuditRecord{
		EventID:       uuid.New().String(),
		OrgHandle:     orgHandle,
		RecordedAt:    time.Now().UTC(),
		InitiatorID:   event.InitiatorID,
		InitiatorType: event.InitiatorType,
		TargetID:      event.TargetID,
		TargetType:    event.TargetType,
		ActionID:      event.ActionID,
		Data:          data,
	}
	if err := store.InsertRecord(record); err != nil {
		logger.Warn("Failed to persist audit record", log.String("action_id", event.ActionID), log.Error(err))
	}
}

// ListRecords fetches audit records matching the query.
func (as *AuditService) ListRecords(orgHandle string, query model.AuditQuery) ([]model.AuditRecord, error) {

	return store.FindRecords(orgHandle, query)
}
