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

package model

import "time"

// AuditRecord is one persisted audit trail entry. The same event also goes to
// the structured log; the store copy is the queryable history.
type AuditRecord struct {
	EventID       string            `bson:"event_id" json:"event_id"`
	OrgHandle     string            `bson:"org_handle" json:"org_handle"`
	RecordedAt    time.Time         `bson:"recorded_at" json:"recorded_at"`
	InitiatorID   string            `bson:"initiator_id" json:"initiator_id"`
	InitiatorType string            `bson:"initiator_type" json:"initiator_type"`
	TargetID      string            `bson:"target_id" json:"target_id"`
	TargetType    string            `bson:"target_type" json:"target_type"`
	ActionID      string            `bson:"action_id" json:"action_id"`
	Data          map[string]string `bson:"data,omitempty" json:"data,omitempty"`
}

// AuditQuery narrows an audit listing. Zero values mean "no filter".
type AuditQuery struct {
	ActionID   string
	TargetType string
	TargetID   string
	From       *time.Time
	To         *time.Time
	Limit      int
}
