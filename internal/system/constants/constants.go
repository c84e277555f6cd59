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

package constants

type contextKey string

const (
	// ApiBasePath is the fixed REST prefix after the tenant segment.
	ApiBasePath = "/api/v1"

	// DefaultOrgHandle is the tenant used when no /t/{org} prefix is present.
	DefaultOrgHandle = "aremko"

	// OrgContextKey carries the org handle through the request context.
	OrgContextKey contextKey = "org_handle"
)

// Known integration systems. The registry accepts arbitrary system tags; these
// are the ones the bundled connectors speak.
const (
	SystemLegacy    = "legacy"
	SystemAremkoDB  = "aremko_db"
	SystemAnalytics = "analytics"
	SystemStripe    = "stripe"
	SystemFlow      = "flow"
)

// Entity types exchanged between systems.
const (
	EntityTypeCustomer    = "customer"
	EntityTypePayment     = "payment"
	EntityTypeInvoice     = "invoice"
	EntityTypeTransaction = "transaction"
)

// Mapping lifecycle states.
const (
	MappingStatusPending  = "pending"
	MappingStatusActive   = "active"
	MappingStatusFailed   = "failed"
	MappingStatusArchived = "archived"
)

// Sync job lifecycle states.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)
