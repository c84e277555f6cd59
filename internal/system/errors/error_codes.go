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

package errors

const errorPrefix = "IBS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	REGISTER_MAPPING = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while registering mapping.",
	}

	FETCH_MAPPING = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while fetching mapping(s).",
	}

	UPDATE_MAPPING = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while updating mapping.",
	}

	DELETE_MAPPING = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while deleting mapping.",
	}

	ADD_JOB = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while creating sync job.",
	}

	FETCH_JOB = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while fetching sync job(s).",
	}

	UPDATE_JOB = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while updating sync job.",
	}

	RECONCILIATION_FAILED = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Reconciliation run failed.",
	}

	ADD_AUDIT_EVENT = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while recording audit event.",
	}

	FETCH_AUDIT_EVENTS = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while fetching audit events.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while un-marshalling JSON.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Parsing token failed.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	MAPPING_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Mapping not found.",
		Description: "No mapping record found for the given identifier.",
	}

	MAPPING_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Mapping validation failed.",
	}

	CONFIDENCE_OUT_OF_RANGE = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Confidence score out of range.",
		Description: "Confidence score must be an integer between 0 and 100.",
	}

	JOB_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Sync job not found.",
		Description: "No sync job record found for the given job_id.",
	}

	JOB_NOT_CANCELLABLE = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Sync job cannot be cancelled in its current state.",
	}

	INVALID_THRESHOLDS = ErrorMessage{
		Code:        errorPrefix + "11008",
		Message:     "Invalid reconciliation thresholds.",
		Description: "The auto-link floor must be greater than or equal to the review floor, both within 0-100.",
	}

	INVALID_FIELD_MAPPING = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Invalid field mapping configuration.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11010",
		Message:     "Forbidden",
		Description: "You do not have permission to access this resource.",
	}

	INVALID_PAGINATION = ErrorMessage{
		Code:    errorPrefix + "11011",
		Message: "Invalid pagination parameters.",
	}
)
