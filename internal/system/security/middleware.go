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

package security

import (
	"net/http"
	"strings"

	"github.com/aremko/integration-backbone/internal/system/authn"
	"github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
)

// AuthnAndAuthz performs authentication and authorization for the given HTTP
// request and required scope.
func AuthnAndAuthz(r *http.Request, requiredScope string) error {

	token := authn.BearerToken(r)
	if token == "" {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized)
	}

	claims, err := authn.ValidateAuthenticationAndReturnClaims(token)
	if err != nil {
		return err
	}

	if requiredScope == "" {
		return nil
	}

	if !hasScope(claims, requiredScope) {
		log.GetLogger().Debug("Token is missing the required scope.",
			log.String("scope", requiredScope))
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.FORBIDDEN.Code,
			Message:     errors.FORBIDDEN.Message,
			Description: errors.FORBIDDEN.Description,
		}, http.StatusForbidden)
	}

	return nil
}

// hasScope checks the space-separated scope claim for the required entry.
func hasScope(claims map[string]interface{}, required string) bool {

	raw, ok := claims["scope"]
	if !ok {
		return false
	}

	switch scopes := raw.(type) {
	case string:
		for _, s := range strings.Fields(scopes) {
			if s == required {
				return true
			}
		}
	case []interface{}:
		for _, v := range scopes {
			if s, ok := v.(string); ok && s == required {
				return true
			}
		}
	}
	return false
}
