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

package authn

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aremko/integration-backbone/internal/system/config"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
)

// ValidateAuthenticationAndReturnClaims validates a bearer token and returns its claims.
func ValidateAuthenticationAndReturnClaims(token string) (jwt.MapClaims, error) {

	logger := log.GetLogger()

	if strings.Count(token, ".") != 2 {
		logger.Debug("Expecting a JWT token but received an opaque token.")
		return nil, unauthorizedError()
	}

	cfg := config.GetIBSRuntime().Config
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors2.NewServerError(errors2.PARSING_ERROR, nil)
		}
		return []byte(cfg.Auth.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		logger.Debug("Token signature or expiry validation failed.", log.Error(err))
		return nil, unauthorizedError()
	}

	if !validateClaims(cfg.Auth.TokenAudience, claims) {
		return nil, unauthorizedError()
	}

	return claims, nil
}

// GetUserIDFromRequest extracts the subject claim from the bearer token, if any.
// Used only for audit attribution, so signature failures degrade to empty.
func GetUserIDFromRequest(r *http.Request) string {

	token := BearerToken(r)
	if token == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(token, claims)
	if err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

// BearerToken returns the bearer token from the Authorization header, or empty.
func BearerToken(r *http.Request) string {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// validateClaims ensures the token carries the expected audience when one is configured.
func validateClaims(expectedAudience string, claims jwt.MapClaims) bool {

	if expectedAudience == "" {
		return true
	}

	logger := log.GetLogger()
	audiences, err := claims.GetAudience()
	if err != nil {
		logger.Debug("Token does not have a readable audience claim.", log.Error(err))
		return false
	}
	for _, aud := range audiences {
		if aud == expectedAudience {
			return true
		}
	}
	logger.Debug("Token does not have the expected audience claim.")
	return false
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
