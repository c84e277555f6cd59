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

package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aremko/integration-backbone/internal/system/constants"
	customerrors "github.com/aremko/integration-backbone/internal/system/errors"
	"github.com/aremko/integration-backbone/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error
func HandleError(w http.ResponseWriter, err error) {
	var clientError *customerrors.ClientError
	w.Header().Set("Content-Type", "application/json")
	if ok := errors.As(err, &clientError); ok {
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(clientError.ErrorMessage)
		return
	}

	var serverError *customerrors.ServerError
	if ok := errors.As(err, &serverError); ok {
		logger := log.GetLogger()
		logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "Internal server error",
		})
		return
	}

	log.GetLogger().Error("Unclassified error reached the HTTP boundary", log.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Internal server error",
	})
}

// WriteErrorResponse writes a client error as JSON.
func WriteErrorResponse(w http.ResponseWriter, err *customerrors.ClientError) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)

	_ = json.NewEncoder(w).Encode(err.ErrorMessage)
}

// WriteJSONResponse writes the payload with the given status code.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, payload interface{}) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// ExtractOrgHandleFromRequest returns the org handle placed in the request
// context by the tenant dispatcher.
func ExtractOrgHandleFromRequest(r *http.Request) string {
	org, ok := r.Context().Value(constants.OrgContextKey).(string)
	if !ok || org == "" {
		return constants.DefaultOrgHandle
	}
	return org
}

// RewriteToDefaultOrg rewrites bare `/api/v1/...` requests to the default org
// so single-tenant deployments work without the `/t/{org}` prefix.
func RewriteToDefaultOrg(apiBasePath string, mux *http.ServeMux, defaultOrg string) {
	mux.HandleFunc(apiBasePath+"/", func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = "/t/" + defaultOrg + r.URL.Path
		mux.ServeHTTP(w, r)
	})
}

// MountTenantDispatcher registers the `/t/{org}` prefix handler, stashes the
// org handle in the request context and strips the prefix before dispatch.
func MountTenantDispatcher(mux *http.ServeMux, apiBasePath string, next http.HandlerFunc) {
	mux.HandleFunc("/t/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/t/"), "/", 2)
		if len(parts) < 2 {
			http.NotFound(w, r)
			return
		}
		org := parts[0]
		rest := "/" + parts[1]
		if !strings.HasPrefix(rest, apiBasePath) {
			http.NotFound(w, r)
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), constants.OrgContextKey, org))
		r.URL.Path = strings.TrimPrefix(rest, apiBasePath)
		next(w, r)
	})
}
