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

package provider

import (
	"github.com/aremko/integration-backbone/internal/reconciliation/service"
)

// ReconciliationProviderInterface defines the interface for the
// reconciliation provider.
type ReconciliationProviderInterface interface {
	GetReconciliationService() service.ReconciliationServiceInterface
}

// ReconciliationProvider is the default implementation of the
// ReconciliationProviderInterface.
type ReconciliationProvider struct{}

// NewReconciliationProvider creates a new instance of ReconciliationProvider.
func NewReconciliationProvider() ReconciliationProviderInterface {

	return &ReconciliationProvider{}
}

// GetReconciliationService returns the reconciliation service instance.
func (rp *ReconciliationProvider) GetReconciliationService() service.ReconciliationServiceInterface {

	return service.GetReconciliationService()
}
