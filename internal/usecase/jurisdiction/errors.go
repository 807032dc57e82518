// Package jurisdiction provides use cases for managing jurisdiction pages.
// It implements business logic for querying and maintaining the per-country
// and per-state catalog entries, delegating persistence to the repository.
package jurisdiction

import "errors"

// Sentinel errors for jurisdiction use case operations.
var (
	// ErrJurisdictionNotFound indicates that the requested jurisdiction
	// was not found in the catalog.
	ErrJurisdictionNotFound = errors.New("jurisdiction not found")
)
