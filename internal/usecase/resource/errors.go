// Package resource provides use cases for managing catalogued resources,
// the individual registry and gazette links listed on jurisdiction pages.
package resource

import "errors"

// Sentinel errors for resource use case operations.
var (
	// ErrResourceNotFound indicates that the requested resource was not found.
	ErrResourceNotFound = errors.New("resource not found")
)
