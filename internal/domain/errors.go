package domain

import "fmt"

// Error types for consistent error handling across the app core.

// ErrUpstreamStatus indicates the UniBus API answered with a non-success
// HTTP status. Services inspect Status to pick the user-facing message
// (500 has its own text on the contracts screen).
type ErrUpstreamStatus struct {
	Service string
	Status  int
}

func (e *ErrUpstreamStatus) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrMarkupResponse indicates a lookup service answered with an HTML page
// instead of structured data. Per policy it is logged and never surfaced.
type ErrMarkupResponse struct {
	Service string
}

func (e *ErrMarkupResponse) Error() string {
	return fmt.Sprintf("%s returned markup instead of structured data", e.Service)
}

// ErrPermissionDenied indicates the user refused a platform permission.
type ErrPermissionDenied struct {
	Capability string
}

func (e *ErrPermissionDenied) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Capability)
}
