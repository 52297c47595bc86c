package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressForbidden means the delivery address exists but belongs to
	// a different patient. This is an authorization failure, not a lookup
	// failure, and callers must report it as such.
	ErrAddressForbidden = errors.New("patient does not own this delivery address")

	ErrAddressNotFound = errors.New("delivery address not found")
)

// ServiceUnreachableError distinguishes infrastructure failure (a sibling
// service could not be reached) from business-rule rejection.
type ServiceUnreachableError struct {
	Service string
	Err     error
}

func (e *ServiceUnreachableError) Error() string {
	return fmt.Sprintf("service %s unreachable: %v", e.Service, e.Err)
}

func (e *ServiceUnreachableError) Unwrap() error {
	return e.Err
}
