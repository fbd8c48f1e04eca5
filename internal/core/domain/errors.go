package domain

import (
	"errors"
	"fmt"
)

// Command error taxonomy. NotAuthenticated, PermissionDenied, NotFound and
// Validation abort only the command that raised them; anything else that
// reaches the dispatcher is treated as a store failure and ends the process.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failure")
)

// Guard is the authorization gate. It is called before an operation reads
// or writes any state: a Guest invoking a guarded operation is not
// authenticated, any other tier outside the required set is denied.
func Guard(s *Session, required TierSet) error {
	if required.Permits(s.Tier) {
		return nil
	}
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return fmt.Errorf("%w: access denied to %s user", ErrPermissionDenied, s.Tier)
}
