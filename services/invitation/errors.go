package invitation

import "errors"

var (
	// ErrNotFound is returned when the invitation does not exist.
	ErrNotFound = errors.New("invitation not found")
	// ErrNotOwner is returned when the requester does not own the invitation.
	ErrNotOwner = errors.New("not the invitation owner")
	// ErrPlanLimitExceeded is returned when the owner's plan does not allow
	// another invitation.
	ErrPlanLimitExceeded = errors.New("plan invitation limit exceeded")
	// ErrMissingRequiredField is returned when a mandatory input is empty.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrGuestNotFound is returned when a guest record does not exist.
	ErrGuestNotFound = errors.New("guest not found")
)
