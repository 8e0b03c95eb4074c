package valueobject

import "errors"

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

// Error families. Callers classify with errors.Is and map each family to the
// appropriate response: validation and invalid-state errors are never retried,
// conflicts are safe to retry from a fresh read.
var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrConflict                = errors.New("concurrent modification conflict")
)

// Specific invalid-state conditions, all members of the
// ErrInvalidStatusTransition family.
var (
	ErrSubmissionClosed           = wrap("cannot modify a closed submission", ErrInvalidStatusTransition)
	ErrCannotAssignClosed         = wrap("cannot assign a closed submission", ErrInvalidStatusTransition)
	ErrClearanceBlocksAssignment  = wrap("clearance failure blocks assignment", ErrInvalidStatusTransition)
	ErrQuoteRequiresUnderwriter   = wrap("cannot quote without an assigned underwriter", ErrInvalidStatusTransition)
	ErrBindRequiresQuote          = wrap("cannot bind without an existing quote", ErrInvalidStatusTransition)
	ErrOverrideRequiresClearance  = wrap("clearance override only valid from pending clearance", ErrInvalidStatusTransition)
	ErrCannotWithdrawBound        = wrap("cannot withdraw a bound submission", ErrInvalidStatusTransition)
)

func wrap(msg string, family error) error {
	return &familyError{msg: msg, family: family}
}

type familyError struct {
	msg    string
	family error
}

func (e *familyError) Error() string { return e.msg }

// Unwrap lets errors.Is match the family sentinel.
func (e *familyError) Unwrap() error { return e.family }
