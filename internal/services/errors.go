package services

import "errors"

// Recoverable client errors. Both carry messages safe to echo back to the
// requesting connection. Anything else surfacing from the repositories is a
// store failure: logged, reported generically, never broadcast.
var (
	ErrValidation = errors.New("validation failed")
	ErrMembership = errors.New("membership check failed")
)

// IsClientError reports whether err's message may be sent to the requester.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrMembership)
}
