package service

import "errors"

// Error kinds callers branch on with errors.Is. Services wrap these with
// context via fmt.Errorf("...: %w", ErrX); anything unwrapped is internal.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)
