package types

import "errors"

var (
	// ErrParseFailure means AI output could not be coerced into the expected shape.
	ErrParseFailure = errors.New("ai output could not be parsed")
	// ErrCapabilityFailure wraps provider or network errors from completion or places calls.
	ErrCapabilityFailure = errors.New("capability call failed")
	ErrInvalidSelection  = errors.New("invalid selection")
	ErrStateCorruption   = errors.New("conversation state corrupted")
	ErrNotFound          = errors.New("requested item not found")
)
