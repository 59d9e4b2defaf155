package types

import "errors"

// Error categories shared by every package. Package level errors wrap one of
// these so callers can match on either the specific error or its category.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("configuration error")
)
