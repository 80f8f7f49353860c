package domain

import "errors"

// Domain-level errors
var (
	ErrTitleRequired = errors.New("title required")
	ErrInvalidPrice  = errors.New("price must be greater than zero")
	ErrInvalidImage  = errors.New("valid image URL required")
)
