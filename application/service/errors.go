package service

import "errors"

// ErrMissingQuery is returned when a request carries no usable query text.
var ErrMissingQuery = errors.New("missing or invalid query text")
