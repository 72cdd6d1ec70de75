package colorspace

import "errors"

// ErrInvalidArgument is returned when a conversion input is missing or malformed.
var ErrInvalidArgument = errors.New("invalid argument")
