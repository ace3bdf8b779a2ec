package care

import "errors"

// ErrInvalidInput indicates a client-correctable problem with a medication or
// appointment payload (missing name, missing doctor).
var ErrInvalidInput = errors.New("invalid care input")
