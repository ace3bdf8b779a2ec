package reports

import "errors"

// ErrInvalidInput indicates a client-correctable upload problem (missing file,
// oversized payload, disallowed MIME type).
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound indicates the report does not exist for the user.
var ErrNotFound = errors.New("report not found")

// ErrStorageFailure indicates the object store write failed; the upload is
// aborted and no report record is created.
var ErrStorageFailure = errors.New("storage failure")
