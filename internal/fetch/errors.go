package fetch

import "errors"

// ErrInspectUnsupported is returned when the backend for a URL cannot report metadata
var ErrInspectUnsupported = errors.New("metadata lookup is not supported for this URL")
