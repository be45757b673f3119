package parallel

import "errors"

// ErrClosed is returned by ForEach after Close.
var ErrClosed = errors.New("parallel: pool closed")
