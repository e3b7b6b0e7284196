package service

import "errors"

// ErrSource wraps failures of the prospect or employee source.
var ErrSource = errors.New("staffing input unavailable")
