package model

import "errors"

// Sentinel kinds for malformed domain records.
var (
	ErrInvalidProspect = errors.New("invalid prospect")
	ErrInvalidEmployee = errors.New("invalid employee")
)
