package contract

import "errors"

// Sentinel kinds for contract assembly.
var (
	ErrNoEmployees = errors.New("contract requires at least one employee")
)
