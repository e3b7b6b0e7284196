package pool

import "errors"

// Sentinel kinds for pool construction errors.
var (
	ErrDuplicateEmployee = errors.New("employee already in pool")
	ErrPartitionMismatch = errors.New("employee clearance does not match partition")
)
