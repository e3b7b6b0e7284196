package snapshot

import "errors"

// ErrInvalidSnapshot marks unreadable, malformed or invalid snapshot data.
var ErrInvalidSnapshot = errors.New("invalid snapshot")
