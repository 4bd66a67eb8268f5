package wizard

import "errors"

// Sentinel kinds for wizard errors.
var (
	ErrUnknownStep = errors.New("unknown wizard step")
)
