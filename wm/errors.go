package wm

import "errors"

// Error kinds surfaced to control-protocol clients (spec §7). Internal
// invariant violations panic instead of returning one of these.
var (
	ErrNotFound     = errors.New("not-found")
	ErrInvalidParam = errors.New("invalid-param")
	ErrNotEmpty     = errors.New("not-empty")
	ErrNoSpace      = errors.New("no-space")
	ErrIO           = errors.New("io")
)
