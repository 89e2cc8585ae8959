package uslegal

import "errors"

// Error values for facade construction and source selection.
var (
	ErrUnknownSource = errors.New("unknown source")
	ErrNoSources     = errors.New("no sources configured")
)
