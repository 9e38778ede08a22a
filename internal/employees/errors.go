package employees

import "errors"

var (
	// ErrNotFound indicates no employee has the requested number.
	ErrNotFound = errors.New("employee not found")
	// ErrSelectionCancelled is returned by a Selector when the user declines to choose.
	ErrSelectionCancelled = errors.New("selection cancelled")
)
