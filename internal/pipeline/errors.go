package pipeline

import "errors"

// ErrNotSuspended is returned when a selection or cancellation targets a
// run that is not awaiting selection.
var ErrNotSuspended = errors.New("run is not awaiting selection")
