package dataset

import "errors"

// Sentinel kinds for dataset load errors.
var (
	ErrBadRow = errors.New("row missing required fields")
)
