package band

import "errors"

// Sentinel kinds for band computation errors.
var (
	ErrNoHistory = errors.New("no historical reports for band")
)
