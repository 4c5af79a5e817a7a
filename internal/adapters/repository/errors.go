package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrConnect = errors.New("store unreachable")
	ErrFetch   = errors.New("data fetch failed")
)
