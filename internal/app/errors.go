package app

import "errors"

// Sentinel kinds for pipeline errors.
var (
	// ErrDataQuality aborts the run: rows feeding financial totals were
	// rejected, and a partial digest must not be sent.
	ErrDataQuality = errors.New("data quality check failed")

	// ErrNoData aborts the run: the store returned no report rows at all.
	ErrNoData = errors.New("no report data")
)
