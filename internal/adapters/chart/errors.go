package chart

import "errors"

// Sentinel kinds for chart rendering errors.
var (
	ErrNoData = errors.New("no report data to chart")
	ErrRender = errors.New("chart render failed")
)
