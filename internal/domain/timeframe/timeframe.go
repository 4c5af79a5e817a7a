// Package timeframe normalizes storage timestamps into the business
// timezone and derives the trailing windows every aggregation runs over.
//
// Conventions:
// - One Normalizer per run; every calendar comparison goes through it.
// - Select is called exactly once per run with a single captured "now" so
//   all stages see identical window boundaries.
package timeframe

import (
	"time"
)

// DefaultTimezone is the fixed business timezone.
const DefaultTimezone = "Europe/Chisinau"

// currentWindowDaysBack makes the current window span 7 local calendar
// days inclusive of today: [today-6d midnight, now).
const currentWindowDaysBack = 6

// comparisonWindowDays is the width of the comparison window.
const comparisonWindowDays = 7

// Normalizer converts instants into local calendar days.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer builds a Normalizer for the given IANA zone name.
func NewNormalizer(zone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return &Normalizer{loc: loc}, nil
}

// Location returns the normalizer's timezone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Day converts an instant (zone-less values arrive as UTC) into the local
// zone and truncates it to local midnight. Re-normalizing an already-local
// midnight yields the same value.
func (n *Normalizer) Day(t time.Time) time.Time {
	lt := t.In(n.loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, n.loc)
}

// Window is a half-open time range [Start, End). A zero Start means the
// window is open-ended into the past.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	return t.Before(w.End)
}

// Windows are the three canonical ranges derived from one "now" snapshot.
// They are contiguous and non-overlapping:
// Historical.End == Comparison.Start and Comparison.End == Current.Start.
type Windows struct {
	Current    Window
	Comparison Window
	Historical Window
}

// Select derives the canonical windows from a single captured now.
func Select(now time.Time, n *Normalizer) Windows {
	currentStart := n.Day(now).AddDate(0, 0, -currentWindowDaysBack)
	comparisonStart := currentStart.AddDate(0, 0, -comparisonWindowDays)
	return Windows{
		Current:    Window{Start: currentStart, End: now.In(n.Location())},
		Comparison: Window{Start: comparisonStart, End: currentStart},
		Historical: Window{End: comparisonStart},
	}
}

// BeforeCurrent is the open-ended range strictly before the current window,
// i.e. Historical plus Comparison. The weekday band and the historical
// receipt average are computed over this range.
func (w Windows) BeforeCurrent() Window {
	return Window{End: w.Current.Start}
}
