// Package band computes the per-weekday "normal range" of daily revenue:
// the 2.5th..97.5th percentile of historical report revenue per weekday.
package band

import (
	"math"
	"sort"
	"time"

	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

// Quantile levels of the band.
const (
	lowQuantile  = 0.025
	highQuantile = 0.975
)

// weekdayLabels are the Russian short weekday names used on the chart.
var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

// WeekdayLabel returns the localized short label for a weekday.
func WeekdayLabel(d time.Weekday) string {
	return weekdayLabels[d]
}

// WeekdayBand is the revenue band for one weekday.
type WeekdayBand struct {
	Weekday time.Weekday
	Label   string
	QLow    float64
	QHigh   float64
}

// Compute derives the band per weekday from the report rows falling inside
// the given window (the range strictly before the current week). Weekdays
// with no history are simply absent from the result. With no rows inside
// the window at all it returns ErrNoHistory.
func Compute(reports []model.Report, w timeframe.Window) (map[time.Weekday]WeekdayBand, error) {
	byWeekday := make(map[time.Weekday][]float64)
	for _, r := range reports {
		if !w.Contains(r.Day) {
			continue
		}
		wd := r.Day.Weekday()
		byWeekday[wd] = append(byWeekday[wd], r.Revenue.InexactFloat64())
	}
	if len(byWeekday) == 0 {
		return nil, ErrNoHistory
	}

	out := make(map[time.Weekday]WeekdayBand, len(byWeekday))
	for wd, revenues := range byWeekday {
		sort.Float64s(revenues)
		out[wd] = WeekdayBand{
			Weekday: wd,
			Label:   WeekdayLabel(wd),
			QLow:    quantile(revenues, lowQuantile),
			QHigh:   quantile(revenues, highQuantile),
		}
	}
	return out, nil
}

// quantile linearly interpolates between order statistics of a sorted
// sample, matching the convention the report history was analyzed with.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
