package band_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/syrlavka/digest/internal/domain/band"
	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

func report(d time.Time, revenue float64) model.Report {
	return model.Report{Day: d, Revenue: decimal.NewFromFloat(revenue), Purchases: 1}
}

func TestCompute(t *testing.T) {
	Convey("Given three historical Mondays and one Tuesday", t, func() {
		// 2026-08-03, 08-10 and 08-17 are Mondays; 08-04 is a Tuesday.
		monday := func(d int, rev float64) model.Report {
			return report(time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC), rev)
		}
		reports := []model.Report{
			monday(3, 10),
			monday(10, 30),
			monday(17, 20),
			report(time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC), 500),
		}
		cutoff := timeframe.Window{End: time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)}

		Convey("When computing the band", func() {
			bands, err := band.Compute(reports, cutoff)

			Convey("Then each observed weekday gets its own quantile pair", func() {
				So(err, ShouldBeNil)
				So(bands, ShouldHaveLength, 2)
				So(bands, ShouldContainKey, time.Monday)
				So(bands, ShouldContainKey, time.Tuesday)
			})

			Convey("And the quantiles interpolate between order statistics", func() {
				// Sorted Mondays: 10, 20, 30.
				mon := bands[time.Monday]
				So(mon.QLow, ShouldAlmostEqual, 10.5, 1e-9)
				So(mon.QHigh, ShouldAlmostEqual, 29.5, 1e-9)
			})

			Convey("And a single observation collapses the band to a point", func() {
				tue := bands[time.Tuesday]
				So(tue.QLow, ShouldEqual, 500)
				So(tue.QHigh, ShouldEqual, 500)
			})

			Convey("And labels are localized", func() {
				So(bands[time.Monday].Label, ShouldEqual, "Пн")
				So(bands[time.Tuesday].Label, ShouldEqual, "Вт")
			})
		})

		Convey("When rows fall on or after the cutoff", func() {
			late := append(reports, monday(24, 100000))
			bands, err := band.Compute(late, cutoff)

			Convey("Then they do not widen the band", func() {
				So(err, ShouldBeNil)
				So(bands[time.Monday].QHigh, ShouldAlmostEqual, 29.5, 1e-9)
			})
		})

		Convey("When no rows fall inside the window", func() {
			_, err := band.Compute(nil, cutoff)

			Convey("Then computing fails with ErrNoHistory", func() {
				So(err, ShouldWrap, band.ErrNoHistory)
			})
		})
	})
}

func TestWeekdayLabel(t *testing.T) {
	Convey("Given the weekday labels", t, func() {
		Convey("Then all seven days have a Russian short label", func() {
			labels := map[string]bool{}
			for d := time.Sunday; d <= time.Saturday; d++ {
				l := band.WeekdayLabel(d)
				So(l, ShouldNotBeEmpty)
				labels[l] = true
			}
			So(labels, ShouldHaveLength, 7)
		})
	})
}
