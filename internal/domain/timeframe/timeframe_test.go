package timeframe_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/syrlavka/digest/internal/domain/timeframe"
)

func TestNormalizer(t *testing.T) {
	Convey("Given a normalizer for the business timezone", t, func() {
		norm, err := timeframe.NewNormalizer(timeframe.DefaultTimezone)
		So(err, ShouldBeNil)

		Convey("When normalizing a UTC instant late in the day", func() {
			// 22:30 UTC is already past midnight in Chisinau (UTC+3 in summer).
			instant := time.Date(2026, 8, 25, 22, 30, 0, 0, time.UTC)
			day := norm.Day(instant)

			Convey("Then it lands on the next local calendar day at midnight", func() {
				So(day.Year(), ShouldEqual, 2026)
				So(day.Month(), ShouldEqual, time.August)
				So(day.Day(), ShouldEqual, 26)
				So(day.Hour(), ShouldEqual, 0)
				So(day.Minute(), ShouldEqual, 0)
				So(day.Location(), ShouldEqual, norm.Location())
			})

			Convey("And re-normalizing the result is a no-op", func() {
				So(norm.Day(day).Equal(day), ShouldBeTrue)
			})
		})

		Convey("When the zone name is unknown", func() {
			_, err := timeframe.NewNormalizer("Neverland/Nowhere")

			Convey("Then construction fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestSelect(t *testing.T) {
	Convey("Given one captured now", t, func() {
		norm, err := timeframe.NewNormalizer(timeframe.DefaultTimezone)
		So(err, ShouldBeNil)
		now := time.Date(2026, 8, 28, 15, 4, 5, 0, norm.Location())

		w := timeframe.Select(now, norm)

		Convey("Then the current window spans 7 local days inclusive of today", func() {
			So(w.Current.Start.Equal(time.Date(2026, 8, 22, 0, 0, 0, 0, norm.Location())), ShouldBeTrue)
			So(w.Current.End.Equal(now), ShouldBeTrue)
			So(w.Current.Contains(norm.Day(now)), ShouldBeTrue)
			So(w.Current.Contains(time.Date(2026, 8, 22, 0, 0, 0, 0, norm.Location())), ShouldBeTrue)
			So(w.Current.Contains(time.Date(2026, 8, 21, 0, 0, 0, 0, norm.Location())), ShouldBeFalse)
		})

		Convey("Then the windows are contiguous and non-overlapping", func() {
			So(w.Comparison.End.Equal(w.Current.Start), ShouldBeTrue)
			So(w.Historical.End.Equal(w.Comparison.Start), ShouldBeTrue)
			So(w.Comparison.Start.Equal(time.Date(2026, 8, 15, 0, 0, 0, 0, norm.Location())), ShouldBeTrue)

			boundary := w.Current.Start
			So(w.Current.Contains(boundary), ShouldBeTrue)
			So(w.Comparison.Contains(boundary), ShouldBeFalse)
		})

		Convey("Then the historical window is open-ended into the past", func() {
			ancient := time.Date(1999, 1, 1, 0, 0, 0, 0, norm.Location())
			So(w.Historical.Contains(ancient), ShouldBeTrue)
			So(w.Historical.Contains(w.Comparison.Start), ShouldBeFalse)
		})

		Convey("Then BeforeCurrent covers historical and comparison together", func() {
			prior := w.BeforeCurrent()
			So(prior.End.Equal(w.Current.Start), ShouldBeTrue)
			So(prior.Contains(w.Comparison.Start), ShouldBeTrue)
			So(prior.Contains(w.Current.Start), ShouldBeFalse)
		})
	})
}
