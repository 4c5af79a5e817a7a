package dataset_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/syrlavka/digest/internal/domain/dataset"
	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

func mustNormalizer() *timeframe.Normalizer {
	norm, err := timeframe.NewNormalizer(timeframe.DefaultTimezone)
	if err != nil {
		panic(err)
	}
	return norm
}

func txRow(ts time.Time, name string, price, qty float64, unit string) model.TransactionRow {
	return model.TransactionRow{
		Timestamp:   sql.NullTime{Time: ts, Valid: true},
		Type:        "balance",
		ProductName: sql.NullString{String: name, Valid: true},
		UnitPrice:   decimal.NewNullDecimal(decimal.NewFromFloat(price)),
		Quantity:    decimal.NewNullDecimal(decimal.NewFromFloat(qty)),
		Unit:        sql.NullString{String: unit, Valid: true},
	}
}

func TestLoadTransactions(t *testing.T) {
	Convey("Given raw transaction rows", t, func() {
		norm := mustNormalizer()
		ts := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

		Convey("When a soft-cheese row is loaded", func() {
			rows := []model.TransactionRow{txRow(ts, "Шевр А", 50, 10, "шт")}
			txs, quality := dataset.LoadTransactions(rows, norm)

			Convey("Then the correction rewrites unit, price and quantity", func() {
				So(quality, ShouldBeEmpty)
				So(txs, ShouldHaveLength, 1)
				So(txs[0].Unit, ShouldEqual, model.UnitWeight)
				So(txs[0].UnitPrice.Equal(decimal.NewFromInt(200)), ShouldBeTrue)
				So(txs[0].Quantity.Equal(decimal.NewFromInt(2)), ShouldBeTrue)
			})

			Convey("And revenue is derived after the correction", func() {
				So(txs[0].LineRevenue.Equal(decimal.NewFromInt(400)), ShouldBeTrue)
			})
		})

		Convey("When an ordinary row is loaded", func() {
			rows := []model.TransactionRow{txRow(ts, "Гауда", 120, 3, "шт")}
			txs, quality := dataset.LoadTransactions(rows, norm)

			Convey("Then it passes through uncorrected", func() {
				So(quality, ShouldBeEmpty)
				So(txs[0].Unit, ShouldEqual, model.UnitPiece)
				So(txs[0].UnitPrice.Equal(decimal.NewFromInt(120)), ShouldBeTrue)
				So(txs[0].Quantity.Equal(decimal.NewFromInt(3)), ShouldBeTrue)
			})

			Convey("And line revenue always equals price times quantity", func() {
				So(txs[0].LineRevenue.Equal(txs[0].UnitPrice.Mul(txs[0].Quantity)), ShouldBeTrue)
			})

			Convey("And the timestamp is bucketed to the local day", func() {
				So(txs[0].Day.Equal(norm.Day(ts)), ShouldBeTrue)
			})
		})

		Convey("When a row is missing required fields", func() {
			bad := txRow(ts, "Бри", 90, 1, "шт")
			bad.UnitPrice = decimal.NullDecimal{}
			rows := []model.TransactionRow{
				txRow(ts, "Гауда", 120, 3, "шт"),
				bad,
			}
			txs, quality := dataset.LoadTransactions(rows, norm)

			Convey("Then the load completes and records the error", func() {
				So(txs, ShouldHaveLength, 1)
				So(quality, ShouldHaveLength, 1)
				So(quality[0], ShouldWrap, dataset.ErrBadRow)
			})
		})
	})
}

func TestLoadReports(t *testing.T) {
	Convey("Given raw report rows out of order", t, func() {
		norm := mustNormalizer()
		day := func(d int) sql.NullTime {
			return sql.NullTime{Time: time.Date(2026, 8, d, 21, 0, 0, 0, time.UTC), Valid: true}
		}
		rows := []model.ReportRow{
			{ReportDate: day(20), Revenue: decimal.NewNullDecimal(decimal.NewFromInt(300)), Purchases: sql.NullInt64{Int64: 3, Valid: true}},
			{ReportDate: day(18), Revenue: decimal.NewNullDecimal(decimal.NewFromInt(100)), Purchases: sql.NullInt64{Int64: 1, Valid: true}},
			{ReportDate: day(19), Revenue: decimal.NewNullDecimal(decimal.NewFromInt(200)), Purchases: sql.NullInt64{Int64: 2, Valid: true}},
		}

		Convey("When loading", func() {
			reports, quality := dataset.LoadReports(rows, norm)

			Convey("Then rows come back sorted ascending by local day", func() {
				So(quality, ShouldBeEmpty)
				So(reports, ShouldHaveLength, 3)
				So(reports[0].Day.Before(reports[1].Day), ShouldBeTrue)
				So(reports[1].Day.Before(reports[2].Day), ShouldBeTrue)
			})

			Convey("And dates are normalized to local midnight", func() {
				for _, r := range reports {
					So(norm.Day(r.Day).Equal(r.Day), ShouldBeTrue)
					So(r.Day.Hour(), ShouldEqual, 0)
				}
			})
		})

		Convey("When a report row has a null revenue", func() {
			bad := rows[0]
			bad.Revenue = decimal.NullDecimal{}
			reports, quality := dataset.LoadReports([]model.ReportRow{bad}, norm)

			Convey("Then the row is recorded and skipped", func() {
				So(reports, ShouldBeEmpty)
				So(quality, ShouldHaveLength, 1)
				So(quality[0], ShouldWrap, dataset.ErrBadRow)
			})
		})
	})
}
