// Package kpi derives the scalar weekly metrics of the digest.
//
// Zero-divisor ratios are never an error here: they come back as an
// invalid decimal.NullDecimal and the composer prints them as undefined.
package kpi

import (
	"github.com/shopspring/decimal"

	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

// Rounding conventions carried into the message verbatim.
const (
	revenuePlaces   = 2
	receiptPlaces   = 0
	deviationPlaces = 2
)

var hundred = decimal.NewFromInt(100)

// Weekly holds the computed weekly KPIs. All fields are pre-rounded to
// their display precision; deviations are computed from unrounded values.
type Weekly struct {
	ActualRevenue          decimal.Decimal
	ExpectedRevenue        decimal.Decimal
	RevenueDeviationPct    decimal.NullDecimal
	AvgReceiptCurrent      decimal.NullDecimal
	AvgReceiptHistorical   decimal.NullDecimal
	AvgReceiptDeviationPct decimal.NullDecimal
	CustomerCount          int64
}

// Compute derives the weekly KPIs from corrected transactions and
// normalized reports, using one shared window snapshot.
func Compute(txs []model.Transaction, reports []model.Report, w timeframe.Windows) Weekly {
	var actual, expected decimal.Decimal
	var purchases int64

	for _, r := range reports {
		if !w.Current.Contains(r.Day) {
			continue
		}
		actual = actual.Add(r.Revenue)
		purchases += r.Purchases
	}
	for _, t := range txs {
		if !w.Current.Contains(t.Day) {
			continue
		}
		expected = expected.Add(t.LineRevenue)
	}

	avgCurrent := ratio(actual, decimal.NewFromInt(purchases))
	avgHistorical := historicalAvgReceipt(reports, w.Historical)

	out := Weekly{
		ActualRevenue:       actual.Round(revenuePlaces),
		ExpectedRevenue:     expected.Round(revenuePlaces),
		RevenueDeviationPct: Deviation(actual, expected),
		CustomerCount:       purchases,
	}
	if avgCurrent.Valid {
		out.AvgReceiptCurrent = nullDec(avgCurrent.Decimal.Round(receiptPlaces))
	}
	if avgHistorical.Valid {
		out.AvgReceiptHistorical = nullDec(avgHistorical.Decimal.Round(receiptPlaces))
	}
	if avgCurrent.Valid && avgHistorical.Valid {
		out.AvgReceiptDeviationPct = Deviation(avgCurrent.Decimal, avgHistorical.Decimal)
	}
	return out
}

// Deviation is (observed - baseline) * 100 / baseline rounded to two
// decimals, undefined when the baseline is zero.
func Deviation(observed, baseline decimal.Decimal) decimal.NullDecimal {
	if baseline.IsZero() {
		return decimal.NullDecimal{}
	}
	return nullDec(observed.Sub(baseline).Mul(hundred).Div(baseline).Round(deviationPlaces))
}

// historicalAvgReceipt is the mean, across (ISO year, ISO week) groups
// inside the historical window, of group revenue / group purchases.
// Zero-purchase groups are excluded from the mean.
func historicalAvgReceipt(reports []model.Report, w timeframe.Window) decimal.NullDecimal {
	type week struct {
		year int
		week int
	}
	revenue := make(map[week]decimal.Decimal)
	purchases := make(map[week]int64)
	for _, r := range reports {
		if !w.Contains(r.Day) {
			continue
		}
		y, wk := r.Day.ISOWeek()
		k := week{year: y, week: wk}
		revenue[k] = revenue[k].Add(r.Revenue)
		purchases[k] += r.Purchases
	}

	var sum decimal.Decimal
	var groups int64
	for k, rev := range revenue {
		if purchases[k] == 0 {
			continue
		}
		sum = sum.Add(rev.Div(decimal.NewFromInt(purchases[k])))
		groups++
	}
	if groups == 0 {
		return decimal.NullDecimal{}
	}
	return nullDec(sum.Div(decimal.NewFromInt(groups)))
}

func ratio(num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		return decimal.NullDecimal{}
	}
	return nullDec(num.Div(den))
}

func nullDec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
