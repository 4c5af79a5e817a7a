// Package dataset materializes raw store rows into immutable domain
// records, applying the per-row business corrections exactly once.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

// Soft-cheese correction constants. Products in this family are sold as
// 200 g pieces but accounted in kilograms, so a piece-denominated row is
// re-expressed in weight units before revenue is derived.
const (
	softCheeseMarker = "Шевр"
	softCheeseFactor = 0.2
)

// softCheesePrice is the canonical per-kilogram price for the family.
var softCheesePrice = decimal.NewFromInt(200)

// LoadTransactions converts raw transaction rows into corrected records.
// Rows missing required fields are recorded as quality errors and skipped;
// the load itself always completes. Callers decide whether recorded errors
// fail the run (they do for financial totals, see app).
func LoadTransactions(rows []model.TransactionRow, norm *timeframe.Normalizer) ([]model.Transaction, []error) {
	out := make([]model.Transaction, 0, len(rows))
	var quality []error
	for i, row := range rows {
		if err := checkTransactionRow(row); err != nil {
			quality = append(quality, fmt.Errorf("%w: row %d: %v", ErrBadRow, i, err))
			continue
		}

		t := model.Transaction{
			Timestamp:   row.Timestamp.Time,
			Day:         norm.Day(row.Timestamp.Time),
			ProductName: row.ProductName.String,
			UnitPrice:   row.UnitPrice.Decimal,
			Quantity:    row.Quantity.Decimal,
			Unit:        model.ParseUnit(row.Unit.String),
		}
		if strings.HasPrefix(t.ProductName, softCheeseMarker) {
			t.Unit = model.UnitWeight
			t.UnitPrice = softCheesePrice
			t.Quantity = t.Quantity.Mul(decimal.NewFromFloat(softCheeseFactor))
		}
		// Derived once, after correction.
		t.LineRevenue = t.UnitPrice.Mul(t.Quantity)

		out = append(out, t)
	}
	return out, quality
}

// LoadReports normalizes report dates to local midnight and returns the
// rows sorted ascending by day. No other corrections are applied.
func LoadReports(rows []model.ReportRow, norm *timeframe.Normalizer) ([]model.Report, []error) {
	out := make([]model.Report, 0, len(rows))
	var quality []error
	for i, row := range rows {
		if err := checkReportRow(row); err != nil {
			quality = append(quality, fmt.Errorf("%w: row %d: %v", ErrBadRow, i, err))
			continue
		}
		out = append(out, model.Report{
			Day:       norm.Day(row.ReportDate.Time),
			Revenue:   row.Revenue.Decimal,
			Purchases: row.Purchases.Int64,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out, quality
}

func checkTransactionRow(row model.TransactionRow) error {
	switch {
	case !row.Timestamp.Valid:
		return fmt.Errorf("transaction_datetime is null")
	case !row.ProductName.Valid || row.ProductName.String == "":
		return fmt.Errorf("transaction_product_name is empty")
	case !row.UnitPrice.Valid:
		return fmt.Errorf("transaction_product_price is null")
	case !row.Quantity.Valid:
		return fmt.Errorf("product_qty is null")
	}
	return nil
}

func checkReportRow(row model.ReportRow) error {
	switch {
	case !row.ReportDate.Valid:
		return fmt.Errorf("report_datetime is null")
	case !row.Revenue.Valid:
		return fmt.Errorf("report_revenue is null")
	case !row.Purchases.Valid:
		return fmt.Errorf("report_purchases is null")
	}
	return nil
}
