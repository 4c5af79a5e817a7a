// Package model contains domain records passed between pipeline stages.
package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Unit classifies how a product quantity is denominated.
type Unit string

// Recognized unit kinds. Anything the store reports outside of the known
// labels collapses to UnitOther.
const (
	UnitWeight Unit = "weight"
	UnitPiece  Unit = "piece"
	UnitOther  Unit = "other"
)

// ParseUnit maps the store's unit labels onto the Unit enum.
func ParseUnit(raw string) Unit {
	switch raw {
	case "кг":
		return UnitWeight
	case "шт":
		return UnitPiece
	default:
		return UnitOther
	}
}

// TransactionRow is a raw sale line item as the store returns it.
// Fields are nullable so a bad row surfaces as a quality error during
// dataset load instead of a scan failure aborting the whole fetch.
type TransactionRow struct {
	Timestamp   sql.NullTime        `db:"transaction_datetime"`
	Type        string              `db:"transaction_type"`
	ProductName sql.NullString      `db:"transaction_product_name"`
	UnitPrice   decimal.NullDecimal `db:"transaction_product_price"`
	Quantity    decimal.NullDecimal `db:"product_qty"`
	Unit        sql.NullString      `db:"product_unit"`
	Balance     decimal.NullDecimal `db:"balance_after"`
}

// ReportRow is a raw pre-aggregated daily report row for one outlet.
type ReportRow struct {
	ReportDate sql.NullTime        `db:"report_datetime"`
	Revenue    decimal.NullDecimal `db:"report_revenue"`
	Purchases  sql.NullInt64       `db:"report_purchases"`
	OutletID   int64               `db:"outlet_id"`
}

// Transaction is a corrected, immutable sale line item.
// LineRevenue is derived exactly once, after the soft-cheese correction.
type Transaction struct {
	Timestamp   time.Time
	Day         time.Time // local calendar day of Timestamp
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	Unit        Unit
	LineRevenue decimal.Decimal
}

// Report is a normalized daily report record.
// Day is always local-zone midnight.
type Report struct {
	Day       time.Time
	Revenue   decimal.Decimal
	Purchases int64
}
