// Package summary renders the computed metrics and rankings into the
// message body delivered to the chat.
package summary

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/syrlavka/digest/internal/domain/kpi"
	"github.com/syrlavka/digest/internal/domain/ranking"
)

// undefined is printed for ratios with a zero divisor.
const undefined = "н/д"

// Display precision per field convention: revenue two decimals, average
// receipt whole rubles, quantities three decimals.
const (
	revenuePlaces  = 2
	receiptPlaces  = 0
	quantityPlaces = 3
)

// Compose builds the digest text. Ranking sections render their header
// with no lines when the ranking is empty.
func Compose(m kpi.Weekly, byRevenue, byQuantity []ranking.Entry) string {
	var b strings.Builder

	b.WriteString("Недельная сводка\n\n")

	fmt.Fprintf(&b, "Выручка за неделю: %s руб\n", m.ActualRevenue.StringFixed(revenuePlaces))
	fmt.Fprintf(&b, "Ожидаемая выручка: %s руб (отклонение %s)\n",
		m.ExpectedRevenue.StringFixed(revenuePlaces), pct(m.RevenueDeviationPct))
	fmt.Fprintf(&b, "Средний чек: %s руб (исторический %s руб, отклонение %s)\n",
		money(m.AvgReceiptCurrent, receiptPlaces), money(m.AvgReceiptHistorical, receiptPlaces),
		pct(m.AvgReceiptDeviationPct))
	fmt.Fprintf(&b, "Покупателей за неделю: %d\n", m.CustomerCount)

	b.WriteString("\nТоп 5 товаров по принесенной выручке:\n")
	for _, e := range byRevenue {
		fmt.Fprintf(&b, "%d %s %s руб\n", e.Rank, e.ProductName, e.Value.StringFixed(revenuePlaces))
	}

	b.WriteString("\nТоп 5 сыров по проданному количеству:\n")
	for _, e := range byQuantity {
		fmt.Fprintf(&b, "%d %s %s кг\n", e.Rank, e.ProductName, e.Value.StringFixed(quantityPlaces))
	}

	return b.String()
}

func money(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return undefined
	}
	return d.Decimal.StringFixed(places)
}

func pct(d decimal.NullDecimal) string {
	if !d.Valid {
		return undefined
	}
	if d.Decimal.Sign() > 0 {
		return "+" + d.Decimal.StringFixed(2) + "%"
	}
	return d.Decimal.StringFixed(2) + "%"
}
