// Package ranking computes top-N product rankings over a window of
// corrected transactions.
package ranking

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

// DefaultTopN is the ranking depth used by the weekly digest.
const DefaultTopN = 5

// Entry is one ranked product. Rank is 1-based.
type Entry struct {
	ProductName string
	Value       decimal.Decimal
	Rank        int
}

// TopByRevenue ranks products by summed line revenue inside the window.
// An empty result is valid, not an error.
func TopByRevenue(txs []model.Transaction, w timeframe.Window, n int) []Entry {
	return top(txs, w, n, func(t model.Transaction) (decimal.Decimal, bool) {
		return t.LineRevenue, true
	})
}

// TopByQuantity ranks weight-denominated products by summed quantity
// inside the window. Piece and other units are excluded.
func TopByQuantity(txs []model.Transaction, w timeframe.Window, n int) []Entry {
	return top(txs, w, n, func(t model.Transaction) (decimal.Decimal, bool) {
		return t.Quantity, t.Unit == model.UnitWeight
	})
}

func top(txs []model.Transaction, w timeframe.Window, n int, metric func(model.Transaction) (decimal.Decimal, bool)) []Entry {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if !w.Contains(t.Day) {
			continue
		}
		v, ok := metric(t)
		if !ok {
			continue
		}
		sums[t.ProductName] = sums[t.ProductName].Add(v)
	}

	entries := make([]Entry, 0, len(sums))
	for name, sum := range sums {
		entries = append(entries, Entry{ProductName: name, Value: sum})
	}
	// Descending by value; ties break lexicographically on product name so
	// equal-value rankings stay stable across runs.
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Value.Cmp(entries[j].Value); c != 0 {
			return c > 0
		}
		return entries[i].ProductName < entries[j].ProductName
	})

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
