package cart

import "github.com/shopspring/decimal"

func TotalItems(s Snapshot) int {
	total := 0
	for _, l := range s.Lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums quantity times the live unit price of every line.
func TotalPrice(s Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
