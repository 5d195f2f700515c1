package domain

// VATRatePercent is the Korean value-added tax rate applied to the
// supply amount of every quotation.
const VATRatePercent = 10

// LineAmount computes a line item's amount. Negative unit prices are
// valid and produce negative amounts (discount and credit lines).
func LineAmount(quantity, unitPrice int64) int64 {
	return quantity * unitPrice
}

// QuotationTotals holds the three-part totals block of a quotation.
type QuotationTotals struct {
	SupplyAmount int64 `json:"supplyAmount"`
	TaxAmount    int64 `json:"taxAmount"`
	TotalAmount  int64 `json:"totalAmount"`
}

// ComputeTotals derives the totals block from scratch. It is always a
// full recomputation, never an incremental adjustment, so repeated edits
// cannot drift. Negative line amounts participate in the sum without
// special-casing.
func ComputeTotals(items []QuotationItem) QuotationTotals {
	var supply int64
	for _, it := range items {
		supply += LineAmount(it.Quantity, it.UnitPrice)
	}
	tax := roundHalfUpTenth(supply)
	return QuotationTotals{
		SupplyAmount: supply,
		TaxAmount:    tax,
		TotalAmount:  supply + tax,
	}
}

// roundHalfUpTenth returns n/10 rounded half-up, matching the rounding
// previously issued documents were computed with. Half-up rounds toward
// positive infinity on ties, so -45/10 rounds to -4.
func roundHalfUpTenth(n int64) int64 {
	v := n + 5
	q := v / 10
	if v%10 != 0 && v < 0 {
		q--
	}
	return q
}
