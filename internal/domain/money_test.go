package domain_test

import (
	"testing"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLineAmount(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int64
		unitPrice int64
		expected  int64
	}{
		{"simple", 2, 500000, 1000000},
		{"single unit", 1, 330000, 330000},
		{"discount line", 1, -100000, -100000},
		{"zero price", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.LineAmount(tt.quantity, tt.unitPrice))
		})
	}
}

func TestComputeTotals(t *testing.T) {
	items := []domain.QuotationItem{
		{Quantity: 2, UnitPrice: 500000},
		{Quantity: 1, UnitPrice: -100000},
	}

	totals := domain.ComputeTotals(items)

	assert.Equal(t, int64(900000), totals.SupplyAmount)
	assert.Equal(t, int64(90000), totals.TaxAmount)
	assert.Equal(t, int64(990000), totals.TotalAmount)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := domain.ComputeTotals(nil)

	assert.Equal(t, int64(0), totals.SupplyAmount)
	assert.Equal(t, int64(0), totals.TaxAmount)
	assert.Equal(t, int64(0), totals.TotalAmount)
}

func TestComputeTotals_TaxRounding(t *testing.T) {
	tests := []struct {
		name     string
		supply   int64
		expected int64
	}{
		{"exact tenth", 100, 10},
		{"rounds down", 104, 10},
		{"half rounds up", 105, 11},
		{"rounds up", 109, 11},
		{"negative rounds toward zero", -44, -4},
		{"negative half rounds up", -45, -4},
		{"negative past half rounds down", -46, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := domain.ComputeTotals([]domain.QuotationItem{
				{Quantity: 1, UnitPrice: tt.supply},
			})
			assert.Equal(t, tt.expected, totals.TaxAmount)
			assert.Equal(t, tt.supply+tt.expected, totals.TotalAmount)
		})
	}
}

func TestComputeTotals_NegativeOverall(t *testing.T) {
	// A credit-only quotation has negative totals throughout.
	items := []domain.QuotationItem{
		{Quantity: 1, UnitPrice: -200000},
	}

	totals := domain.ComputeTotals(items)

	assert.Equal(t, int64(-200000), totals.SupplyAmount)
	assert.Equal(t, int64(-20000), totals.TaxAmount)
	assert.Equal(t, int64(-220000), totals.TotalAmount)
}
