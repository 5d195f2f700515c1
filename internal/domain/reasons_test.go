package domain_test

import (
	"testing"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCloseReasonByCode(t *testing.T) {
	r, ok := domain.CloseReasonByCode("C01")
	assert.True(t, ok)
	assert.Equal(t, "고객 내부 사정", r.Label)
	assert.Equal(t, domain.ReasonCategoryClient, r.Category)

	r, ok = domain.CloseReasonByCode("P01")
	assert.True(t, ok)
	assert.Equal(t, domain.ReasonCategoryPrice, r.Category)

	_, ok = domain.CloseReasonByCode("X99")
	assert.False(t, ok)
}

func TestCloseReasonCatalog_Categories(t *testing.T) {
	// Every code's leading letter must match its category.
	for _, r := range domain.CloseReasons {
		assert.Equal(t, string(r.Category), r.Code[:1], r.Code)
	}
}

func TestCloseReasonText(t *testing.T) {
	tests := []struct {
		name     string
		codes    string
		expected string
	}{
		{"empty", "", "-"},
		{"whitespace only", "  ", "-"},
		{"single code", "C01", "C01 고객 내부 사정"},
		{"multiple codes", "C01,P01", "C01 고객 내부 사정 / P01 가격 경쟁력 부족"},
		{"codes with spaces", " C01 , R02 ", "C01 고객 내부 사정 / R02 기존 업체 유지"},
		{"unknown code echoed", "Z42", "Z42"},
		{"mixed known and unknown", "C01,Z42", "C01 고객 내부 사정 / Z42"},
		{"empty segments skipped", "C01,,", "C01 고객 내부 사정"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.CloseReasonText(tt.codes))
		})
	}
}

func TestParseRecontactReason(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		freeText bool
	}{
		{"catalog code", "RC01", false},
		{"another catalog code", "RC05", false},
		{"free text sentinel", "RC99", true},
		{"arbitrary free text", "다음 분기 예산 확정 후 연락", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.ParseRecontactReason(tt.value)
			assert.Equal(t, tt.freeText, r.FreeText)
			assert.Equal(t, tt.value, r.Code)
		})
	}
}

func TestRecontactReasonText(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"empty", "", "-"},
		{"catalog code resolves to label", "RC01", "담당자 부재"},
		{"budget season", "RC02", "예산 시즌 재논의"},
		{"free text verbatim", "내년 초 재논의", "내년 초 재논의"},
		{"sentinel verbatim", "RC99", "RC99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.RecontactReasonText(tt.value))
		})
	}
}
