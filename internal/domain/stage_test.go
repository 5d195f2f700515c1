package domain_test

import (
	"testing"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStage_CanonicalPassthrough(t *testing.T) {
	for _, stage := range domain.PipelineStages {
		t.Run(string(stage), func(t *testing.T) {
			assert.Equal(t, stage, domain.NormalizeStage(string(stage)))
		})
	}
}

func TestNormalizeStage_PrefixOnly(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected domain.Stage
	}{
		{"bare S0", "S0", domain.StageNewLead},
		{"bare S7", "S7", domain.StageRecontact},
		{"prefix with odd suffix", "S3_old_label", domain.StageProposal},
		{"prefix with korean suffix", "S5_계약", domain.StageContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeStage(tt.raw))
		})
	}
}

func TestNormalizeStage_LegacyEnglish(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected domain.Stage
	}{
		{"lead", "lead", domain.StageNewLead},
		{"new", "new", domain.StageNewLead},
		{"contacted", "contacted", domain.StageContacted},
		{"qualification", "qualification", domain.StageNeedsAnalysis},
		{"proposal_sent", "proposal_sent", domain.StageProposal},
		{"negotiating", "negotiating", domain.StageNegotiation},
		{"contract_sent", "contract_sent", domain.StageContract},
		{"won", "won", domain.StageComplete},
		{"closed", "closed", domain.StageComplete},
		{"follow_up", "follow_up", domain.StageRecontact},
		{"uppercase input", "WON", domain.StageComplete},
		{"mixed case input", "Proposal", domain.StageProposal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeStage(tt.raw))
		})
	}
}

func TestNormalizeStage_LegacyKorean(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected domain.Stage
	}{
		{"신규 리드", "신규 리드", domain.StageNewLead},
		{"신규리드 no space", "신규리드", domain.StageNewLead},
		{"컨택", "컨택", domain.StageContacted},
		{"니즈파악", "니즈파악", domain.StageNeedsAnalysis},
		{"제안", "제안", domain.StageProposal},
		{"협상", "협상", domain.StageNegotiation},
		{"계약 체결", "계약 체결", domain.StageContract},
		{"계약 완료", "계약 완료", domain.StageComplete},
		{"재접촉", "재접촉", domain.StageRecontact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeStage(tt.raw))
		})
	}
}

func TestNormalizeStage_UnknownPreserved(t *testing.T) {
	// Unknown historical values must stay visible, not collapse to a
	// default stage.
	assert.Equal(t, domain.Stage("archived"), domain.NormalizeStage("archived"))
	assert.Equal(t, domain.Stage(""), domain.NormalizeStage(""))
	assert.False(t, domain.NormalizeStage("archived").IsCanonical())
}

func TestStage_IsCanonical(t *testing.T) {
	for _, stage := range domain.PipelineStages {
		assert.True(t, stage.IsCanonical(), string(stage))
	}
	assert.False(t, domain.Stage("S8_unknown").IsCanonical())
	assert.False(t, domain.Stage("draft").IsCanonical())
}

func TestStage_IsTerminal(t *testing.T) {
	assert.True(t, domain.StageComplete.IsTerminal())
	assert.True(t, domain.StageRecontact.IsTerminal())
	assert.False(t, domain.StageNewLead.IsTerminal())
	assert.False(t, domain.StageNegotiation.IsTerminal())
}

func TestStage_Label(t *testing.T) {
	assert.Equal(t, "신규 리드", domain.StageNewLead.Label())
	assert.Equal(t, "재접촉 예정", domain.StageRecontact.Label())
	// Non-canonical stages fall back to the raw value.
	assert.Equal(t, "whatever", domain.Stage("whatever").Label())
}

func TestPipelineStages_Order(t *testing.T) {
	assert.Len(t, domain.PipelineStages, 8)
	assert.Equal(t, domain.StageNewLead, domain.PipelineStages[0])
	assert.Equal(t, domain.StageComplete, domain.PipelineStages[6])
	assert.Equal(t, domain.StageRecontact, domain.PipelineStages[7])
}
