package domain

import "strings"

// Stage represents a deal's position in the sales pipeline.
// Canonical form is "S{n}_{label}". The side-state S7_recontact sits
// outside the linear pipeline: it parks a deal for a future follow-up.
type Stage string

const (
	StageNewLead       Stage = "S0_new_lead"
	StageContacted     Stage = "S1_contacted"
	StageNeedsAnalysis Stage = "S2_needs_analysis"
	StageProposal      Stage = "S3_proposal"
	StageNegotiation   Stage = "S4_negotiation"
	StageContract      Stage = "S5_contract"
	StageComplete      Stage = "S6_complete"
	StageRecontact     Stage = "S7_recontact"
)

// PipelineStages lists all canonical stages in pipeline order,
// S7_recontact last.
var PipelineStages = []Stage{
	StageNewLead,
	StageContacted,
	StageNeedsAnalysis,
	StageProposal,
	StageNegotiation,
	StageContract,
	StageComplete,
	StageRecontact,
}

// StageLabels maps canonical stages to Korean display labels.
var StageLabels = map[Stage]string{
	StageNewLead:       "신규 리드",
	StageContacted:     "컨택 완료",
	StageNeedsAnalysis: "니즈 파악",
	StageProposal:      "제안 발송",
	StageNegotiation:   "협상 진행",
	StageContract:      "계약 체결",
	StageComplete:      "완료",
	StageRecontact:     "재접촉 예정",
}

// legacyEnglishStages maps stage names from the first English-only data
// model to canonical stages. Keys are stored lowercase.
var legacyEnglishStages = map[string]Stage{
	"new_lead":       StageNewLead,
	"lead":           StageNewLead,
	"new":            StageNewLead,
	"contacted":      StageContacted,
	"contact":        StageContacted,
	"needs_analysis": StageNeedsAnalysis,
	"qualification":  StageNeedsAnalysis,
	"qualified":      StageNeedsAnalysis,
	"proposal":       StageProposal,
	"proposal_sent":  StageProposal,
	"negotiation":    StageNegotiation,
	"negotiating":    StageNegotiation,
	"contract":       StageContract,
	"contract_sent":  StageContract,
	"complete":       StageComplete,
	"completed":      StageComplete,
	"won":            StageComplete,
	"closed":         StageComplete,
	"recontact":      StageRecontact,
	"follow_up":      StageRecontact,
}

// legacyKoreanStages maps stage names from the Korean-labelled data era
// to canonical stages.
var legacyKoreanStages = map[string]Stage{
	"신규 리드":  StageNewLead,
	"신규리드":   StageNewLead,
	"리드":     StageNewLead,
	"컨택 완료":  StageContacted,
	"컨택":     StageContacted,
	"접촉":     StageContacted,
	"니즈 파악":  StageNeedsAnalysis,
	"니즈파악":   StageNeedsAnalysis,
	"제안 발송":  StageProposal,
	"제안발송":   StageProposal,
	"제안":     StageProposal,
	"협상 진행":  StageNegotiation,
	"협상":     StageNegotiation,
	"계약 체결":  StageContract,
	"계약":     StageContract,
	"완료":     StageComplete,
	"계약 완료":  StageComplete,
	"재접촉 예정": StageRecontact,
	"재접촉":    StageRecontact,
}

// prefixStages indexes canonical stages by their "S{n}" prefix.
var prefixStages = map[string]Stage{
	"S0": StageNewLead,
	"S1": StageContacted,
	"S2": StageNeedsAnalysis,
	"S3": StageProposal,
	"S4": StageNegotiation,
	"S5": StageContract,
	"S6": StageComplete,
	"S7": StageRecontact,
}

// NormalizeStage maps a possibly legacy stage string to its canonical
// form. Resolution order: literal "S0".."S7" prefix, English legacy
// names, Korean legacy names. Unknown input is returned unchanged so
// unexpected historical values stay visible instead of being dropped.
func NormalizeStage(raw string) Stage {
	if len(raw) >= 2 {
		if s, ok := prefixStages[raw[:2]]; ok {
			return s
		}
	}
	if s, ok := legacyEnglishStages[strings.ToLower(raw)]; ok {
		return s
	}
	if s, ok := legacyKoreanStages[raw]; ok {
		return s
	}
	return Stage(raw)
}

// IsCanonical reports whether s is one of the eight canonical stages.
func (s Stage) IsCanonical() bool {
	_, ok := StageLabels[s]
	return ok
}

// IsTerminal reports whether the stage ends the active pipeline.
// S6_complete is the closed state; S7_recontact parks the deal.
func (s Stage) IsTerminal() bool {
	return s == StageComplete || s == StageRecontact
}

// Label returns the Korean display label, or the raw value for
// non-canonical stages.
func (s Stage) Label() string {
	if l, ok := StageLabels[s]; ok {
		return l
	}
	return string(s)
}
