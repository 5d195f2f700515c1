package domain

import "strings"

// ReasonCategory is the grouping letter for close reasons.
type ReasonCategory string

const (
	ReasonCategoryClient    ReasonCategory = "C"
	ReasonCategoryPrice     ReasonCategory = "P"
	ReasonCategoryRival     ReasonCategory = "R"
	ReasonCategoryInternal  ReasonCategory = "I"
	ReasonCategoryStrategic ReasonCategory = "S"
)

// CloseReason is a fixed catalog entry explaining why a deal closed.
// Codes follow the pattern [CPRIS]\d\d; the leading letter is the
// category.
type CloseReason struct {
	Code     string
	Label    string
	Category ReasonCategory
}

// CloseReasons is the immutable close-reason catalog. Loaded once at
// process start; the admin settings tables are a separate CRUD path and
// never touch this data.
var CloseReasons = []CloseReason{
	{Code: "C01", Label: "고객 내부 사정", Category: ReasonCategoryClient},
	{Code: "C02", Label: "예산 확보 실패", Category: ReasonCategoryClient},
	{Code: "C03", Label: "도입 의지 없음", Category: ReasonCategoryClient},
	{Code: "C04", Label: "담당자 변경", Category: ReasonCategoryClient},
	{Code: "P01", Label: "가격 경쟁력 부족", Category: ReasonCategoryPrice},
	{Code: "P02", Label: "할인 조건 결렬", Category: ReasonCategoryPrice},
	{Code: "R01", Label: "경쟁사 선택", Category: ReasonCategoryRival},
	{Code: "R02", Label: "기존 업체 유지", Category: ReasonCategoryRival},
	{Code: "I01", Label: "대응 지연", Category: ReasonCategoryInternal},
	{Code: "I02", Label: "내부 리소스 부족", Category: ReasonCategoryInternal},
	{Code: "S01", Label: "전략적 보류", Category: ReasonCategoryStrategic},
	{Code: "S02", Label: "타겟 부적합", Category: ReasonCategoryStrategic},
}

var closeReasonsByCode = func() map[string]CloseReason {
	m := make(map[string]CloseReason, len(CloseReasons))
	for _, r := range CloseReasons {
		m[r.Code] = r
	}
	return m
}()

// CloseReasonByCode looks up a close reason in the fixed catalog.
// Absence is reported via the bool, never an error: this feeds UI
// rendering directly.
func CloseReasonByCode(code string) (CloseReason, bool) {
	r, ok := closeReasonsByCode[code]
	return r, ok
}

// CloseReasonText renders a comma-separated list of close reason codes
// as "<code> <label>" entries joined with " / ". Empty input renders as
// "-". Codes missing from the catalog are echoed as-is so historical
// data is never silently lost.
func CloseReasonText(codes string) string {
	codes = strings.TrimSpace(codes)
	if codes == "" {
		return "-"
	}
	parts := strings.Split(codes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		code := strings.TrimSpace(p)
		if code == "" {
			continue
		}
		if r, ok := closeReasonsByCode[code]; ok {
			out = append(out, r.Code+" "+r.Label)
		} else {
			out = append(out, code)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, " / ")
}

// RecontactReasonFreeText is the sentinel code meaning the stored value
// is itself the free-text reason, not a catalog key.
const RecontactReasonFreeText = "RC99"

// RecontactCatalog maps fixed recontact reason codes to labels. RC99 is
// deliberately absent: it has no label of its own.
var RecontactCatalog = map[string]string{
	"RC01": "담당자 부재",
	"RC02": "예산 시즌 재논의",
	"RC03": "프로젝트 연기",
	"RC04": "조직 개편 대기",
	"RC05": "계약 만료 시점 재접촉",
}

// RecontactReason is the tagged form of a stored recontact value: either
// a catalog code or free text carried under the RC99 sentinel.
type RecontactReason struct {
	Code     string
	FreeText bool
}

// ParseRecontactReason classifies a stored recontact value. RC99 and any
// value outside the catalog are treated as free text.
func ParseRecontactReason(value string) RecontactReason {
	if value == RecontactReasonFreeText {
		return RecontactReason{Code: value, FreeText: true}
	}
	if _, ok := RecontactCatalog[value]; ok {
		return RecontactReason{Code: value}
	}
	return RecontactReason{Code: value, FreeText: true}
}

// Text renders the reason for display. Catalog codes resolve to their
// label; free text is returned verbatim.
func (r RecontactReason) Text() string {
	if r.FreeText {
		return r.Code
	}
	return RecontactCatalog[r.Code]
}

// RecontactReasonText resolves a stored recontact value for display.
// The RC99 sentinel and unknown values come back verbatim; catalog codes
// resolve to their label.
func RecontactReasonText(value string) string {
	if value == "" {
		return "-"
	}
	r := ParseRecontactReason(value)
	return r.Text()
}
