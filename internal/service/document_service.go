package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

// quotationTemplate is the fixed print layout. The issuer block renders
// the legal entity's registration data verbatim; the totals block shows
// supply amount, VAT and grand total.
const quotationTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>견적서 {{.Number}}</title>
<style>
body { font-family: 'Malgun Gothic', sans-serif; margin: 40px; }
h1 { text-align: center; letter-spacing: 24px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #333; padding: 6px 10px; font-size: 13px; }
th { background: #f0f0f0; }
td.num { text-align: right; }
.issuer td { border: none; font-size: 12px; padding: 2px 6px; }
.totals td { font-weight: bold; }
</style>
</head>
<body>
<h1>견적서</h1>
<p>견적번호: {{.Number}}{{if .ValidUntil}} / 유효기간: {{.ValidUntil}}{{end}}</p>
<table class="issuer">
<tr><td>공급자</td><td>{{.Issuer.Name}}</td></tr>
<tr><td>등록번호</td><td>{{.Issuer.RegistrationNumber}}</td></tr>
<tr><td>대표자</td><td>{{.Issuer.CEO}}</td></tr>
<tr><td>주소</td><td>{{.Issuer.Address}}</td></tr>
{{if .Issuer.Phone}}<tr><td>연락처</td><td>{{.Issuer.Phone}}</td></tr>{{end}}
</table>
{{if .AccountName}}<p>수신: {{.AccountName}} 귀중</p>{{end}}
<p>건명: {{.Title}}</p>
<table>
<tr><th>품목</th><th>수량</th><th>단가</th><th>금액</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td class="num">{{won .Quantity}}</td><td class="num">{{won .UnitPrice}}</td><td class="num">{{won .Amount}}</td></tr>
{{end}}<tr class="totals"><td colspan="3">공급가액</td><td class="num">{{won .SupplyAmount}}</td></tr>
<tr class="totals"><td colspan="3">부가세 (10%)</td><td class="num">{{won .TaxAmount}}</td></tr>
<tr class="totals"><td colspan="3">합계금액</td><td class="num">{{won .TotalAmount}}</td></tr>
</table>
{{if .Notes}}<p>비고: {{.Notes}}</p>{{end}}
</body>
</html>
`

var wonPrinter = message.NewPrinter(language.Korean)

var quotationTmpl = template.Must(template.New("quotation").Funcs(template.FuncMap{
	"won": func(n int64) string { return wonPrinter.Sprintf("%d", n) },
}).Parse(quotationTemplate))

type quotationDocumentData struct {
	Number       string
	Title        string
	ValidUntil   string
	AccountName  string
	Notes        string
	Issuer       *domain.Issuer
	Items        []domain.QuotationItem
	SupplyAmount int64
	TaxAmount    int64
	TotalAmount  int64
}

// DocumentService renders quotations into the fixed print layout and
// archives the result.
type DocumentService struct {
	quotationRepo *repository.QuotationRepository
	issuerRepo    *repository.IssuerRepository
	store         storage.Storage
	logger        *zap.Logger
}

func NewDocumentService(
	quotationRepo *repository.QuotationRepository,
	issuerRepo *repository.IssuerRepository,
	store storage.Storage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		quotationRepo: quotationRepo,
		issuerRepo:    issuerRepo,
		store:         store,
		logger:        logger,
	}
}

// Render produces the printable document for a quotation.
func (s *DocumentService) Render(ctx context.Context, id uuid.UUID) ([]byte, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return s.render(ctx, quotation)
}

// RenderAndArchive renders the document and stores it under the
// quotation's number. Returns the document bytes and the storage path.
func (s *DocumentService) RenderAndArchive(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get quotation: %w", err)
	}

	doc, err := s.render(ctx, quotation)
	if err != nil {
		return nil, "", err
	}

	path := fmt.Sprintf("quotations/%s.html", quotation.Number)
	if _, err := s.store.Save(ctx, path, "text/html; charset=utf-8", bytes.NewReader(doc)); err != nil {
		return nil, "", fmt.Errorf("failed to archive document: %w", err)
	}

	s.logger.Info("quotation document archived",
		zap.String("number", quotation.Number),
		zap.String("path", path),
	)
	return doc, path, nil
}

func (s *DocumentService) render(ctx context.Context, quotation *domain.Quotation) ([]byte, error) {
	issuer := quotation.Issuer
	if issuer == nil {
		loaded, err := s.issuerRepo.GetByID(ctx, quotation.IssuerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load issuer: %w", err)
		}
		issuer = loaded
	}

	data := quotationDocumentData{
		Number:       quotation.Number,
		Title:        quotation.Title,
		Notes:        quotation.Notes,
		Issuer:       issuer,
		Items:        quotation.Items,
		SupplyAmount: quotation.SupplyAmount,
		TaxAmount:    quotation.TaxAmount,
		TotalAmount:  quotation.TotalAmount,
	}
	if quotation.ValidUntil != nil {
		data.ValidUntil = quotation.ValidUntil.Format("2006-01-02")
	}
	if quotation.Account != nil {
		data.AccountName = quotation.Account.Name
	}

	var buf bytes.Buffer
	if err := quotationTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}
