package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// unknownReasonBucket collects closed deals that carry no reason codes.
const unknownReasonBucket = "사유 미상"

// ReportService produces pipeline statistics and spreadsheet exports.
type ReportService struct {
	dealRepo *repository.DealRepository
	logger   *zap.Logger
}

func NewReportService(dealRepo *repository.DealRepository, logger *zap.Logger) *ReportService {
	return &ReportService{dealRepo: dealRepo, logger: logger}
}

// GetPipelineStats aggregates deal counts and amounts per stage plus
// close-reason buckets. Legacy stage values stored before the S-prefix
// rename are folded into their canonical stage; every canonical stage
// appears in the result even when empty.
func (s *ReportService) GetPipelineStats(ctx context.Context) (*domain.PipelineStatsDTO, error) {
	rows, err := s.dealRepo.GetStageAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stages: %w", err)
	}

	counts := make(map[domain.Stage]int64)
	amounts := make(map[domain.Stage]int64)
	for _, row := range rows {
		stage := domain.NormalizeStage(string(row.Stage))
		counts[stage] += row.DealCount
		amounts[stage] += row.TotalAmount
	}

	stages := make([]domain.StageSummary, 0, len(domain.PipelineStages))
	for _, stage := range domain.PipelineStages {
		stages = append(stages, domain.StageSummary{
			Stage:       stage,
			StageLabel:  stage.Label(),
			DealCount:   counts[stage],
			TotalAmount: amounts[stage],
		})
	}

	closeReasons, err := s.closeReasonBuckets(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.PipelineStatsDTO{
		Stages:       stages,
		CloseReasons: closeReasons,
		GeneratedAt:  time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}

// closeReasonBuckets counts closed deals per catalog reason. A deal
// with several codes counts once per code; deals with no codes land in
// the unknown bucket.
func (s *ReportService) closeReasonBuckets(ctx context.Context) ([]domain.CloseReasonBucket, error) {
	closed, err := s.dealRepo.ListClosed(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed deals: %w", err)
	}

	buckets := make(map[string]int64)
	for _, deal := range closed {
		codes := strings.TrimSpace(deal.CloseReasonCodes)
		if codes == "" {
			buckets[unknownReasonBucket]++
			continue
		}
		seen := false
		for _, part := range strings.Split(codes, ",") {
			code := strings.TrimSpace(part)
			if code == "" {
				continue
			}
			seen = true
			if reason, ok := domain.CloseReasonByCode(code); ok {
				buckets[reason.Code+" "+reason.Label]++
			} else {
				buckets[code]++
			}
		}
		if !seen {
			buckets[unknownReasonBucket]++
		}
	}

	out := make([]domain.CloseReasonBucket, 0, len(buckets))
	for text, count := range buckets {
		out = append(out, domain.CloseReasonBucket{ReasonText: text, DealCount: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DealCount != out[j].DealCount {
			return out[i].DealCount > out[j].DealCount
		}
		return out[i].ReasonText < out[j].ReasonText
	})
	return out, nil
}

var dealExportHeaders = []string{
	"딜명", "거래처", "단계", "금액", "담당자", "유입 경로", "채널",
	"종료 사유", "재접촉 예정일", "재접촉 사유", "종료일", "생성일",
}

// ExportDeals renders every deal as an xlsx workbook and returns the
// file contents.
func (s *ReportService) ExportDeals(ctx context.Context) ([]byte, error) {
	deals, err := s.dealRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Deals"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, header := range dealExportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	for rowIdx, deal := range deals {
		stage := domain.NormalizeStage(string(deal.Stage))
		values := []interface{}{
			deal.Name,
			deal.AccountName,
			stage.Label(),
			deal.Amount,
			deal.OwnerName,
			deal.Source,
			deal.Channel,
			domain.CloseReasonText(deal.CloseReasonCodes),
			formatExportDate(deal.RecontactDate),
			domain.RecontactReasonText(deal.RecontactReason),
			formatExportDate(deal.ClosedAt),
			deal.CreatedAt.Format("2006-01-02"),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write cell: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "L", 16); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatExportDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
