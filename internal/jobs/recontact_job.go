package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"go.uber.org/zap"
)

// RecontactJob sweeps parked deals whose recontact date has arrived and
// notifies the owning salesperson. Each deal is notified exactly once:
// the sweep only picks deals without a notified timestamp and stamps
// them after the notification is written.
type RecontactJob struct {
	dealRepo         *repository.DealRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewRecontactJob(
	dealRepo *repository.DealRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *RecontactJob {
	return &RecontactJob{
		dealRepo:         dealRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Run executes one sweep. Failures on individual deals are logged and
// skipped so one bad row cannot stall the rest of the batch.
func (j *RecontactJob) Run(ctx context.Context) {
	now := time.Now().UTC()

	due, err := j.dealRepo.ListRecontactDue(ctx, now)
	if err != nil {
		j.logger.Error("recontact sweep failed to list due deals", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	j.logger.Info("recontact sweep found due deals", zap.Int("count", len(due)))

	notified := 0
	for _, deal := range due {
		if deal.OwnerID == "" {
			continue
		}

		notification := &domain.Notification{
			UserID:     deal.OwnerID,
			Type:       string(domain.NotificationTypeRecontactDue),
			Title:      "재접촉 예정일 도래",
			Message:    fmt.Sprintf("%s 딜의 재접촉 예정일이 되었습니다: %s", deal.Name, domain.RecontactReasonText(deal.RecontactReason)),
			EntityID:   &deal.ID,
			EntityType: "deal",
		}
		if err := j.notificationRepo.Create(ctx, notification); err != nil {
			j.logger.Error("failed to create recontact notification",
				zap.String("dealId", deal.ID.String()),
				zap.Error(err))
			continue
		}

		if err := j.dealRepo.MarkRecontactNotified(ctx, deal.ID, now); err != nil {
			j.logger.Error("failed to mark deal as notified",
				zap.String("dealId", deal.ID.String()),
				zap.Error(err))
			continue
		}
		notified++
	}

	j.logger.Info("recontact sweep completed",
		zap.Int("due", len(due)),
		zap.Int("notified", notified))
}
