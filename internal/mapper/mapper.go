package mapper

import (
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
)

const isoLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ToAccountDTO converts Account to AccountDTO
func ToAccountDTO(account *domain.Account, activeDeals int) domain.AccountDTO {
	return domain.AccountDTO{
		ID:                 account.ID,
		Name:               account.Name,
		RegistrationNumber: account.RegistrationNumber,
		Industry:           account.Industry,
		Website:            account.Website,
		Phone:              account.Phone,
		Address:            account.Address,
		Grade:              account.Grade,
		Source:             account.Source,
		Channel:            account.Channel,
		Notes:              account.Notes,
		CreatedAt:          formatTime(account.CreatedAt),
		UpdatedAt:          formatTime(account.UpdatedAt),
		ActiveDeals:        activeDeals,
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	dto := domain.ContactDTO{
		ID:        contact.ID,
		Name:      contact.Name,
		Title:     contact.Title,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Mobile:    contact.Mobile,
		AccountID: contact.AccountID,
		Notes:     contact.Notes,
		IsActive:  contact.IsActive,
		CreatedAt: formatTime(contact.CreatedAt),
		UpdatedAt: formatTime(contact.UpdatedAt),
	}
	if contact.Account != nil {
		dto.AccountName = contact.Account.Name
	}
	return dto
}

// ToDealDTO converts Deal to DealDTO. Stages are normalized on write,
// so the stored value is used as-is; reason codes are resolved to
// display text here.
func ToDealDTO(deal *domain.Deal) domain.DealDTO {
	dto := domain.DealDTO{
		ID:               deal.ID,
		Name:             deal.Name,
		AccountID:        deal.AccountID,
		AccountName:      deal.AccountName,
		Stage:            deal.Stage,
		StageLabel:       deal.Stage.Label(),
		Amount:           deal.Amount,
		OwnerID:          deal.OwnerID,
		OwnerName:        deal.OwnerName,
		NeedsSummary:     deal.NeedsSummary,
		Source:           deal.Source,
		Channel:          deal.Channel,
		FirstContactDate: formatDatePtr(deal.FirstContactDate),
		LastContactDate:  formatDatePtr(deal.LastContactDate),
		RecontactDate:    formatDatePtr(deal.RecontactDate),
		RecontactReason:  deal.RecontactReason,
		CloseReasonCodes: deal.CloseReasonCodes,
		CloseReasonText:  domain.CloseReasonText(deal.CloseReasonCodes),
		ClosedAt:         deal.ClosedAt,
		CreatedAt:        formatTime(deal.CreatedAt),
		UpdatedAt:        formatTime(deal.UpdatedAt),
	}
	if deal.Account != nil {
		dto.AccountName = deal.Account.Name
	}
	if deal.RecontactReason != "" {
		dto.RecontactReasonText = domain.RecontactReasonText(deal.RecontactReason)
	}
	return dto
}

// ToDealStageHistoryDTO converts DealStageHistory to its DTO
func ToDealStageHistoryDTO(h *domain.DealStageHistory) domain.DealStageHistoryDTO {
	return domain.DealStageHistoryDTO{
		ID:            h.ID,
		DealID:        h.DealID,
		FromStage:     h.FromStage,
		ToStage:       h.ToStage,
		ChangedByID:   h.ChangedByID,
		ChangedByName: h.ChangedByName,
		Notes:         h.Notes,
		ChangedAt:     formatTime(h.ChangedAt),
	}
}

// ToQuotationItemDTO converts QuotationItem to its DTO
func ToQuotationItemDTO(item *domain.QuotationItem) domain.QuotationItemDTO {
	return domain.QuotationItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		Amount:       item.Amount,
		DisplayOrder: item.DisplayOrder,
	}
}

// ToQuotationDTO converts Quotation to QuotationDTO, including items.
func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	items := make([]domain.QuotationItemDTO, 0, len(q.Items))
	for i := range q.Items {
		items = append(items, ToQuotationItemDTO(&q.Items[i]))
	}
	dto := domain.QuotationDTO{
		ID:           q.ID,
		Number:       q.Number,
		IssuerID:     q.IssuerID,
		DealID:       q.DealID,
		AccountID:    q.AccountID,
		Title:        q.Title,
		Status:       q.Status,
		SupplyAmount: q.SupplyAmount,
		TaxAmount:    q.TaxAmount,
		TotalAmount:  q.TotalAmount,
		ValidUntil:   formatDatePtr(q.ValidUntil),
		Notes:        q.Notes,
		CreatedBy:    q.CreatedBy,
		Items:        items,
		CreatedAt:    formatTime(q.CreatedAt),
		UpdatedAt:    formatTime(q.UpdatedAt),
	}
	if q.Issuer != nil {
		dto.IssuerName = q.Issuer.Name
	}
	if q.Account != nil {
		dto.AccountName = q.Account.Name
	}
	return dto
}

// ToQuotationPresetDTO converts QuotationPreset to its DTO. Preset
// items have no stored amount, so line amounts are computed for display.
func ToQuotationPresetDTO(p *domain.QuotationPreset) domain.QuotationPresetDTO {
	items := make([]domain.QuotationItemDTO, 0, len(p.Items))
	for i := range p.Items {
		item := &p.Items[i]
		items = append(items, domain.QuotationItemDTO{
			ID:           item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Amount:       domain.LineAmount(item.Quantity, item.UnitPrice),
			DisplayOrder: item.DisplayOrder,
		})
	}
	return domain.QuotationPresetDTO{
		ID:        p.ID,
		Name:      p.Name,
		IssuerID:  p.IssuerID,
		Title:     p.Title,
		Notes:     p.Notes,
		Items:     items,
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

// ToSettingEntryDTO converts SettingEntry to its DTO
func ToSettingEntryDTO(e *domain.SettingEntry) domain.SettingEntryDTO {
	return domain.SettingEntryDTO{
		ID:           e.ID,
		Category:     e.Category,
		Value:        e.Value,
		DisplayOrder: e.DisplayOrder,
	}
}

// ToTaskDTO converts Task to TaskDTO
func ToTaskDTO(t *domain.Task) domain.TaskDTO {
	return domain.TaskDTO{
		ID:           t.ID,
		Title:        t.Title,
		Body:         t.Body,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      formatDatePtr(t.DueDate),
		CompletedAt:  t.CompletedAt,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		DealID:       t.DealID,
		Tags:         t.Tags,
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
	}
}

// ToMemoDTO converts Memo to MemoDTO
func ToMemoDTO(m *domain.Memo) domain.MemoDTO {
	return domain.MemoDTO{
		ID:          m.ID,
		TargetType:  m.TargetType,
		TargetID:    m.TargetID,
		Body:        m.Body,
		Pinned:      m.Pinned,
		CreatorName: m.CreatorName,
		CreatedAt:   formatTime(m.CreatedAt),
		UpdatedAt:   formatTime(m.UpdatedAt),
	}
}

// ToFeatureRequestDTO converts FeatureRequest to its DTO
func ToFeatureRequestDTO(fr *domain.FeatureRequest) domain.FeatureRequestDTO {
	return domain.FeatureRequestDTO{
		ID:            fr.ID,
		Title:         fr.Title,
		Body:          fr.Body,
		Status:        fr.Status,
		Priority:      fr.Priority,
		RequesterName: fr.RequesterName,
		CreatedAt:     formatTime(fr.CreatedAt),
		UpdatedAt:     formatTime(fr.UpdatedAt),
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(a *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:          a.ID,
		TargetType:  a.TargetType,
		TargetID:    a.TargetID,
		Title:       a.Title,
		Body:        a.Body,
		OccurredAt:  formatTime(a.OccurredAt),
		CreatorName: a.CreatorName,
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(n *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		EntityID:   n.EntityID,
		EntityType: n.EntityType,
		CreatedAt:  formatTime(n.CreatedAt),
	}
}
