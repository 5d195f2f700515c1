package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps list results with paging metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ---- Accounts ----

type AccountDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	Industry           string    `json:"industry,omitempty"`
	Website            string    `json:"website,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Address            string    `json:"address,omitempty"`
	Grade              string    `json:"grade,omitempty"`
	Source             string    `json:"source,omitempty"`
	Channel            string    `json:"channel,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          string    `json:"createdAt"` // ISO 8601
	UpdatedAt          string    `json:"updatedAt"` // ISO 8601
	ActiveDeals        int       `json:"activeDeals,omitempty"`
}

type CreateAccountRequest struct {
	Name               string `json:"name" validate:"required,max=200"`
	RegistrationNumber string `json:"registrationNumber" validate:"max=20"`
	Industry           string `json:"industry" validate:"max=100"`
	Website            string `json:"website" validate:"omitempty,url,max=500"`
	Phone              string `json:"phone" validate:"max=50"`
	Address            string `json:"address" validate:"max=500"`
	Grade              string `json:"grade" validate:"max=100"`
	Source             string `json:"source" validate:"max=100"`
	Channel            string `json:"channel" validate:"max=100"`
	Notes              string `json:"notes"`
}

type UpdateAccountRequest = CreateAccountRequest

// ---- Contacts ----

type ContactDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Mobile      string     `json:"mobile,omitempty"`
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
	AccountName string     `json:"accountName,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type CreateContactRequest struct {
	Name      string     `json:"name" validate:"required,max=100"`
	Title     string     `json:"title" validate:"max=100"`
	Email     string     `json:"email" validate:"omitempty,email,max=255"`
	Phone     string     `json:"phone" validate:"max=50"`
	Mobile    string     `json:"mobile" validate:"max=50"`
	AccountID *uuid.UUID `json:"accountId"`
	Notes     string     `json:"notes"`
}

type UpdateContactRequest struct {
	Name      string     `json:"name" validate:"required,max=100"`
	Title     string     `json:"title" validate:"max=100"`
	Email     string     `json:"email" validate:"omitempty,email,max=255"`
	Phone     string     `json:"phone" validate:"max=50"`
	Mobile    string     `json:"mobile" validate:"max=50"`
	AccountID *uuid.UUID `json:"accountId"`
	Notes     string     `json:"notes"`
	IsActive  *bool      `json:"isActive"`
}

// ---- Deals ----

type DealDTO struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	AccountID           uuid.UUID  `json:"accountId"`
	AccountName         string     `json:"accountName,omitempty"`
	Stage               Stage      `json:"stage"`
	StageLabel          string     `json:"stageLabel"`
	Amount              int64      `json:"amount"`
	OwnerID             string     `json:"ownerId"`
	OwnerName           string     `json:"ownerName,omitempty"`
	NeedsSummary        string     `json:"needsSummary,omitempty"`
	Source              string     `json:"source,omitempty"`
	Channel             string     `json:"channel,omitempty"`
	FirstContactDate    string     `json:"firstContactDate,omitempty"`
	LastContactDate     string     `json:"lastContactDate,omitempty"`
	RecontactDate       string     `json:"recontactDate,omitempty"`
	RecontactReason     string     `json:"recontactReason,omitempty"`
	RecontactReasonText string     `json:"recontactReasonText,omitempty"`
	CloseReasonCodes    string     `json:"closeReasonCodes,omitempty"`
	CloseReasonText     string     `json:"closeReasonText"`
	ClosedAt            *time.Time `json:"closedAt,omitempty"`
	CreatedAt           string     `json:"createdAt"`
	UpdatedAt           string     `json:"updatedAt"`
}

type CreateDealRequest struct {
	Name             string     `json:"name" validate:"required,max=200"`
	AccountID        uuid.UUID  `json:"accountId" validate:"required"`
	Stage            string     `json:"stage"`
	Amount           int64      `json:"amount"`
	OwnerID          string     `json:"ownerId" validate:"required,max=100"`
	NeedsSummary     string     `json:"needsSummary"`
	Source           string     `json:"source" validate:"max=100"`
	Channel          string     `json:"channel" validate:"max=100"`
	FirstContactDate *time.Time `json:"firstContactDate"`
	LastContactDate  *time.Time `json:"lastContactDate"`
}

type UpdateDealRequest struct {
	Name            string     `json:"name" validate:"required,max=200"`
	Amount          int64      `json:"amount"`
	OwnerID         string     `json:"ownerId" validate:"max=100"`
	NeedsSummary    string     `json:"needsSummary"`
	Source          string     `json:"source" validate:"max=100"`
	Channel         string     `json:"channel" validate:"max=100"`
	LastContactDate *time.Time `json:"lastContactDate"`
}

// ChangeDealStageRequest moves a deal between non-terminal stages.
type ChangeDealStageRequest struct {
	Stage string `json:"stage" validate:"required"`
	Notes string `json:"notes"`
}

// CloseDealRequest moves a deal to S6_complete. Reason codes are
// optional at write time (soft invariant); reporting surfaces missing
// codes as "reason unknown".
type CloseDealRequest struct {
	CloseReasonCodes string `json:"closeReasonCodes" validate:"max=200"`
	Notes            string `json:"notes"`
}

// RecontactDealRequest parks a deal in S7_recontact. Both fields are
// hard requirements; the date must be in the future.
type RecontactDealRequest struct {
	RecontactDate   time.Time `json:"recontactDate" validate:"required"`
	RecontactReason string    `json:"recontactReason" validate:"required,max=500"`
	Notes           string    `json:"notes"`
}

// CreateDealWithAccountRequest creates an account, a deal referencing
// it, and the initial activity in one atomic write.
type CreateDealWithAccountRequest struct {
	Account CreateAccountRequest `json:"account" validate:"required"`
	Deal    struct {
		Name         string `json:"name" validate:"required,max=200"`
		Stage        string `json:"stage"`
		Amount       int64  `json:"amount"`
		OwnerID      string `json:"ownerId" validate:"required,max=100"`
		NeedsSummary string `json:"needsSummary"`
	} `json:"deal" validate:"required"`
}

type DealStageHistoryDTO struct {
	ID            uuid.UUID `json:"id"`
	DealID        uuid.UUID `json:"dealId"`
	FromStage     *Stage    `json:"fromStage,omitempty"`
	ToStage       Stage     `json:"toStage"`
	ChangedByID   string    `json:"changedById"`
	ChangedByName string    `json:"changedByName,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	ChangedAt     string    `json:"changedAt"`
}

// ---- Quotations ----

type QuotationItemDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Quantity     int64     `json:"quantity"`
	UnitPrice    int64     `json:"unitPrice"`
	Amount       int64     `json:"amount"`
	DisplayOrder int       `json:"displayOrder"`
}

type QuotationDTO struct {
	ID           uuid.UUID          `json:"id"`
	Number       string             `json:"number"`
	IssuerID     IssuerID           `json:"issuerId"`
	IssuerName   string             `json:"issuerName,omitempty"`
	DealID       *uuid.UUID         `json:"dealId,omitempty"`
	AccountID    *uuid.UUID         `json:"accountId,omitempty"`
	AccountName  string             `json:"accountName,omitempty"`
	Title        string             `json:"title"`
	Status       QuotationStatus    `json:"status"`
	SupplyAmount int64              `json:"supplyAmount"`
	TaxAmount    int64              `json:"taxAmount"`
	TotalAmount  int64              `json:"totalAmount"`
	ValidUntil   string             `json:"validUntil,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	CreatedBy    string             `json:"createdBy,omitempty"`
	Items        []QuotationItemDTO `json:"items"`
	CreatedAt    string             `json:"createdAt"`
	UpdatedAt    string             `json:"updatedAt"`
}

type QuotationItemRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Quantity  int64  `json:"quantity" validate:"gte=1"`
	UnitPrice int64  `json:"unitPrice"`
}

type CreateQuotationRequest struct {
	IssuerID   IssuerID               `json:"issuerId" validate:"required"`
	DealID     *uuid.UUID             `json:"dealId"`
	AccountID  *uuid.UUID             `json:"accountId"`
	Title      string                 `json:"title" validate:"required,max=200"`
	Items      []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
	ValidUntil *time.Time             `json:"validUntil"`
	Notes      string                 `json:"notes"`
}

type UpdateQuotationRequest struct {
	Title      string                 `json:"title" validate:"required,max=200"`
	Items      []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
	ValidUntil *time.Time             `json:"validUntil"`
	Notes      string                 `json:"notes"`
}

type UpdateQuotationStatusRequest struct {
	Status QuotationStatus `json:"status" validate:"required"`
}

// ---- Quotation presets ----

type QuotationPresetDTO struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	IssuerID  IssuerID           `json:"issuerId"`
	Title     string             `json:"title,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	Items     []QuotationItemDTO `json:"items"`
	CreatedAt string             `json:"createdAt"`
	UpdatedAt string             `json:"updatedAt"`
}

type SaveQuotationPresetRequest struct {
	Name     string                 `json:"name" validate:"required,max=200"`
	IssuerID IssuerID               `json:"issuerId" validate:"required"`
	Title    string                 `json:"title" validate:"max=200"`
	Items    []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes    string                 `json:"notes"`
}

// ApplyPresetRequest creates a new draft quotation from a preset.
// Overrides are optional; the preset is copied, never referenced.
type ApplyPresetRequest struct {
	DealID    *uuid.UUID `json:"dealId"`
	AccountID *uuid.UUID `json:"accountId"`
	Title     string     `json:"title" validate:"max=200"`
}

// ---- Settings ----

type SettingEntryDTO struct {
	ID           uuid.UUID       `json:"id"`
	Category     SettingCategory `json:"category"`
	Value        string          `json:"value"`
	DisplayOrder int             `json:"displayOrder"`
}

type CreateSettingEntryRequest struct {
	Value string `json:"value" validate:"required,max=200"`
}

type UpdateSettingEntryRequest = CreateSettingEntryRequest

// ReorderSettingsRequest moves the entry at FromIndex to ToIndex within
// its category's ordered list (splice semantics).
type ReorderSettingsRequest struct {
	FromIndex int `json:"fromIndex" validate:"gte=0"`
	ToIndex   int `json:"toIndex" validate:"gte=0"`
}

// ---- Tasks ----

type TaskDTO struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Body         string       `json:"body,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	DueDate      string       `json:"dueDate,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	AssigneeID   string       `json:"assigneeId,omitempty"`
	AssigneeName string       `json:"assigneeName,omitempty"`
	DealID       *uuid.UUID   `json:"dealId,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title      string       `json:"title" validate:"required,max=200"`
	Body       string       `json:"body"`
	Priority   TaskPriority `json:"priority"`
	DueDate    *time.Time   `json:"dueDate"`
	AssigneeID string       `json:"assigneeId" validate:"max=100"`
	DealID     *uuid.UUID   `json:"dealId"`
	Tags       []string     `json:"tags"`
}

type UpdateTaskRequest struct {
	Title      string       `json:"title" validate:"required,max=200"`
	Body       string       `json:"body"`
	Status     TaskStatus   `json:"status"`
	Priority   TaskPriority `json:"priority"`
	DueDate    *time.Time   `json:"dueDate"`
	AssigneeID string       `json:"assigneeId" validate:"max=100"`
	Tags       []string     `json:"tags"`
}

// ---- Memos ----

type MemoDTO struct {
	ID          uuid.UUID          `json:"id"`
	TargetType  ActivityTargetType `json:"targetType"`
	TargetID    uuid.UUID          `json:"targetId"`
	Body        string             `json:"body"`
	Pinned      bool               `json:"pinned"`
	CreatorName string             `json:"creatorName,omitempty"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}

type CreateMemoRequest struct {
	TargetType ActivityTargetType `json:"targetType" validate:"required"`
	TargetID   uuid.UUID          `json:"targetId" validate:"required"`
	Body       string             `json:"body" validate:"required"`
	Pinned     bool               `json:"pinned"`
}

type UpdateMemoRequest struct {
	Body   string `json:"body" validate:"required"`
	Pinned bool   `json:"pinned"`
}

// ---- Feature requests ----

type FeatureRequestDTO struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Body          string               `json:"body,omitempty"`
	Status        FeatureRequestStatus `json:"status"`
	Priority      TaskPriority         `json:"priority"`
	RequesterName string               `json:"requesterName,omitempty"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

type CreateFeatureRequestRequest struct {
	Title    string       `json:"title" validate:"required,max=200"`
	Body     string       `json:"body"`
	Priority TaskPriority `json:"priority"`
}

type UpdateFeatureRequestRequest struct {
	Title    string               `json:"title" validate:"required,max=200"`
	Body     string               `json:"body"`
	Status   FeatureRequestStatus `json:"status" validate:"required"`
	Priority TaskPriority         `json:"priority"`
}

// ---- Activities ----

type ActivityDTO struct {
	ID          uuid.UUID          `json:"id"`
	TargetType  ActivityTargetType `json:"targetType"`
	TargetID    uuid.UUID          `json:"targetId"`
	Title       string             `json:"title"`
	Body        string             `json:"body,omitempty"`
	OccurredAt  string             `json:"occurredAt"`
	CreatorName string             `json:"creatorName,omitempty"`
}

type CreateActivityRequest struct {
	TargetType ActivityTargetType `json:"targetType" validate:"required"`
	TargetID   uuid.UUID          `json:"targetId" validate:"required"`
	Title      string             `json:"title" validate:"required,max=200"`
	Body       string             `json:"body" validate:"max=2000"`
	OccurredAt *time.Time         `json:"occurredAt"`
}

// ---- Notifications ----

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

// ---- Reporting ----

// StageSummary aggregates the pipeline per stage.
type StageSummary struct {
	Stage       Stage  `json:"stage"`
	StageLabel  string `json:"stageLabel"`
	DealCount   int64  `json:"dealCount"`
	TotalAmount int64  `json:"totalAmount"`
}

// CloseReasonBucket counts closed deals per resolved close reason text.
// Deals closed without a reason fall into the "reason unknown" bucket.
type CloseReasonBucket struct {
	ReasonText string `json:"reasonText"`
	DealCount  int64  `json:"dealCount"`
}

type PipelineStatsDTO struct {
	Stages       []StageSummary      `json:"stages"`
	CloseReasons []CloseReasonBucket `json:"closeReasons"`
	GeneratedAt  string              `json:"generatedAt"`
}
