package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// IssuerID identifies one of the legal entities that issue quotations.
type IssuerID string

const (
	IssuerOlensKorea IssuerID = "olens_kr"
	IssuerOlensLab   IssuerID = "olens_lab"
	IssuerOlensGSA   IssuerID = "olens_gsa"
)

// Issuer is a quotation-issuing legal entity with its registration
// metadata, rendered verbatim on the printed document.
type Issuer struct {
	ID                 IssuerID  `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name               string    `gorm:"type:varchar(200);not null" json:"name"`
	RegistrationNumber string    `gorm:"type:varchar(20);not null;column:registration_number" json:"registrationNumber"`
	CEO                string    `gorm:"type:varchar(100);not null;column:ceo" json:"ceo"`
	Address            string    `gorm:"type:varchar(500)" json:"address"`
	Phone              string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IsActive           bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Account represents a customer organization owning deals and contacts.
type Account struct {
	BaseModel
	Name               string    `gorm:"type:varchar(200);not null;index"`
	RegistrationNumber string    `gorm:"type:varchar(20);index;column:registration_number"`
	Industry           string    `gorm:"type:varchar(100)"`
	Website            string    `gorm:"type:varchar(500)"`
	Phone              string    `gorm:"type:varchar(50)"`
	Address            string    `gorm:"type:varchar(500)"`
	Grade              string    `gorm:"type:varchar(100)"`
	Source             string    `gorm:"type:varchar(100)"`
	Channel            string    `gorm:"type:varchar(100)"`
	Notes              string    `gorm:"type:text"`
	Contacts           []Contact `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Deals              []Deal    `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// Contact represents an individual person at an account.
type Contact struct {
	BaseModel
	Name      string     `gorm:"type:varchar(100);not null"`
	Title     string     `gorm:"type:varchar(100)"`
	Email     string     `gorm:"type:varchar(255);index"`
	Phone     string     `gorm:"type:varchar(50)"`
	Mobile    string     `gorm:"type:varchar(50)"`
	AccountID *uuid.UUID `gorm:"type:uuid;index;column:account_id"`
	Account   *Account   `gorm:"foreignKey:AccountID"`
	Notes     string     `gorm:"type:text"`
	IsActive  bool       `gorm:"not null;default:true;column:is_active"`
}

// Deal represents a sales opportunity moving through the pipeline.
//
// A deal in S7_recontact must carry a recontact reason and a future
// recontact date. A deal in S6_complete should carry close reason codes;
// this is a soft invariant and reporting buckets missing codes under
// "reason unknown".
type Deal struct {
	BaseModel
	Name                string     `gorm:"type:varchar(200);not null;index"`
	AccountID           uuid.UUID  `gorm:"type:uuid;not null;index;column:account_id"`
	Account             *Account   `gorm:"foreignKey:AccountID"`
	AccountName         string     `gorm:"type:varchar(200);column:account_name"`
	Stage               Stage      `gorm:"type:varchar(50);not null;default:'S0_new_lead';index"`
	Amount              int64      `gorm:"not null;default:0"`
	OwnerID             string     `gorm:"type:varchar(100);not null;column:owner_id;index"`
	OwnerName           string     `gorm:"type:varchar(200);column:owner_name"`
	NeedsSummary        string     `gorm:"type:text;column:needs_summary"`
	Source              string     `gorm:"type:varchar(100)"`
	Channel             string     `gorm:"type:varchar(100)"`
	FirstContactDate    *time.Time `gorm:"type:date;column:first_contact_date"`
	LastContactDate     *time.Time `gorm:"type:date;column:last_contact_date"`
	RecontactDate       *time.Time `gorm:"type:date;column:recontact_date"`
	RecontactReason     string     `gorm:"type:varchar(500);column:recontact_reason"`
	RecontactNotifiedAt *time.Time `gorm:"column:recontact_notified_at"`
	CloseReasonCodes    string     `gorm:"type:varchar(200);column:close_reason_codes"`
	ClosedAt            *time.Time `gorm:"column:closed_at"`
}

// DealStageHistory tracks stage changes for audit purposes.
type DealStageHistory struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DealID        uuid.UUID `gorm:"type:uuid;not null;index;column:deal_id"`
	Deal          *Deal     `gorm:"foreignKey:DealID"`
	FromStage     *Stage    `gorm:"type:varchar(50);column:from_stage"`
	ToStage       Stage     `gorm:"type:varchar(50);not null;column:to_stage"`
	ChangedByID   string    `gorm:"type:varchar(100);not null;column:changed_by_id"`
	ChangedByName string    `gorm:"type:varchar(200);column:changed_by_name"`
	Notes         string    `gorm:"type:text"`
	ChangedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (DealStageHistory) TableName() string {
	return "deal_stage_history"
}

// QuotationStatus represents the lifecycle state of a quotation.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// IsValid checks if the QuotationStatus is a valid enum value
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusApproved, QuotationStatusRejected:
		return true
	}
	return false
}

// Quotation is a generated sales document. Amounts are whole KRW
// (no minor units). Number is assigned once at creation and never
// reassigned.
type Quotation struct {
	BaseModel
	Number       string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	IssuerID     IssuerID        `gorm:"type:varchar(50);not null;column:issuer_id"`
	Issuer       *Issuer         `gorm:"foreignKey:IssuerID"`
	DealID       *uuid.UUID      `gorm:"type:uuid;index;column:deal_id"`
	Deal         *Deal           `gorm:"foreignKey:DealID"`
	AccountID    *uuid.UUID      `gorm:"type:uuid;index;column:account_id"`
	Account      *Account        `gorm:"foreignKey:AccountID"`
	Title        string          `gorm:"type:varchar(200);not null"`
	Status       QuotationStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	SupplyAmount int64           `gorm:"not null;default:0;column:supply_amount"`
	TaxAmount    int64           `gorm:"not null;default:0;column:tax_amount"`
	TotalAmount  int64           `gorm:"not null;default:0;column:total_amount"`
	ValidUntil   *time.Time      `gorm:"type:date;column:valid_until"`
	Notes        string          `gorm:"type:text"`
	CreatedByID  string          `gorm:"type:varchar(100);column:created_by_id"`
	CreatedBy    string          `gorm:"type:varchar(200);column:created_by"`
	Items        []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
}

// QuotationItem is a line item owned by exactly one quotation.
// Amount is always quantity times unit price; negative unit prices are
// allowed for discount and credit lines.
type QuotationItem struct {
	BaseModel
	QuotationID  uuid.UUID `gorm:"type:uuid;not null;index;column:quotation_id"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Quantity     int64     `gorm:"not null;default:1"`
	UnitPrice    int64     `gorm:"not null;default:0;column:unit_price"`
	Amount       int64     `gorm:"not null;default:0"`
	DisplayOrder int       `gorm:"not null;default:0;column:display_order"`
}

// QuotationPreset is a reusable template. Applying a preset copies its
// contents into a new draft; presets keep no link to quotations created
// from them.
type QuotationPreset struct {
	BaseModel
	Name     string                `gorm:"type:varchar(200);not null"`
	IssuerID IssuerID              `gorm:"type:varchar(50);not null;column:issuer_id"`
	Title    string                `gorm:"type:varchar(200)"`
	Notes    string                `gorm:"type:text"`
	Items    []QuotationPresetItem `gorm:"foreignKey:PresetID;constraint:OnDelete:CASCADE"`
}

// QuotationPresetItem is a template line item.
type QuotationPresetItem struct {
	BaseModel
	PresetID     uuid.UUID `gorm:"type:uuid;not null;index;column:preset_id"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Quantity     int64     `gorm:"not null;default:1"`
	UnitPrice    int64     `gorm:"not null;default:0;column:unit_price"`
	DisplayOrder int       `gorm:"not null;default:0;column:display_order"`
}

// DocumentSequence tracks the last used quotation sequence per issue
// date. One row per date; rows are only ever incremented.
type DocumentSequence struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SeqDate      string    `gorm:"type:varchar(8);not null;uniqueIndex;column:seq_date"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// SettingCategory names a user-editable dropdown list.
type SettingCategory string

const (
	SettingCategoryNeeds          SettingCategory = "needs"
	SettingCategorySource         SettingCategory = "source"
	SettingCategoryChannel        SettingCategory = "channel"
	SettingCategoryGrade          SettingCategory = "grade"
	SettingCategoryContractReason SettingCategory = "contract_reason"
)

// IsValid checks if the SettingCategory is a valid enum value
func (c SettingCategory) IsValid() bool {
	switch c {
	case SettingCategoryNeeds, SettingCategorySource, SettingCategoryChannel, SettingCategoryGrade, SettingCategoryContractReason:
		return true
	}
	return false
}

// SettingEntry is one value in an ordered, user-editable dropdown list.
// DisplayOrder is a dense 1-based rank maintained by the reorder
// operation.
type SettingEntry struct {
	BaseModel
	Category     SettingCategory `gorm:"type:varchar(50);not null;index"`
	Value        string          `gorm:"type:varchar(200);not null"`
	DisplayOrder int             `gorm:"not null;default:0;column:display_order"`
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid checks if the TaskStatus is a valid enum value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// IsValid checks if the TaskPriority is a valid enum value
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a work item, optionally attached to a deal.
type Task struct {
	BaseModel
	Title        string         `gorm:"type:varchar(200);not null"`
	Body         string         `gorm:"type:text"`
	Status       TaskStatus     `gorm:"type:varchar(50);not null;default:'todo';index"`
	Priority     TaskPriority   `gorm:"type:varchar(50);not null;default:'normal';index"`
	DueDate      *time.Time     `gorm:"type:date;column:due_date"`
	CompletedAt  *time.Time     `gorm:"column:completed_at"`
	AssigneeID   string         `gorm:"type:varchar(100);column:assignee_id;index"`
	AssigneeName string         `gorm:"type:varchar(200);column:assignee_name"`
	DealID       *uuid.UUID     `gorm:"type:uuid;index;column:deal_id"`
	Tags         pq.StringArray `gorm:"type:text[]"`
}

// Memo is a free-text note pinned to a deal or account.
type Memo struct {
	BaseModel
	TargetType  ActivityTargetType `gorm:"type:varchar(50);not null;index;column:target_type"`
	TargetID    uuid.UUID          `gorm:"type:uuid;not null;index;column:target_id"`
	Body        string             `gorm:"type:text;not null"`
	Pinned      bool               `gorm:"not null;default:false"`
	CreatorID   string             `gorm:"type:varchar(100);column:creator_id"`
	CreatorName string             `gorm:"type:varchar(200);column:creator_name"`
}

// FeatureRequestStatus represents the triage state of a feature request
type FeatureRequestStatus string

const (
	FeatureRequestStatusOpen     FeatureRequestStatus = "open"
	FeatureRequestStatusPlanned  FeatureRequestStatus = "planned"
	FeatureRequestStatusDone     FeatureRequestStatus = "done"
	FeatureRequestStatusDeclined FeatureRequestStatus = "declined"
)

// IsValid checks if the FeatureRequestStatus is a valid enum value
func (s FeatureRequestStatus) IsValid() bool {
	switch s {
	case FeatureRequestStatusOpen, FeatureRequestStatusPlanned, FeatureRequestStatusDone, FeatureRequestStatusDeclined:
		return true
	}
	return false
}

// FeatureRequest is user feedback captured from the intake form.
type FeatureRequest struct {
	BaseModel
	Title         string               `gorm:"type:varchar(200);not null"`
	Body          string               `gorm:"type:text"`
	Status        FeatureRequestStatus `gorm:"type:varchar(50);not null;default:'open';index"`
	Priority      TaskPriority         `gorm:"type:varchar(50);not null;default:'normal'"`
	RequesterID   string               `gorm:"type:varchar(100);column:requester_id"`
	RequesterName string               `gorm:"type:varchar(200);column:requester_name"`
}

// ActivityTargetType represents the type of entity an activity is associated with
type ActivityTargetType string

const (
	ActivityTargetAccount   ActivityTargetType = "Account"
	ActivityTargetDeal      ActivityTargetType = "Deal"
	ActivityTargetQuotation ActivityTargetType = "Quotation"
)

// Activity represents an event log entry for any entity
type Activity struct {
	BaseModel
	TargetType  ActivityTargetType `gorm:"type:varchar(50);not null;index;column:target_type"`
	TargetID    uuid.UUID          `gorm:"type:uuid;not null;index;column:target_id"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Body        string             `gorm:"type:varchar(2000)"`
	OccurredAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
	CreatorID   string             `gorm:"type:varchar(100);column:creator_id"`
	CreatorName string             `gorm:"type:varchar(200);column:creator_name"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeRecontactDue NotificationType = "recontact_due"
	NotificationTypeDealClosed   NotificationType = "deal_closed"
	NotificationTypeTaskAssigned NotificationType = "task_assigned"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     string `gorm:"type:varchar(100);not null;index;column:user_id"`
	Type       string `gorm:"type:varchar(50);not null"`
	Title      string `gorm:"type:varchar(200);not null"`
	Message    string `gorm:"type:varchar(500);not null"`
	Read       bool   `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}

// User represents a user in the system
type User struct {
	ID          string     `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email       string     `gorm:"type:varchar(255);not null;unique" json:"email"`
	DisplayName string     `gorm:"type:varchar(200);not null;column:name" json:"displayName"`
	Department  string     `gorm:"type:varchar(100)" json:"department,omitempty"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
