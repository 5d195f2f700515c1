package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidStage is returned for a stage value outside the canonical set
	ErrInvalidStage = errors.New("invalid pipeline stage")

	// ErrInvalidTransition is returned for a stage move the pipeline does not allow
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrRecontactReasonRequired is returned when parking a deal without a reason
	ErrRecontactReasonRequired = errors.New("recontact reason is required")

	// ErrRecontactDateRequired is returned when parking a deal without a future date
	ErrRecontactDateRequired = errors.New("recontact date must be a future date")

	// ErrQuotationNotEditable is returned when modifying a quotation past draft
	ErrQuotationNotEditable = errors.New("quotation is no longer editable")

	// ErrInvalidStatusChange is returned for a quotation status move outside the lifecycle
	ErrInvalidStatusChange = errors.New("invalid status change")

	// ErrIndexOutOfRange is returned when a reorder index falls outside the list
	ErrIndexOutOfRange = errors.New("index out of range")
)
