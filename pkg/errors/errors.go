package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrPlanNotFound          = errors.New("plan not found")
	ErrScheduleNotConfigured = errors.New("plan schedule is missing or empty")
	ErrInvalidReceivedAmount = errors.New("received amount must be greater than zero")
	ErrInvoiceDateOutOfRange = errors.New("invoice date is outside the enrollment's active window")
	ErrInvoiceInProgress     = errors.New("another invoice is being created for this enrollment")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeEnrollmentNotFound    = "ENROLLMENT_NOT_FOUND"
	ErrCodePlanNotFound          = "PLAN_NOT_FOUND"
	ErrCodeScheduleNotConfigured = "SCHEDULE_NOT_CONFIGURED"
	ErrCodeInvalidReceivedAmount = "INVALID_RECEIVED_AMOUNT"
	ErrCodeInvoiceDateOutOfRange = "INVOICE_DATE_OUT_OF_RANGE"
	ErrCodeInvoiceInProgress     = "INVOICE_IN_PROGRESS"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeLockError             = "LOCK_ERROR"
)

// Wrap common errors with business context

func WrapEnrollmentNotFound(customerID, planID string) *BusinessError {
	return NewBusinessError(
		ErrCodeEnrollmentNotFound,
		fmt.Sprintf("No active enrollment for customer %s on plan %s", customerID, planID),
		ErrEnrollmentNotFound,
	)
}

func WrapPlanNotFound(planID string) *BusinessError {
	return NewBusinessError(
		ErrCodePlanNotFound,
		fmt.Sprintf("Plan with ID %s not found", planID),
		ErrPlanNotFound,
	)
}

func WrapScheduleNotConfigured(planID string) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleNotConfigured,
		fmt.Sprintf("Plan %s has no installment schedule configured", planID),
		ErrScheduleNotConfigured,
	)
}

func WrapInvalidReceivedAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidReceivedAmount,
		fmt.Sprintf("Invalid received amount: %s", amount),
		ErrInvalidReceivedAmount,
	)
}

func WrapInvoiceDateOutOfRange(invoiceDate, startDate string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvoiceDateOutOfRange,
		fmt.Sprintf("Invoice date %s precedes enrollment start date %s", invoiceDate, startDate),
		ErrInvoiceDateOutOfRange,
	)
}

func WrapInvoiceInProgress(customerID, planID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvoiceInProgress,
		fmt.Sprintf("Invoice creation already in flight for customer %s on plan %s", customerID, planID),
		ErrInvoiceInProgress,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapLockError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeLockError,
		"lock operation failed",
		err,
	)
}
