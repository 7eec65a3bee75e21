package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// Invoice is an immutable snapshot of one billing event. Amount fields are
// never recomputed after creation; corrections happen by creating a new
// invoice, not by mutating history.
type Invoice struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CustomerID     string          `json:"customer_id" db:"customer_id"`
	PlanID         string          `json:"plan_id" db:"plan_id"`
	EnrollmentID   uuid.UUID       `json:"enrollment_id" db:"enrollment_id"`
	InvoiceDate    time.Time       `json:"invoice_date" db:"invoice_date"`
	DueNumber      int             `json:"due_number" db:"due_number"`
	DueAmount      decimal.Decimal `json:"due_amount" db:"due_amount"`
	ArrearAmount   decimal.Decimal `json:"arrear_amount" db:"arrear_amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount" db:"received_amount"`
	PendingAmount  decimal.Decimal `json:"pending_amount" db:"pending_amount"`
	BalanceAmount  decimal.Decimal `json:"balance_amount" db:"balance_amount"`
	ManualArrear   bool            `json:"manual_arrear" db:"manual_arrear"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateInvoiceRequest struct {
	CustomerID          string           `json:"customer_id" validate:"required"`
	PlanID              string           `json:"plan_id" validate:"required"`
	ReceivedAmount      decimal.Decimal  `json:"received_amount" validate:"required"`
	InvoiceDate         string           `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	ManualArrearAmount  *decimal.Decimal `json:"manual_arrear_amount,omitempty"`
	ManualBalanceAmount *decimal.Decimal `json:"manual_balance_amount,omitempty"`
}

// InvoicePreview carries the numbers shown on the invoice screen before
// anything is persisted. Both the live preview and invoice creation are
// computed from the same figures.
type InvoicePreview struct {
	CustomerID    string          `json:"customer_id"`
	PlanID        string          `json:"plan_id"`
	AsOfDate      string          `json:"as_of_date"`
	DueNumber     int             `json:"due_number"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	ArrearAmount  decimal.Decimal `json:"arrear_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
}

type SetArrearRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent paid"`
}
