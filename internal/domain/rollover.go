package domain

import (
	"github.com/shopspring/decimal"
)

// Rollover item outcomes
const (
	RolloverSkipNoInvoice = "no prior invoice"
	RolloverSkipNotDue    = "not a qualifying day"
	RolloverSkipLocked    = "enrollment locked by another run"
)

type RolloverRequest struct {
	AsOf  string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
	Force bool   `json:"force"`
}

type RolloverUpdate struct {
	CustomerID string          `json:"customer_id"`
	PlanID     string          `json:"plan_id"`
	DueNumber  int             `json:"due_number"`
	NewArrear  decimal.Decimal `json:"new_arrear"`
}

type RolloverSkip struct {
	CustomerID string `json:"customer_id"`
	PlanID     string `json:"plan_id"`
	Reason     string `json:"reason"`
}

type RolloverError struct {
	CustomerID string `json:"customer_id"`
	PlanID     string `json:"plan_id"`
	Error      string `json:"error"`
}

// RolloverResult summarises one batch run. Items are independent; a partial
// result after cancellation is still valid.
type RolloverResult struct {
	AsOf    string           `json:"as_of"`
	Updated []RolloverUpdate `json:"updated"`
	Skipped []RolloverSkip   `json:"skipped"`
	Errors  []RolloverError  `json:"errors"`
}
