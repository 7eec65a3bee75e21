package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan represents a chit savings product with a fixed month-by-month schedule
type Plan struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	PlanID    string             `json:"plan_id" db:"plan_id"`
	Name      string             `json:"name" db:"name"`
	Duration  int                `json:"duration" db:"duration"`
	Schedule  []*PlanInstallment `json:"schedule" db:"-"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" db:"updated_at"`
}

// PlanInstallment is one scheduled billing period of a plan.
// AuctionAmount is the dividend returned that period; display only.
type PlanInstallment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	PlanID            string          `json:"plan_id" db:"plan_id"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	DueAmount         decimal.Decimal `json:"due_amount" db:"due_amount"`
	AuctionAmount     decimal.Decimal `json:"auction_amount" db:"auction_amount"`
}
