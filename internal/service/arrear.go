package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
	"github.com/shreeeniyaa/chitfund-engine/internal/repository"
	customError "github.com/shreeeniyaa/chitfund-engine/pkg/errors"
)

// ArrearLedger resolves the debt carried over from previous billing periods.
// Arrears are not recomputed continuously: they snap forward once a month on
// the rollover day and stay sticky in between. A force-set override on the
// enrollment suppresses derivation entirely until cleared.
type ArrearLedger struct {
	enrollmentRepo repository.EnrollmentRepository
	invoiceRepo    repository.InvoiceRepository
	rolloverDay    int
}

func NewArrearLedger(
	enrollmentRepo repository.EnrollmentRepository,
	invoiceRepo repository.InvoiceRepository,
	rolloverDay int,
) *ArrearLedger {
	return &ArrearLedger{
		enrollmentRepo: enrollmentRepo,
		invoiceRepo:    invoiceRepo,
		rolloverDay:    rolloverDay,
	}
}

// ArrearFor returns the carried arrear for an enrollment as of a date. A
// stored override wins; otherwise the most recent invoice is read and the
// monthly carry-forward rule applied. No prior invoice means no arrear.
func (l *ArrearLedger) ArrearFor(ctx context.Context, enrollment *domain.Enrollment, asOf time.Time) (decimal.Decimal, error) {
	if enrollment.HasArrearOverride() {
		return enrollment.CurrentArrear, nil
	}

	prev, err := l.invoiceRepo.FindLatest(ctx, enrollment.CustomerID, enrollment.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	return l.CarryForward(prev, asOf), nil
}

// CarryForward applies the monthly rollover read rule: on the rollover day
// the arrear is the previous invoice's unpaid balance; on any other day it is
// the previous invoice's own arrear figure, unchanged.
func (l *ArrearLedger) CarryForward(prev *domain.Invoice, asOf time.Time) decimal.Decimal {
	if prev == nil {
		return decimal.Zero
	}
	if asOf.Day() == l.rolloverDay {
		return prev.BalanceAmount
	}
	return prev.ArrearAmount
}

// SetManual force-sets the carried arrear for an enrollment. The value wins
// over ledger derivation until Clear is called. Last writer wins.
func (l *ArrearLedger) SetManual(ctx context.Context, customerID, planID string, amount decimal.Decimal) error {
	enrollment, err := l.findActive(ctx, customerID, planID)
	if err != nil {
		return err
	}

	if err := l.enrollmentRepo.UpdateArrear(ctx, enrollment.ID, amount, domain.ArrearSourceOverride, time.Now()); err != nil {
		return customError.WrapDatabaseError(err)
	}

	log.Info().
		Str("customer_id", customerID).
		Str("plan_id", planID).
		Str("arrear", amount.String()).
		Msg("manual arrear set")

	return nil
}

// Clear zeroes the arrear and removes the override marker, returning the
// enrollment to ledger-derived arrears.
func (l *ArrearLedger) Clear(ctx context.Context, customerID, planID string) error {
	enrollment, err := l.findActive(ctx, customerID, planID)
	if err != nil {
		return err
	}

	if err := l.enrollmentRepo.UpdateArrear(ctx, enrollment.ID, decimal.Zero, domain.ArrearSourceDerived, time.Now()); err != nil {
		return customError.WrapDatabaseError(err)
	}

	log.Info().
		Str("customer_id", customerID).
		Str("plan_id", planID).
		Msg("arrear cleared")

	return nil
}

// ApplyMonthlyRollover advances the enrollment's arrear to the previous
// invoice's unpaid balance and returns the new figure. Reads the invoice it
// is given, not a delta, so re-applying on the same day is a no-op in effect.
func (l *ArrearLedger) ApplyMonthlyRollover(ctx context.Context, enrollment *domain.Enrollment, prev *domain.Invoice) (decimal.Decimal, error) {
	newArrear := prev.BalanceAmount

	if err := l.enrollmentRepo.UpdateArrear(ctx, enrollment.ID, newArrear, domain.ArrearSourceOverride, time.Now()); err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	return newArrear, nil
}

func (l *ArrearLedger) findActive(ctx context.Context, customerID, planID string) (*domain.Enrollment, error) {
	enrollment, err := l.enrollmentRepo.FindActive(ctx, customerID, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapEnrollmentNotFound(customerID, planID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return enrollment, nil
}
