package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shreeeniyaa/chitfund-engine/internal/config"
	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
	"github.com/shreeeniyaa/chitfund-engine/internal/repository"
	customError "github.com/shreeeniyaa/chitfund-engine/pkg/errors"
	"github.com/shreeeniyaa/chitfund-engine/pkg/lock"
	"github.com/shreeeniyaa/chitfund-engine/pkg/utils"
)

// InvoiceService composes the due-number calculator, schedule resolver and
// arrear ledger into the numbers an invoice bills for. Preview and
// CreateInvoice run the same computation; only CreateInvoice persists.
type InvoiceService struct {
	planRepo       repository.PlanRepository
	enrollmentRepo repository.EnrollmentRepository
	invoiceRepo    repository.InvoiceRepository
	ledger         *ArrearLedger
	locker         lock.Locker
	config         *config.Config
}

func NewInvoiceService(
	planRepo repository.PlanRepository,
	enrollmentRepo repository.EnrollmentRepository,
	invoiceRepo repository.InvoiceRepository,
	ledger *ArrearLedger,
	locker lock.Locker,
	config *config.Config,
) *InvoiceService {
	return &InvoiceService{
		planRepo:       planRepo,
		enrollmentRepo: enrollmentRepo,
		invoiceRepo:    invoiceRepo,
		ledger:         ledger,
		locker:         locker,
		config:         config,
	}
}

// Preview computes the current invoice numbers without persisting anything.
// Safe to call on every keystroke of the invoice screen.
func (s *InvoiceService) Preview(ctx context.Context, customerID, planID string, asOf time.Time, received decimal.Decimal) (*domain.InvoicePreview, error) {
	enrollment, err := s.findActiveEnrollment(ctx, customerID, planID)
	if err != nil {
		return nil, err
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	return s.compute(ctx, enrollment, plan, asOf, received, nil)
}

// CreateInvoice persists an invoice snapshot using the same formulas as
// Preview, guarded by an advisory lock so two concurrent submissions for the
// same enrollment cannot both read the same "latest" invoice.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	if !req.ReceivedAmount.IsPositive() {
		return nil, customError.WrapInvalidReceivedAmount(req.ReceivedAmount.String())
	}

	invoiceDate, err := utils.ParseDate(req.InvoiceDate)
	if err != nil {
		return nil, customError.NewBusinessError(
			customError.ErrCodeInvoiceDateOutOfRange,
			"invoice date must be formatted as YYYY-MM-DD",
			err,
		)
	}

	lockKey := lock.InvoiceKey(req.CustomerID, req.PlanID)
	acquired, err := s.locker.Acquire(ctx, lockKey, s.config.GetInvoiceLockTTL())
	if err != nil {
		return nil, customError.WrapLockError(err)
	}
	if !acquired {
		return nil, customError.WrapInvoiceInProgress(req.CustomerID, req.PlanID)
	}
	defer func() {
		if err := s.locker.Release(ctx, lockKey); err != nil {
			log.Warn().Err(err).Str("key", lockKey).Msg("failed to release invoice lock")
		}
	}()

	enrollment, err := s.findActiveEnrollment(ctx, req.CustomerID, req.PlanID)
	if err != nil {
		return nil, err
	}

	if invoiceDate.Before(enrollment.StartDate) && !utils.SameDay(invoiceDate, enrollment.StartDate) {
		return nil, customError.WrapInvoiceDateOutOfRange(
			utils.FormatDate(invoiceDate),
			utils.FormatDate(enrollment.StartDate),
		)
	}

	plan, err := s.getPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	preview, err := s.compute(ctx, enrollment, plan, invoiceDate, req.ReceivedAmount, req.ManualArrearAmount)
	if err != nil {
		return nil, err
	}

	balance := preview.BalanceAmount
	if req.ManualBalanceAmount != nil {
		// Admin escape hatch: the supplied balance is taken verbatim.
		balance = *req.ManualBalanceAmount
	}

	invoice := &domain.Invoice{
		ID:             uuid.New(),
		CustomerID:     req.CustomerID,
		PlanID:         req.PlanID,
		EnrollmentID:   enrollment.ID,
		InvoiceDate:    invoiceDate,
		DueNumber:      preview.DueNumber,
		DueAmount:      preview.DueAmount,
		ArrearAmount:   preview.ArrearAmount,
		ReceivedAmount: req.ReceivedAmount,
		PendingAmount:  preview.PendingAmount,
		BalanceAmount:  balance,
		ManualArrear:   req.ManualArrearAmount != nil,
		Status:         domain.InvoiceStatusDraft,
		CreatedAt:      time.Now(),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	// Settling the final installment in full closes out the enrollment.
	if invoice.DueNumber >= plan.Duration && balance.IsZero() {
		if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, domain.EnrollmentStatusCompleted); err != nil {
			log.Error().Err(err).
				Str("customer_id", req.CustomerID).
				Str("plan_id", req.PlanID).
				Msg("invoice saved but enrollment completion failed")
		}
	}

	log.Info().
		Str("customer_id", req.CustomerID).
		Str("plan_id", req.PlanID).
		Int("due_number", invoice.DueNumber).
		Str("balance", invoice.BalanceAmount.String()).
		Msg("invoice created")

	return invoice, nil
}

// ListInvoices returns the billing history for an enrollment, newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context, customerID, planID string) ([]*domain.Invoice, error) {
	enrollment, err := s.findActiveEnrollment(ctx, customerID, planID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return invoices, nil
}

// UpdateInvoiceStatus moves an invoice through its delivery lifecycle
// (draft, sent, paid). Amounts stay frozen; only the status changes.
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string) error {
	if err := s.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return customError.WrapDatabaseError(err)
	}

	log.Info().
		Str("invoice_id", id.String()).
		Str("status", status).
		Msg("invoice status updated")

	return nil
}

// SetManualArrear force-sets the carried arrear for an enrollment.
func (s *InvoiceService) SetManualArrear(ctx context.Context, customerID, planID string, amount decimal.Decimal) error {
	return s.ledger.SetManual(ctx, customerID, planID, amount)
}

// ClearArrear zeroes the arrear and removes any override.
func (s *InvoiceService) ClearArrear(ctx context.Context, customerID, planID string) error {
	return s.ledger.Clear(ctx, customerID, planID)
}

// compute assembles one consistent set of invoice numbers as of a date.
// Arrear precedence: an explicit per-call amount, then the enrollment's
// stored override, then the carry-forward from the latest invoice. The
// first-ever invoice carries no arrear: no debt can predate the first bill.
func (s *InvoiceService) compute(ctx context.Context, enrollment *domain.Enrollment, plan *domain.Plan, asOf time.Time, received decimal.Decimal, manualArrear *decimal.Decimal) (*domain.InvoicePreview, error) {
	dueNumber := CurrentInstallment(enrollment.StartDate, asOf, s.config.Business.CutoffDay, plan.Duration)

	dueAmount, err := InstallmentAmount(plan, dueNumber)
	if err != nil {
		return nil, err
	}

	prev, err := s.invoiceRepo.FindLatest(ctx, enrollment.CustomerID, enrollment.PlanID)
	firstInvoice := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDatabaseError(err)
		}
		firstInvoice = true
	}

	var arrear decimal.Decimal
	switch {
	case manualArrear != nil:
		arrear = *manualArrear
	case firstInvoice:
		arrear = decimal.Zero
	case enrollment.HasArrearOverride():
		arrear = enrollment.CurrentArrear
	default:
		arrear = s.ledger.CarryForward(prev, asOf)
	}

	pending := dueAmount.Add(arrear)

	balance := pending.Sub(received)
	if balance.IsNegative() {
		// Overpayment is absorbed, never carried as credit.
		balance = decimal.Zero
	}

	return &domain.InvoicePreview{
		CustomerID:    enrollment.CustomerID,
		PlanID:        enrollment.PlanID,
		AsOfDate:      utils.FormatDate(asOf),
		DueNumber:     dueNumber,
		DueAmount:     dueAmount,
		ArrearAmount:  arrear,
		PendingAmount: pending,
		BalanceAmount: balance,
	}, nil
}

func (s *InvoiceService) findActiveEnrollment(ctx context.Context, customerID, planID string) (*domain.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindActive(ctx, customerID, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapEnrollmentNotFound(customerID, planID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return enrollment, nil
}

func (s *InvoiceService) getPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByPlanID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPlanNotFound(planID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return plan, nil
}
