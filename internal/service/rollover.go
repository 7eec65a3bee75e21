package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
	"github.com/shreeeniyaa/chitfund-engine/internal/repository"
	customError "github.com/shreeeniyaa/chitfund-engine/pkg/errors"
	"github.com/shreeeniyaa/chitfund-engine/pkg/lock"
	"github.com/shreeeniyaa/chitfund-engine/pkg/utils"
)

const rolloverLockTTL = time.Minute

// RolloverJob advances the carried arrear of every active enrollment to its
// previous invoice's unpaid balance, once per qualifying calendar day.
// Enrollments are processed independently; one failure never aborts the run.
type RolloverJob struct {
	planRepo       repository.PlanRepository
	enrollmentRepo repository.EnrollmentRepository
	invoiceRepo    repository.InvoiceRepository
	ledger         *ArrearLedger
	locker         lock.Locker
	cutoffDay      int
	rolloverDay    int
}

func NewRolloverJob(
	planRepo repository.PlanRepository,
	enrollmentRepo repository.EnrollmentRepository,
	invoiceRepo repository.InvoiceRepository,
	ledger *ArrearLedger,
	locker lock.Locker,
	cutoffDay int,
	rolloverDay int,
) *RolloverJob {
	return &RolloverJob{
		planRepo:       planRepo,
		enrollmentRepo: enrollmentRepo,
		invoiceRepo:    invoiceRepo,
		ledger:         ledger,
		locker:         locker,
		cutoffDay:      cutoffDay,
		rolloverDay:    rolloverDay,
	}
}

// RunForAll runs one rollover pass as of the given date. force bypasses the
// day-qualification check for manual runs. Cancelling the context stops
// before the next enrollment without rolling back finished ones; the partial
// result is still returned.
func (j *RolloverJob) RunForAll(ctx context.Context, asOf time.Time, force bool) (*domain.RolloverResult, error) {
	enrollments, err := j.enrollmentRepo.ListActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	result := &domain.RolloverResult{AsOf: utils.FormatDate(asOf)}

	for _, enrollment := range enrollments {
		if ctx.Err() != nil {
			log.Warn().
				Str("as_of", result.AsOf).
				Int("processed", len(result.Updated)+len(result.Skipped)+len(result.Errors)).
				Int("total", len(enrollments)).
				Msg("rollover cancelled")
			return result, ctx.Err()
		}

		j.processEnrollment(ctx, enrollment, asOf, force, result)
	}

	log.Info().
		Str("as_of", result.AsOf).
		Int("updated", len(result.Updated)).
		Int("skipped", len(result.Skipped)).
		Int("errors", len(result.Errors)).
		Msg("monthly rollover finished")

	return result, nil
}

func (j *RolloverJob) processEnrollment(ctx context.Context, enrollment *domain.Enrollment, asOf time.Time, force bool, result *domain.RolloverResult) {
	prev, err := j.invoiceRepo.FindLatest(ctx, enrollment.CustomerID, enrollment.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			j.skip(result, enrollment, domain.RolloverSkipNoInvoice)
			return
		}
		j.fail(result, enrollment, customError.WrapDatabaseError(err))
		return
	}

	if !force && !j.qualifies(enrollment, prev, asOf) {
		j.skip(result, enrollment, domain.RolloverSkipNotDue)
		return
	}

	lockKey := lock.RolloverKey(enrollment.ID.String())
	acquired, err := j.locker.Acquire(ctx, lockKey, rolloverLockTTL)
	if err != nil {
		j.fail(result, enrollment, customError.WrapLockError(err))
		return
	}
	if !acquired {
		j.skip(result, enrollment, domain.RolloverSkipLocked)
		return
	}
	defer func() {
		if err := j.locker.Release(ctx, lockKey); err != nil {
			log.Warn().Err(err).Str("key", lockKey).Msg("failed to release rollover lock")
		}
	}()

	plan, err := j.planRepo.GetByPlanID(ctx, enrollment.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			j.fail(result, enrollment, customError.WrapPlanNotFound(enrollment.PlanID))
			return
		}
		j.fail(result, enrollment, customError.WrapDatabaseError(err))
		return
	}

	newArrear, err := j.ledger.ApplyMonthlyRollover(ctx, enrollment, prev)
	if err != nil {
		j.fail(result, enrollment, err)
		return
	}

	dueNumber := CurrentInstallment(enrollment.StartDate, asOf, j.cutoffDay, plan.Duration)

	result.Updated = append(result.Updated, domain.RolloverUpdate{
		CustomerID: enrollment.CustomerID,
		PlanID:     enrollment.PlanID,
		DueNumber:  dueNumber,
		NewArrear:  newArrear,
	})

	log.Debug().
		Str("customer_id", enrollment.CustomerID).
		Str("plan_id", enrollment.PlanID).
		Int("due_number", dueNumber).
		Str("new_arrear", newArrear.String()).
		Msg("arrear rolled over")
}

// qualifies implements the day rule: an enrollment still on its first bill
// rolls on the last calendar day of its enrollment month; established
// enrollments roll on the fixed rollover day of any month.
func (j *RolloverJob) qualifies(enrollment *domain.Enrollment, prev *domain.Invoice, asOf time.Time) bool {
	if prev.DueNumber <= 1 {
		return utils.SameDay(asOf, utils.EndOfMonth(enrollment.StartDate))
	}
	return asOf.Day() == j.rolloverDay
}

func (j *RolloverJob) skip(result *domain.RolloverResult, enrollment *domain.Enrollment, reason string) {
	result.Skipped = append(result.Skipped, domain.RolloverSkip{
		CustomerID: enrollment.CustomerID,
		PlanID:     enrollment.PlanID,
		Reason:     reason,
	})
}

func (j *RolloverJob) fail(result *domain.RolloverResult, enrollment *domain.Enrollment, err error) {
	log.Error().Err(err).
		Str("customer_id", enrollment.CustomerID).
		Str("plan_id", enrollment.PlanID).
		Msg("rollover failed for enrollment")

	result.Errors = append(result.Errors, domain.RolloverError{
		CustomerID: enrollment.CustomerID,
		PlanID:     enrollment.PlanID,
		Error:      err.Error(),
	})
}
