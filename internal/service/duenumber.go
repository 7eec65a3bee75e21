package service

import (
	"time"

	"github.com/shreeeniyaa/chitfund-engine/pkg/utils"
)

// CurrentInstallment determines which installment number is payable as of a
// date. Installments advance by calendar month from the enrollment start;
// once the as-of day passes the cutoff, the next installment is already
// being collected. The result is clamped to [1, duration].
func CurrentInstallment(startDate, asOf time.Time, cutoffDay, duration int) int {
	installment := utils.MonthsBetween(startDate, asOf) + 1
	if asOf.Day() > cutoffDay {
		installment++
	}

	if installment < 1 {
		installment = 1
	}
	if duration > 0 && installment > duration {
		installment = duration
	}

	return installment
}
