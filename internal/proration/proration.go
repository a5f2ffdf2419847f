// Package proration splits a billing period's charge between an old and a
// new plan based on days used vs. days remaining. Pure; no storage, no I/O.
package proration

import (
	"errors"
	"time"
)

var (
	ErrInvalidCyclePeriod = errors.New("invalid_cycle_period")
	ErrInvalidPrice       = errors.New("invalid_price")
)

// Result is consumed immediately to build an invoice; it is never persisted.
type Result struct {
	ProratedOldAmount float64 `json:"prorated_old_amount"`
	ProratedNewAmount float64 `json:"prorated_new_amount"`
	TotalAmountDue    float64 `json:"total_amount_due"`
}

// FractionalDays is the day-count convention used for all proration math:
// the exact timestamp difference expressed in fractional 24-hour days.
func FractionalDays(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

// Compute splits the cycle's charge at the change instant. The old plan is
// charged for days used, the new plan for days remaining; the sum is the
// total due.
func Compute(oldPrice, newPrice float64, cycleStart, cycleEnd, now time.Time) (Result, error) {
	if oldPrice < 0 || newPrice < 0 {
		return Result{}, ErrInvalidPrice
	}

	daysInCycle := FractionalDays(cycleStart, cycleEnd)
	if daysInCycle <= 0 {
		return Result{}, ErrInvalidCyclePeriod
	}

	daysUsed := FractionalDays(cycleStart, now)
	daysRemaining := daysInCycle - daysUsed

	proratedOld := oldPrice * daysUsed / daysInCycle
	proratedNew := newPrice * daysRemaining / daysInCycle

	return Result{
		ProratedOldAmount: proratedOld,
		ProratedNewAmount: proratedNew,
		TotalAmountDue:    proratedOld + proratedNew,
	}, nil
}
