// Package lifecycle holds the booking status graph and the payment rules tied to it.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"condo/internal/domains/booking/model"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrUnknownStatus     = errors.New("unknown booking status")
)

var transitions = map[string][]string{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
	model.StatusCompleted: {},
	model.StatusCancelled: {},
}

var paymentStatuses = []string{model.PaymentUnpaid, model.PaymentPartial, model.PaymentPaid, model.PaymentRefunded}

func IsKnownStatus(status string) bool {
	_, ok := transitions[status]

	return ok
}

func IsKnownPaymentStatus(status string) bool {
	return slices.Contains(paymentStatuses, status)
}

// CanTransition allows same-state writes so staff can edit payment fields without moving status.
func CanTransition(from, to string) bool {
	if from == to {
		return IsKnownStatus(from)
	}

	return slices.Contains(transitions[from], to)
}

func ValidateTransition(from, to string) error {
	if !IsKnownStatus(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}

	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}

	return nil
}

// CanGuestCancel limits self-service cancellation to bookings nobody has confirmed yet.
func CanGuestCancel(status string) bool {
	return status == model.StatusPending
}

func DerivePaymentStatus(amountPaid, total float64) string {
	switch {
	case amountPaid >= total:
		return model.PaymentPaid
	case amountPaid > 0:
		return model.PaymentPartial
	default:
		return model.PaymentUnpaid
	}
}

// MeetsDownpayment checks a staff-entered payment against the minimum ratio of the total.
func MeetsDownpayment(amountPaid, total, ratio float64) bool {
	return amountPaid >= total*ratio
}

// ExpiryCutoff is the creation instant before which unpaid pending holds are stale.
func ExpiryCutoff(now time.Time, hold time.Duration) time.Time {
	return now.Add(-hold)
}

// ExpiryNote is appended to bookings cancelled by the unpaid hold sweep. It names the hold actually
// in force.
func ExpiryNote(hold time.Duration) string {
	return "System: Auto-cancelled due to non-payment within " + holdPhrase(hold) + "."
}

func holdPhrase(hold time.Duration) string {
	if hold >= time.Hour && hold%time.Hour == 0 {
		return plural(int(hold/time.Hour), "hour")
	}

	return plural(int(hold.Round(time.Minute)/time.Minute), "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return strconv.Itoa(n) + " " + unit + "s"
}
