// Package evaluator decides whether a promotion applies to a stay and how much it takes off.
package evaluator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"condo/internal/domains/promotion/model"
	"condo/shared/timezone"
)

const ActionExtend = "extend"

var (
	ErrPromoInvalid            = errors.New("Invalid or inactive promo code.")
	ErrPromoNotApplicable      = errors.New("Promo not applicable to this room.")
	ErrEmailRequired           = errors.New("Please enter your email address to use this code.")
	ErrPromoNotAllowedForEmail = errors.New("This promo code is not valid for your email address.")
	ErrAlreadyUsed             = errors.New("This code has already been used by this account.")
	ErrPromoExpired            = errors.New("Promo expired.")
	ErrNoEligibleDates         = errors.New("Promo not applicable to dates selected.")
)

var rejections = []error{
	ErrPromoInvalid, ErrPromoNotApplicable, ErrEmailRequired, ErrPromoNotAllowedForEmail,
	ErrAlreadyUsed, ErrPromoExpired, ErrNoEligibleDates,
}

type Input struct {
	RoomID         string
	NightlyRate    float64
	TotalAmount    float64
	CheckIn        time.Time
	Nights         int
	RequesterEmail string
	Location       *time.Location
}

type Result struct {
	DiscountAmount float64
	PromoID        string
	PromoName      string
	ExtensionHours int
	Message        string
	Action         string
	FreeNights     int
}

// Evaluate short-circuits on the first failed rule. priorUses is the number of live bookings the
// requester's account already holds with this promotion.
func Evaluate(promo model.Promotion, in Input, priorUses int) (Result, error) {
	if !promo.IsActive {
		return Result{}, ErrPromoInvalid
	}

	if len(promo.ApplicableRooms) > 0 && !slices.Contains(promo.ApplicableRooms, in.RoomID) {
		return Result{}, ErrPromoNotApplicable
	}

	if err := checkAudience(promo, in.RequesterEmail, priorUses); err != nil {
		return Result{}, err
	}

	var (
		result Result
		err    error
	)

	if len(promo.EligibleDates) > 0 {
		result, err = evaluateDated(promo, in)
	} else {
		result, err = evaluateWholeStay(promo, in)
	}

	if err != nil {
		return Result{}, err
	}

	result.PromoID = promo.ID
	result.PromoName = promo.Name
	result.DiscountAmount = min(result.DiscountAmount, in.TotalAmount)

	return result, nil
}

// IsRejection reports whether err is one of the rule failures Evaluate returns, as opposed to an
// infrastructure error raised while gathering its inputs.
func IsRejection(err error) bool {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return true
		}
	}

	return false
}

// Restricted reports whether usage is limited to an email allow-list.
func Restricted(promo model.Promotion) bool {
	return len(promo.AllowedEmails) > 0
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkAudience(promo model.Promotion, email string, priorUses int) error {
	if !Restricted(promo) {
		return nil
	}

	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	if !slices.ContainsFunc(promo.AllowedEmails, func(allowed string) bool {
		return NormalizeEmail(allowed) == email
	}) {
		return ErrPromoNotAllowedForEmail
	}

	if priorUses > 0 {
		return ErrAlreadyUsed
	}

	return nil
}

func nightKey(in Input, offset int) string {
	loc := in.Location
	if loc == nil {
		loc = timezone.GetLocation()
	}

	return timezone.DateKey(in.CheckIn.In(loc).AddDate(0, 0, offset), loc)
}

func evaluateDated(promo model.Promotion, in Input) (Result, error) {
	if promo.Type == model.TypeExtension {
		return pairNights(promo, in)
	}

	var (
		discount float64
		matched  int
	)

	for night := range in.Nights {
		if !slices.Contains(promo.EligibleDates, nightKey(in, night)) {
			continue
		}

		matched++

		switch promo.Type {
		case model.TypePercentage:
			discount += in.NightlyRate * promo.DiscountValue / 100
		case model.TypeFixed:
			discount += promo.DiscountValue
		}
	}

	if matched == 0 {
		return Result{}, ErrNoEligibleDates
	}

	return Result{
		DiscountAmount: discount,
		Message:        fmt.Sprintf("Promo applied to %d of %d nights.", matched, in.Nights),
	}, nil
}

// pairNights walks the stay left to right. An eligible night with a following night in the stay
// makes that pair's second night free and skips past it. A single-night stay on an eligible date
// asks the caller to extend instead.
func pairNights(promo model.Promotion, in Input) (Result, error) {
	freeNights := 0

	for night := 0; night < in.Nights; {
		if slices.Contains(promo.EligibleDates, nightKey(in, night)) {
			if night+1 < in.Nights {
				freeNights++
				night += 2

				continue
			}

			if in.Nights == 1 {
				return Result{
					Message:        "B1T1 Eligible: Extending stay...",
					Action:         ActionExtend,
					ExtensionHours: promo.ExtensionHours,
				}, nil
			}
		}

		night++
	}

	if freeNights == 0 {
		return Result{}, ErrNoEligibleDates
	}

	return Result{
		DiscountAmount: float64(freeNights) * in.NightlyRate,
		FreeNights:     freeNights,
		Message:        fmt.Sprintf("B1T1 Applied: %d Free Night(s) deducted.", freeNights),
	}, nil
}

func evaluateWholeStay(promo model.Promotion, in Input) (Result, error) {
	if promo.StartDate != nil && promo.EndDate != nil {
		checkIn := nightKey(in, 0)
		start := timezone.DateKey(*promo.StartDate, in.Location)
		end := timezone.DateKey(*promo.EndDate, in.Location)

		if checkIn < start || checkIn > end {
			return Result{}, ErrPromoExpired
		}
	}

	result := Result{Message: "Promo applied!"}

	switch promo.Type {
	case model.TypePercentage:
		result.DiscountAmount = in.TotalAmount * promo.DiscountValue / 100
	case model.TypeFixed:
		result.DiscountAmount = promo.DiscountValue
	case model.TypeExtension:
		result.DiscountAmount = in.NightlyRate
		result.FreeNights = 1
		result.Message = "Buy 1 Take 1 Applied: 1 Night Free"
	}

	return result, nil
}
