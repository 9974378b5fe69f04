// Package pricing turns a check-in instant and a room's stay policy into a stay window and price lines.
package pricing

import (
	"math"
	"slices"
	"time"

	promoModel "condo/internal/domains/promotion/model"
	"condo/shared/constant"
	"condo/shared/timezone"
)

// Policy is the slice of a room that governs stay length.
type Policy struct {
	StandardStayHours   int
	CleaningBufferHours int
}

type Window struct {
	CheckIn       time.Time
	CheckOut      time.Time
	BufferEnd     time.Time
	DurationHours int
	CleaningHours int
	PromoApplied  bool
	PromoName     string
}

// ComputeStayWindow adds the promotion's extension hours only when check-in falls on one of its
// eligible dates in loc.
func ComputeStayWindow(checkIn time.Time, policy Policy, promo *promoModel.Promotion, loc *time.Location) Window {
	window := Window{
		CheckIn:       checkIn,
		DurationHours: policy.StandardStayHours,
		CleaningHours: policy.CleaningBufferHours,
	}

	if promo != nil && slices.Contains(promo.EligibleDates, timezone.DateKey(checkIn, loc)) {
		window.PromoApplied = true
		window.PromoName = promo.Name

		if promo.Type == promoModel.TypeExtension {
			window.DurationHours += promo.ExtensionHours
		}
	}

	window.CheckOut = checkIn.Add(time.Duration(window.DurationHours) * time.Hour)
	window.BufferEnd = window.CheckOut.Add(time.Duration(window.CleaningHours) * time.Hour)

	return window
}

// Nights bills any started 24h block as a night, with a floor of one.
func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	nights := int(math.Ceil(hours / constant.HoursPerNight))

	return max(nights, 1)
}

type Breakdown struct {
	Nights      int     `json:"nights"`
	NightlyRate float64 `json:"nightly_rate"`
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	ExtraFee    float64 `json:"extra_fee"`
	Total       float64 `json:"total"`
}

// Price never lets the discount push the stay below zero.
func Price(nights int, nightlyRate, discount, extraFee float64) Breakdown {
	subtotal := float64(nights) * nightlyRate
	discount = math.Min(math.Max(discount, 0), subtotal)

	return Breakdown{
		Nights:      nights,
		NightlyRate: nightlyRate,
		Subtotal:    subtotal,
		Discount:    discount,
		ExtraFee:    extraFee,
		Total:       subtotal - discount + extraFee,
	}
}
