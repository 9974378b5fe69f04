package dto

import (
	"time"

	"condo/shared/constant"
	"condo/shared/timezone"
)

const (
	FilterByCheckIn     = "check_in"
	FilterByBookingDate = "booking_date"

	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// FinancialRequest selects confirmed and completed bookings whose check-in (or creation) day lies in [From, To].
type FinancialRequest struct {
	From     string `json:"from"      validate:"omitempty,datekey"`
	To       string `json:"to"        validate:"omitempty,datekey"`
	FilterBy string `json:"filter_by" validate:"omitempty,oneof=check_in booking_date"`
	Format   string `json:"format"    validate:"omitempty,oneof=json xlsx"`
}

// Range returns the half-open window covering both bounding days. Missing bounds default to today.
func (r FinancialRequest) Range(now time.Time) (from, to time.Time, err error) {
	today := timezone.StartOfDay(now, nil)
	from, to = today, today

	if r.From != constant.Empty {
		if from, err = timezone.ParseDateKey(r.From, nil); err != nil {
			return from, to, err
		}
	}

	if r.To != constant.Empty {
		if to, err = timezone.ParseDateKey(r.To, nil); err != nil {
			return from, to, err
		}
	}

	return from, to.AddDate(0, 0, 1), nil
}

type FinancialRow struct {
	BookingID  string  `json:"booking_id"`
	DateBooked string  `json:"date_booked"`
	Guest      string  `json:"guest"`
	Room       string  `json:"room"`
	Schedule   string  `json:"schedule"`
	PromoCode  string  `json:"promo_code"`
	PromoName  string  `json:"promo_name"`
	PaymentRef string  `json:"payment_ref"`
	Total      float64 `json:"total"`
	Paid       float64 `json:"paid"`
	Balance    float64 `json:"balance"`
	Overpaid   bool    `json:"overpaid"`
}

type FinancialTotals struct {
	Revenue      float64 `json:"revenue"`
	Collected    float64 `json:"collected"`
	Collectibles float64 `json:"collectibles"`
}

type FinancialResponse struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	FilterBy string          `json:"filter_by"`
	Rows     []FinancialRow  `json:"rows"`
	Totals   FinancialTotals `json:"totals"`
}
