package model

import (
	"time"

	"condo/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldUserID        = "user_id"
	FieldCheckInDate   = "check_in_date"
	FieldCheckOutDate  = "check_out_date"
	FieldTotalPrice    = "total_price"
	FieldAmountPaid    = "amount_paid"
	FieldGuests        = "guests"
	FieldGuestIDImage  = "guest_id_image"
	FieldCompanions    = "companions"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldPaymentRef    = "payment_ref"
	FieldPromoID       = "promo_id"
	FieldSource        = "source"
	FieldExternalID    = "external_id"
	FieldAdminNotes    = "admin_notes"
	FieldCreatedAt     = "created_at"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PaymentUnpaid   = "unpaid"
	PaymentPartial  = "partial"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

const (
	SourceWebsite = "website"
	SourceManual  = "manual"
	SourceAirbnb  = "airbnb"
	SourceAgoda   = "agoda"
)

// ActiveStatuses are the statuses that occupy a room's calendar.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted}

type Booking struct {
	ID              string     `db:"id"`
	RoomID          string     `db:"room_id"`
	UserID          *string    `db:"user_id"`
	CheckInDate     time.Time  `db:"check_in_date"`
	CheckOutDate    time.Time  `db:"check_out_date"`
	TotalPrice      float64    `db:"total_price"`
	ExtraFee        float64    `db:"extra_fee"`
	AmountPaid      float64    `db:"amount_paid"`
	Guests          int        `db:"guests"`
	GuestPhone      string     `db:"guest_phone"`
	GuestIDType     string     `db:"guest_id_type"`
	GuestIDNumber   string     `db:"guest_id_number"`
	GuestIDImage    string     `db:"guest_id_image"`
	SpecialRequests string     `db:"special_requests"`
	PaymentRef      string     `db:"payment_ref"`
	Companions      Companions `db:"companions"`
	Status          string     `db:"status"`
	PaymentStatus   string     `db:"payment_status"`
	PromoID         *string    `db:"promo_id"`
	Source          string     `db:"source"`
	ExternalID      *string    `db:"external_id"`
	AdminNotes      string     `db:"admin_notes"`

	RoomName       *string    `db:"room_name"        table:"rooms" column:"name"`
	GuestEmail     *string    `db:"guest_email"      table:"users" column:"email"`
	GuestFirstName *string    `db:"guest_first_name" table:"users" column:"first_name"`
	GuestLastName  *string    `db:"guest_last_name"  table:"users" column:"last_name"`
	GuestDOB       *time.Time `db:"guest_dob"        table:"users" column:"date_of_birth"`
	PromoCode      *string    `db:"promo_code"       table:"promotions" column:"code"`
	PromoName      *string    `db:"promo_name"       table:"promotions" column:"name"`

	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id " +
		"LEFT JOIN users ON users.id = bookings.user_id " +
		"LEFT JOIN promotions ON promotions.id = bookings.promo_id"
}

// Balance is the amount still owed. Negative values mean overpayment.
func (b Booking) Balance() float64 {
	return b.TotalPrice - b.AmountPaid
}

func (b Booking) GuestName() string {
	if b.GuestFirstName == nil && b.GuestLastName == nil {
		return ""
	}

	first, last := "", ""
	if b.GuestFirstName != nil {
		first = *b.GuestFirstName
	}

	if b.GuestLastName != nil {
		last = *b.GuestLastName
	}

	if last == "" {
		return first
	}

	if first == "" {
		return last
	}

	return first + " " + last
}
