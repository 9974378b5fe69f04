package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"condo/internal/domains/booking/model"
	"condo/internal/domains/booking/occupancy"
	"condo/internal/domains/booking/pricing"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/timezone"
)

type CompanionRequest struct {
	Name        string `json:"name"          validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datekey"`
	Age         *int   `json:"age"           validate:"omitempty,min=0,max=130"`
	Gender      string `json:"gender"        validate:"omitempty,max=20"`
	Contact     string `json:"contact"       validate:"omitempty,max=50"`
	IDImage     string `json:"id_image"      validate:"omitempty,url"`
}

// CompanionList accepts either a single companion object or an array of them.
type CompanionList []CompanionRequest

func (c *CompanionList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*c = nil

		return nil
	case trimmed[0] == '{':
		var single CompanionRequest
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return fmt.Errorf("invalid companion: %w", err)
		}

		*c = CompanionList{single}

		return nil
	}

	var list []CompanionRequest
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return fmt.Errorf("invalid companions: %w", err)
	}

	*c = list

	return nil
}

func parseDOB(key string) (*time.Time, error) {
	if key == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	dob, err := timezone.ParseDateKey(key, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth %q: %w", key, err)
	}

	return &dob, nil
}

func (c CompanionList) ToModel() (model.Companions, error) {
	companions := make(model.Companions, 0, len(c))

	for _, companion := range c {
		dob, err := parseDOB(companion.DateOfBirth)
		if err != nil {
			return nil, err
		}

		companions = append(companions, model.Companion{
			Name:        companion.Name,
			Age:         companion.Age,
			DateOfBirth: dob,
			Gender:      companion.Gender,
			Contact:     companion.Contact,
			IDImage:     companion.IDImage,
		})
	}

	return companions, nil
}

// People adapts stored companions for the occupancy classifier.
func People(companions model.Companions) []occupancy.Person {
	people := make([]occupancy.Person, 0, len(companions))
	for _, companion := range companions {
		people = append(people, occupancy.Person{Name: companion.Name, DateOfBirth: companion.DateOfBirth, Age: companion.Age})
	}

	return people
}

// StayRequest is the part of a booking that decides its window and its price.
type StayRequest struct {
	RoomID       string `json:"room_id"       validate:"required"`
	CheckIn      string `json:"check_in"      validate:"required"`
	CheckOut     string `json:"check_out"     validate:"omitempty"`
	PromoCode    string `json:"promo_code"    validate:"omitempty,max=30"`
	LateCheckout bool   `json:"late_checkout"`
}

func (s StayRequest) ParseCheckIn() (time.Time, error) {
	checkIn, err := time.Parse(constant.DateFormat, s.CheckIn)
	if err != nil {
		return time.Time{}, fmt.Errorf("check_in must be an RFC3339 timestamp: %w", err)
	}

	return checkIn, nil
}

// ParseCheckOut returns the zero time when no checkout was requested.
func (s StayRequest) ParseCheckOut() (time.Time, error) {
	if s.CheckOut == constant.Empty {
		return time.Time{}, nil
	}

	checkOut, err := time.Parse(constant.DateFormat, s.CheckOut)
	if err != nil {
		return time.Time{}, fmt.Errorf("check_out must be an RFC3339 timestamp: %w", err)
	}

	return checkOut, nil
}

type CreateBookingRequest struct {
	StayRequest
	GuestPhone      string        `json:"guest_phone"      validate:"required,max=20"`
	GuestIDType     string        `json:"guest_id_type"    validate:"omitempty,max=50"`
	GuestIDNumber   string        `json:"guest_id_number"  validate:"omitempty,max=50"`
	GuestIDImage    string        `json:"guest_id_image"   validate:"omitempty,url"`
	SpecialRequests string        `json:"special_requests" validate:"omitempty,max=1000"`
	Companions      CompanionList `json:"companions"       validate:"omitempty,dive"`
}

type ManualBookingRequest struct {
	StayRequest
	GuestFirstName   string        `json:"guest_first_name"    validate:"required,max=100"`
	GuestLastName    string        `json:"guest_last_name"     validate:"omitempty,max=100"`
	GuestEmail       string        `json:"guest_email"         validate:"required,email,max=100"`
	GuestPhone       string        `json:"guest_phone"         validate:"required,max=20"`
	GuestDateOfBirth string        `json:"guest_date_of_birth" validate:"omitempty,datekey"`
	GuestIDType      string        `json:"guest_id_type"       validate:"omitempty,max=50"`
	GuestIDNumber    string        `json:"guest_id_number"     validate:"omitempty,max=50"`
	GuestIDImage     string        `json:"guest_id_image"      validate:"omitempty,url"`
	SpecialRequests  string        `json:"special_requests"    validate:"omitempty,max=1000"`
	Companions       CompanionList `json:"companions"          validate:"omitempty,dive"`
	AmountPaid       float64       `json:"amount_paid"         validate:"min=0"`
	PaymentRef       string        `json:"payment_ref"         validate:"omitempty,max=100"`
}

func (m ManualBookingRequest) ParseGuestDOB() (*time.Time, error) {
	return parseDOB(m.GuestDateOfBirth)
}

type QuoteRequest struct {
	StayRequest
	Email     string `json:"email"      validate:"omitempty,email"`
	BookingID string `json:"booking_id" validate:"omitempty"`
}

type QuoteResponse struct {
	RoomID        string `json:"room_id"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	BufferEnd     string `json:"buffer_end"`
	DurationHours int    `json:"duration_hours"`
	pricing.Breakdown
	PromoApplied bool   `json:"promo_applied"`
	PromoID      string `json:"promo_id,omitempty"`
	PromoName    string `json:"promo_name,omitempty"`
	PromoMessage string `json:"promo_message,omitempty"`
	PromoAction  string `json:"promo_action,omitempty"`
}

type UpdateStatusRequest struct {
	Status        string   `json:"status"         validate:"required,oneof=pending confirmed completed cancelled"`
	PaymentStatus *string  `json:"payment_status" validate:"omitempty,oneof=unpaid partial paid refunded"`
	AmountPaid    *float64 `json:"amount_paid"    validate:"omitempty,min=0"`
	PaymentRef    *string  `json:"payment_ref"    validate:"omitempty,max=100"`
	AdminNotes    *string  `json:"admin_notes"    validate:"omitempty,max=2000"`
}

// UpdateBookingRequest is the guest's edit of a booking that is still pending.
type UpdateBookingRequest struct {
	GuestPhone      *string       `db:"guest_phone"      json:"guest_phone"      validate:"omitempty,max=20"`
	GuestIDImage    *string       `db:"guest_id_image"   json:"guest_id_image"   validate:"omitempty,url"`
	SpecialRequests *string       `db:"special_requests" json:"special_requests" validate:"omitempty,max=1000"`
	Companions      CompanionList `json:"companions"       validate:"omitempty,dive"`
}

type BookingResponse struct {
	ID              string           `json:"id"`
	RoomID          string           `json:"room_id"`
	RoomName        string           `json:"room_name,omitempty"`
	UserID          *string          `json:"user_id,omitempty"`
	GuestName       string           `json:"guest_name,omitempty"`
	GuestEmail      string           `json:"guest_email,omitempty"`
	CheckInDate     string           `json:"check_in_date"`
	CheckOutDate    string           `json:"check_out_date"`
	TotalPrice      float64          `json:"total_price"`
	ExtraFee        float64          `json:"extra_fee"`
	AmountPaid      float64          `json:"amount_paid"`
	Balance         float64          `json:"balance"`
	Guests          int              `json:"guests"`
	GuestPhone      string           `json:"guest_phone"`
	GuestIDType     string           `json:"guest_id_type,omitempty"`
	GuestIDNumber   string           `json:"guest_id_number,omitempty"`
	GuestIDImage    string           `json:"guest_id_image,omitempty"`
	SpecialRequests string           `json:"special_requests,omitempty"`
	PaymentRef      string           `json:"payment_ref,omitempty"`
	Companions      model.Companions `json:"companions"`
	Status          string           `json:"status"`
	PaymentStatus   string           `json:"payment_status"`
	PromoID         *string          `json:"promo_id,omitempty"`
	PromoCode       string           `json:"promo_code,omitempty"`
	Source          string           `json:"source"`
	ExternalID      *string          `json:"external_id,omitempty"`
	AdminNotes      string           `json:"admin_notes,omitempty"`
	gDto.Metadata
}

func deref(value *string) string {
	if value == nil {
		return constant.Empty
	}

	return *value
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.RoomID = booking.RoomID
	r.RoomName = deref(booking.RoomName)
	r.UserID = booking.UserID
	r.GuestName = booking.GuestName()
	r.GuestEmail = deref(booking.GuestEmail)
	r.CheckInDate = timezone.Format(booking.CheckInDate, constant.DateFormat)
	r.CheckOutDate = timezone.Format(booking.CheckOutDate, constant.DateFormat)
	r.TotalPrice = booking.TotalPrice
	r.ExtraFee = booking.ExtraFee
	r.AmountPaid = booking.AmountPaid
	r.Balance = booking.Balance()
	r.Guests = booking.Guests
	r.GuestPhone = booking.GuestPhone
	r.GuestIDType = booking.GuestIDType
	r.GuestIDNumber = booking.GuestIDNumber
	r.GuestIDImage = booking.GuestIDImage
	r.SpecialRequests = booking.SpecialRequests
	r.PaymentRef = booking.PaymentRef
	r.Companions = booking.Companions
	r.Status = booking.Status
	r.PaymentStatus = booking.PaymentStatus
	r.PromoID = booking.PromoID
	r.PromoCode = deref(booking.PromoCode)
	r.Source = booking.Source
	r.ExternalID = booking.ExternalID
	r.AdminNotes = booking.AdminNotes
	r.Metadata.FromModel(booking.Metadata)

	if r.Companions == nil {
		r.Companions = make([]model.Companion, 0)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type RosterResponse struct {
	BookingID    string `json:"booking_id"`
	RoomName     string `json:"room_name"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	occupancy.Result
}
