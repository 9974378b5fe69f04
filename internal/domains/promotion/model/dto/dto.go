package dto

import (
	"strings"
	"time"

	"condo/internal/domains/promotion/evaluator"
	"condo/internal/domains/promotion/model"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreatePromotionRequest struct {
	Code            string   `json:"code"             validate:"required,alphanum,max=30"`
	Name            string   `json:"name"             validate:"required,max=100"`
	Type            string   `json:"type"             validate:"required,oneof=percentage fixed extension"`
	DiscountValue   float64  `json:"discount_value"   validate:"omitempty,min=0"`
	ExtensionHours  int      `json:"extension_hours"  validate:"omitempty,min=0"`
	EligibleDates   []string `json:"eligible_dates"   validate:"omitempty,dive,datekey"`
	AllowedEmails   []string `json:"allowed_emails"   validate:"omitempty,dive,email"`
	ApplicableRooms []string `json:"applicable_rooms" validate:"omitempty,dive,uuid"`
	StartDate       string   `json:"start_date"       validate:"omitempty,datekey"`
	EndDate         string   `json:"end_date"         validate:"omitempty,datekey"`
	IsActive        *bool    `json:"is_active"`
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func NormalizeEmails(emails []string) pq.StringArray {
	normalized := make(pq.StringArray, 0, len(emails))
	for _, email := range emails {
		normalized = append(normalized, evaluator.NormalizeEmail(email))
	}

	return normalized
}

func parseOptionalDate(key string) (*time.Time, error) {
	if key == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	date, err := timezone.ParseDateKey(key, nil)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &date, nil
}

func (c *CreatePromotionRequest) ToModel(user string) (model.Promotion, error) {
	start, err := parseOptionalDate(c.StartDate)
	if err != nil {
		return model.Promotion{}, err
	}

	end, err := parseOptionalDate(c.EndDate)
	if err != nil {
		return model.Promotion{}, err
	}

	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.Promotion{
		ID:              uuid.NewString(),
		Code:            NormalizeCode(c.Code),
		Name:            c.Name,
		Type:            c.Type,
		DiscountValue:   c.DiscountValue,
		ExtensionHours:  c.ExtensionHours,
		EligibleDates:   pq.StringArray(c.EligibleDates),
		AllowedEmails:   NormalizeEmails(c.AllowedEmails),
		ApplicableRooms: pq.StringArray(c.ApplicableRooms),
		StartDate:       start,
		EndDate:         end,
		IsActive:        active,
		Metadata:        gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

type UpdatePromotionRequest struct {
	Name            string         `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Type            string         `db:"type"             json:"type"             validate:"omitempty,oneof=percentage fixed extension"`
	DiscountValue   *float64       `db:"discount_value"   json:"discount_value"   validate:"omitempty,min=0"`
	ExtensionHours  *int           `db:"extension_hours"  json:"extension_hours"  validate:"omitempty,min=0"`
	EligibleDates   pq.StringArray `db:"eligible_dates"   json:"eligible_dates"   validate:"omitempty,dive,datekey"`
	AllowedEmails   []string       `json:"allowed_emails"   validate:"omitempty,dive,email"`
	ApplicableRooms pq.StringArray `db:"applicable_rooms" json:"applicable_rooms" validate:"omitempty,dive,uuid"`
	StartDate       string         `json:"start_date"       validate:"omitempty,datekey"`
	EndDate         string         `json:"end_date"         validate:"omitempty,datekey"`
	IsActive        *bool          `db:"is_active"        json:"is_active"`
}

// Fields renders the update map, normalizing emails and parsing date keys the way inserts do.
func (u *UpdatePromotionRequest) Fields(user string) (map[string]any, error) {
	fields := shared.TransformFields(*u, user)

	if u.AllowedEmails != nil {
		fields[model.FieldAllowedEmails] = NormalizeEmails(u.AllowedEmails)
	}

	for column, key := range map[string]string{model.FieldStartDate: u.StartDate, model.FieldEndDate: u.EndDate} {
		date, err := parseOptionalDate(key)
		if err != nil {
			return nil, err
		}

		if date != nil {
			fields[column] = *date
		}
	}

	return fields, nil
}

type PromotionResponse struct {
	ID              string   `json:"id"`
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	DiscountValue   float64  `json:"discount_value"`
	ExtensionHours  int      `json:"extension_hours"`
	EligibleDates   []string `json:"eligible_dates"`
	AllowedEmails   []string `json:"allowed_emails"`
	ApplicableRooms []string `json:"applicable_rooms"`
	StartDate       *string  `json:"start_date,omitempty"`
	EndDate         *string  `json:"end_date,omitempty"`
	IsActive        bool     `json:"is_active"`
	gDto.Metadata
}

func formatOptionalDate(date *time.Time) *string {
	if date == nil {
		return nil
	}

	key := timezone.DateKey(*date, nil)

	return &key
}

func (r *PromotionResponse) FromModel(model model.Promotion) {
	r.ID = model.ID
	r.Code = model.Code
	r.Name = model.Name
	r.Type = model.Type
	r.DiscountValue = model.DiscountValue
	r.ExtensionHours = model.ExtensionHours
	r.EligibleDates = append([]string{}, model.EligibleDates...)
	r.AllowedEmails = append([]string{}, model.AllowedEmails...)
	r.ApplicableRooms = append([]string{}, model.ApplicableRooms...)
	r.StartDate = formatOptionalDate(model.StartDate)
	r.EndDate = formatOptionalDate(model.EndDate)
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetPromotionsResponse struct {
	Promotions []PromotionResponse `json:"promotions"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetPromotionsResponse) FromModels(models []model.Promotion, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Promotions = make([]PromotionResponse, len(models))
	for i, mod := range models {
		r.Promotions[i].FromModel(mod)
	}
}

type ValidatePromoRequest struct {
	Code          string  `json:"code"            validate:"required"`
	RoomID        string  `json:"room_id"         validate:"required"`
	TotalAmount   float64 `json:"total_amount"    validate:"min=0"`
	CheckInDate   string  `json:"check_in_date"   validate:"required"`
	PricePerNight float64 `json:"price_per_night" validate:"min=0"`
	Nights        int     `json:"nights"          validate:"required,min=1"`
	Email         string  `json:"email"           validate:"omitempty,email"`
	BookingID     string  `json:"booking_id"      validate:"omitempty"`
}

// ValidatePromoResponse reports rejections in-band with Success false.
type ValidatePromoResponse struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	DiscountAmount float64 `json:"discount_amount"`
	PromoID        string  `json:"promo_id,omitempty"`
	Action         string  `json:"action,omitempty"`
}
