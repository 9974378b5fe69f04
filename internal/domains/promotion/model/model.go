package model

import (
	"time"

	"condo/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "promotions"
	EntityName = "promotion"

	FieldID            = "id"
	FieldCode          = "code"
	FieldName          = "name"
	FieldType          = "type"
	FieldEligibleDates = "eligible_dates"
	FieldAllowedEmails = "allowed_emails"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldIsActive      = "is_active"
)

const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
	TypeExtension  = "extension"
)

type Promotion struct {
	ID              string         `db:"id"`
	Code            string         `db:"code"`
	Name            string         `db:"name"`
	Type            string         `db:"type"`
	DiscountValue   float64        `db:"discount_value"`
	ExtensionHours  int            `db:"extension_hours"`
	EligibleDates   pq.StringArray `db:"eligible_dates"`
	AllowedEmails   pq.StringArray `db:"allowed_emails"`
	ApplicableRooms pq.StringArray `db:"applicable_rooms"`
	StartDate       *time.Time     `db:"start_date"`
	EndDate         *time.Time     `db:"end_date"`
	IsActive        bool           `db:"is_active"`
	model.Metadata
}
