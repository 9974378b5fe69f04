package model

import (
	"condo/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID                  = "id"
	FieldName                = "name"
	FieldDescription         = "description"
	FieldImage               = "image"
	FieldCategory            = "category"
	FieldPricePerNight       = "price_per_night"
	FieldCapacity            = "capacity"
	FieldAmenities           = "amenities"
	FieldStandardStayHours   = "standard_stay_hours"
	FieldCleaningBufferHours = "cleaning_buffer_hours"
	FieldIsActive            = "is_active"
	FieldAirbnbICalURL       = "airbnb_ical_url"
	FieldAgodaICalURL        = "agoda_ical_url"
)

const (
	CategoryStudio    = "Studio"
	Category1BR       = "1BR"
	Category2BR       = "2BR"
	Category3BR       = "3BR"
	Category4BR       = "4BR"
	CategoryPenthouse = "Penthouse"
)

const (
	DefaultStandardStayHours   = 22
	DefaultCleaningBufferHours = 2
)

type Room struct {
	ID                  string         `db:"id"`
	Name                string         `db:"name"`
	Category            string         `db:"category"`
	Description         string         `db:"description"`
	PricePerNight       float64        `db:"price_per_night"`
	Capacity            int            `db:"capacity"`
	StandardStayHours   int            `db:"standard_stay_hours"`
	CleaningBufferHours int            `db:"cleaning_buffer_hours"`
	Amenities           pq.StringArray `db:"amenities"`
	Image               string         `db:"image"`
	IsActive            bool           `db:"is_active"`
	AirbnbICalURL       string         `db:"airbnb_ical_url"`
	AgodaICalURL        string         `db:"agoda_ical_url"`
	model.Metadata
}

// IsSmall reports whether the room is billed the small late-checkout fee.
func (r Room) IsSmall() bool {
	return r.Category == CategoryStudio || r.Category == Category1BR
}

// Feeds maps platform tags to the configured external calendar URLs.
func (r Room) Feeds() map[string]string {
	feeds := map[string]string{}

	if r.AirbnbICalURL != "" {
		feeds["airbnb"] = r.AirbnbICalURL
	}

	if r.AgodaICalURL != "" {
		feeds["agoda"] = r.AgodaICalURL
	}

	return feeds
}
