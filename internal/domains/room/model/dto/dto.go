package dto

import (
	"mime/multipart"
	"time"

	"condo/internal/domains/room/model"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoomRequest struct {
	Name                string                `json:"name"                  validate:"required,max=100"`
	Category            string                `json:"category"              validate:"required,oneof=Studio 1BR 2BR 3BR 4BR Penthouse"`
	Description         string                `json:"description"           validate:"omitempty,max=2000"`
	PricePerNight       float64               `json:"price_per_night"       validate:"required,gt=0"`
	Capacity            int                   `json:"capacity"              validate:"required,min=1"`
	StandardStayHours   *int                  `json:"standard_stay_hours"   validate:"omitempty,min=0"`
	CleaningBufferHours *int                  `json:"cleaning_buffer_hours" validate:"omitempty,min=0"`
	Amenities           []string              `json:"amenities"             validate:"omitempty,dive,max=100"`
	AirbnbICalURL       string                `json:"airbnb_ical_url"       validate:"omitempty,url"`
	AgodaICalURL        string                `json:"agoda_ical_url"        validate:"omitempty,url"`
	IsActive            *bool                 `json:"is_active"`
	Image               *multipart.FileHeader `json:"image"                 validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile           multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	stay := model.DefaultStandardStayHours
	if c.StandardStayHours != nil {
		stay = *c.StandardStayHours
	}

	buffer := model.DefaultCleaningBufferHours
	if c.CleaningBufferHours != nil {
		buffer = *c.CleaningBufferHours
	}

	return model.Room{
		ID:                  uuid.NewString(),
		Name:                c.Name,
		Category:            c.Category,
		Description:         c.Description,
		PricePerNight:       c.PricePerNight,
		Capacity:            c.Capacity,
		StandardStayHours:   stay,
		CleaningBufferHours: buffer,
		Amenities:           pq.StringArray(c.Amenities),
		Image:               imageURL,
		IsActive:            active,
		AirbnbICalURL:       c.AirbnbICalURL,
		AgodaICalURL:        c.AgodaICalURL,
		Metadata:            gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateRoomRequest struct {
	Name                string                `db:"name"                  json:"name"                  validate:"omitempty,max=100"`
	Category            string                `db:"category"              json:"category"              validate:"omitempty,oneof=Studio 1BR 2BR 3BR 4BR Penthouse"`
	Description         *string               `db:"description"           json:"description"           validate:"omitempty,max=2000"`
	PricePerNight       *float64              `db:"price_per_night"       json:"price_per_night"       validate:"omitempty,gt=0"`
	Capacity            *int                  `db:"capacity"              json:"capacity"              validate:"omitempty,min=1"`
	StandardStayHours   *int                  `db:"standard_stay_hours"   json:"standard_stay_hours"   validate:"omitempty,min=0"`
	CleaningBufferHours *int                  `db:"cleaning_buffer_hours" json:"cleaning_buffer_hours" validate:"omitempty,min=0"`
	Amenities           pq.StringArray        `db:"amenities"             json:"amenities"             validate:"omitempty,dive,max=100"`
	AirbnbICalURL       *string               `db:"airbnb_ical_url"       json:"airbnb_ical_url"       validate:"omitempty,url"`
	AgodaICalURL        *string               `db:"agoda_ical_url"        json:"agoda_ical_url"        validate:"omitempty,url"`
	IsActive            *bool                 `db:"is_active"             json:"is_active"`
	Image               *multipart.FileHeader `json:"image"                 validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile           multipart.File        `json:"-"`
}

type RoomResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Category            string   `json:"category"`
	Description         string   `json:"description"`
	PricePerNight       float64  `json:"price_per_night"`
	Capacity            int      `json:"capacity"`
	StandardStayHours   int      `json:"standard_stay_hours"`
	CleaningBufferHours int      `json:"cleaning_buffer_hours"`
	Amenities           []string `json:"amenities"`
	Image               string   `json:"image"`
	IsActive            bool     `json:"is_active"`
	AirbnbICalURL       string   `json:"airbnb_ical_url,omitempty"`
	AgodaICalURL        string   `json:"agoda_ical_url,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = model.Category
	r.Description = model.Description
	r.PricePerNight = model.PricePerNight
	r.Capacity = model.Capacity
	r.StandardStayHours = model.StandardStayHours
	r.CleaningBufferHours = model.CleaningBufferHours
	r.Amenities = append([]string{}, model.Amenities...)
	r.Image = model.Image
	r.IsActive = model.IsActive
	r.AirbnbICalURL = model.AirbnbICalURL
	r.AgodaICalURL = model.AgodaICalURL
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type AvailabilityRequest struct {
	CheckIn  string `json:"check_in"  validate:"required"`
	CheckOut string `json:"check_out" validate:"omitempty"`
}

type AvailabilityResponse struct {
	RoomID       string `json:"room_id"`
	Available    bool   `json:"available"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	BufferEnd    string `json:"buffer_end"`
	Duration     int    `json:"duration_hours"`
	PromoApplied bool   `json:"promo_applied"`
	PromoName    string `json:"promo_name,omitempty"`
}

type BusyRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type BusyResponse struct {
	RoomID string      `json:"room_id"`
	Date   string      `json:"date"`
	Busy   []BusyRange `json:"busy"`
}

func NewBusyRange(from, to time.Time) BusyRange {
	return BusyRange{
		From: timezone.Format(from, constant.DateFormat),
		To:   timezone.Format(to, constant.DateFormat),
	}
}
