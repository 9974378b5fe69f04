package dto

import (
	"strings"
	"time"

	"condo/internal/domains/review/model"
	"condo/shared"
	gDto "condo/shared/dto"
	gModel "condo/shared/model"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"required,max=1000"`
}

func (c *CreateReviewRequest) ToModel(userID, roomID string, now time.Time) model.Review {
	return model.Review{
		ID:        uuid.NewString(),
		BookingID: c.BookingID,
		UserID:    userID,
		RoomID:    roomID,
		Rating:    c.Rating,
		Comment:   strings.TrimSpace(c.Comment),
		IsVisible: false,
		Metadata:  gModel.NewMetadata(userID, now),
	}
}

type ModerateReviewRequest struct {
	IsVisible *bool `db:"is_visible" json:"is_visible" validate:"required"`
}

type ReviewResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	RoomName  string `json:"room_name,omitempty"`
	GuestName string `json:"guest_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	IsVisible bool   `json:"is_visible"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.RoomID = model.RoomID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.IsVisible = model.IsVisible
	r.GuestName = "Guest"

	if model.RoomName != nil {
		r.RoomName = *model.RoomName
	}

	if model.GuestFirstName != nil && *model.GuestFirstName != "" {
		r.GuestName = *model.GuestFirstName
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
