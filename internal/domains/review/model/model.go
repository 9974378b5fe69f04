package model

import "condo/shared/model"

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldUserID    = "user_id"
	FieldRoomID    = "room_id"
	FieldRating    = "rating"
	FieldComment   = "comment"
	FieldIsVisible = "is_visible"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a guest's rating of a completed stay. New reviews stay hidden until staff approve them.
type Review struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	UserID    string `db:"user_id"`
	RoomID    string `db:"room_id"`
	Rating    int    `db:"rating"`
	Comment   string `db:"comment"`
	IsVisible bool   `db:"is_visible"`

	GuestFirstName *string `db:"guest_first_name" table:"users" column:"first_name"`
	RoomName       *string `db:"room_name"        table:"rooms" column:"name"`
	model.Metadata
}

func (Review) GetJoinQuery() string {
	return "LEFT JOIN users ON users.id = reviews.user_id " +
		"LEFT JOIN rooms ON rooms.id = reviews.room_id"
}
