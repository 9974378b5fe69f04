package dto_test

import (
	"testing"
	"time"

	"condo/internal/domains/review/model"
	"condo/internal/domains/review/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewRequest_ToModel(t *testing.T) {
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	req := dto.CreateReviewRequest{BookingID: "booking-1", Rating: 4, Comment: " Quiet and clean \n"}

	review := req.ToModel("user-1", "room-1", now)

	assert.NotEmpty(t, review.ID, "expected ID to be generated")
	assert.Equal(t, "booking-1", review.BookingID)
	assert.Equal(t, "room-1", review.RoomID)
	assert.Equal(t, "Quiet and clean", review.Comment)
	assert.False(t, review.IsVisible)
	assert.Equal(t, "user-1", review.CreatedBy)
	assert.True(t, review.ModifiedAt.Equal(now))
}

func TestReviewResponse_FromModel(t *testing.T) {
	t.Run("anonymous guest", func(t *testing.T) {
		var res dto.ReviewResponse
		res.FromModel(model.Review{ID: "review-1", Rating: 3})

		assert.Equal(t, "Guest", res.GuestName)
		assert.Empty(t, res.RoomName)
	})

	t.Run("joined names", func(t *testing.T) {
		guest, room := "Budi", "Studio A"

		var res dto.ReviewResponse
		res.FromModel(model.Review{ID: "review-1", GuestFirstName: &guest, RoomName: &room, IsVisible: true})

		assert.Equal(t, "Budi", res.GuestName)
		assert.Equal(t, "Studio A", res.RoomName)
		assert.True(t, res.IsVisible)
	})
}

func TestGetReviewsResponse_FromModels(t *testing.T) {
	var res dto.GetReviewsResponse
	res.FromModels([]model.Review{{ID: "a"}, {ID: "b"}}, 5, 2)

	require.Len(t, res.Reviews, 2)
	assert.Equal(t, 5, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
}
