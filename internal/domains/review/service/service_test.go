package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"condo/infras/otel/mocks"
	bookingMocks "condo/internal/domains/booking/mocks"
	bookingModel "condo/internal/domains/booking/model"
	reviewMocks "condo/internal/domains/review/mocks"
	"condo/internal/domains/review/model"
	"condo/internal/domains/review/model/dto"
	"condo/internal/domains/review/repository"
	"condo/internal/domains/review/service"
	"condo/shared/clock"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      service.Review
	repo     *reviewMocks.MockReview
	bookings *bookingMocks.MockBooking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     reviewMocks.NewMockReview(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
	}

	f.svc = service.New(f.repo, f.bookings, clock.Fixed(now), mocks.NewOtel())

	return f
}

func guestContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserEmail, "guest@example.com")
}

func completedBooking(userID string) bookingModel.Booking {
	return bookingModel.Booking{ID: "booking-1", RoomID: "room-1", UserID: &userID, Status: bookingModel.StatusCompleted}
}

func TestReviewService_Create(t *testing.T) {
	req := dto.CreateReviewRequest{BookingID: "booking-1", Rating: 5, Comment: "  Spotless unit  "}

	t.Run("hidden until approved", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking("user-1"), nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, review model.Review) error {
			assert.Equal(t, "room-1", review.RoomID)
			assert.Equal(t, "user-1", review.UserID)
			assert.Equal(t, "Spotless unit", review.Comment)
			assert.False(t, review.IsVisible)
			assert.True(t, review.CreatedAt.Equal(now))

			return nil
		})

		res, err := f.svc.Create(guestContext("user-1"), req)
		require.NoError(t, err)

		assert.Equal(t, 5, res.Rating)
		assert.Equal(t, "Guest", res.GuestName)
	})

	rejected := []struct {
		name    string
		booking bookingModel.Booking
	}{
		{name: "unknown booking", booking: bookingModel.Booking{}},
		{name: "someone else's stay", booking: completedBooking("user-2")},
		{name: "stay not completed", booking: func() bookingModel.Booking {
			b := completedBooking("user-1")
			b.Status = bookingModel.StatusConfirmed

			return b
		}()},
	}

	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)

			_, err := f.svc.Create(guestContext("user-1"), req)

			require.Error(t, err)
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}

	t.Run("second review of the same stay", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking("user-1"), nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(repository.ErrAlreadyReviewed)

		_, err := f.svc.Create(guestContext("user-1"), req)

		require.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), req)

		require.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})
}

func TestReviewService_GetAll(t *testing.T) {
	f := newFixture(t)

	name := "Ana"
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	f.repo.EXPECT().Count(gomock.Any(), filter).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), filter).Return([]model.Review{
		{ID: "review-1", Rating: 4, GuestFirstName: &name, IsVisible: true},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, filter)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	require.Len(t, res.Reviews, 1)
	assert.Equal(t, "Ana", res.Reviews[0].GuestName)
}

func TestReviewService_Get(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Review{}, nil)

	_, err := f.svc.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestReviewService_Moderate(t *testing.T) {
	visible := true

	t.Run("publishes", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, true, req[model.FieldIsVisible])
			assert.Equal(t, "staff@example.com", req[constant.FieldModifiedBy])

			return nil
		})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, "staff@example.com")
		assert.NoError(t, f.svc.Moderate(ctx, dto.ModerateReviewRequest{IsVisible: &visible}, "review-1"))
	})

	t.Run("missing review", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Moderate(context.Background(), dto.ModerateReviewRequest{IsVisible: &visible}, "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestReviewService_Delete(t *testing.T) {
	t.Run("rejects a review", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Delete(context.Background(), "review-1"))
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		assert.Error(t, f.svc.Delete(context.Background(), "review-1"))
	})
}
