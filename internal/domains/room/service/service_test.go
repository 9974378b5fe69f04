package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"condo/config"
	s3Mocks "condo/infras/s3/mocks"
	"condo/infras/otel/mocks"
	bookingMocks "condo/internal/domains/booking/mocks"
	bookingModel "condo/internal/domains/booking/model"
	roomMocks "condo/internal/domains/room/mocks"
	"condo/internal/domains/room/model"
	"condo/internal/domains/room/model/dto"
	"condo/internal/domains/room/service"
	cacheMocks "condo/shared/cache/mocks"
	"condo/shared/constant"
	"condo/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc      service.Room
	rooms    *roomMocks.MockRoom
	bookings *bookingMocks.MockBooking
	cache    *cacheMocks.MockRedisCache
	s3       *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		rooms:    roomMocks.NewMockRoom(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.rooms, f.bookings, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func studio() model.Room {
	return model.Room{
		ID:                  "room-1",
		Name:                "Studio 12F",
		Category:            model.CategoryStudio,
		PricePerNight:       2500,
		Capacity:            2,
		StandardStayHours:   22,
		CleaningBufferHours: 2,
		IsActive:            true,
		Image:               "https://cdn.condo.test/room/old.jpg",
	}
}

func staffCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserEmail, "manager@condo.test")
}

func TestRoomService_Create(t *testing.T) {
	header := &multipart.FileHeader{Filename: "lobby.png"}

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "defaults applied without image",
			req:  dto.CreateRoomRequest{Name: "Studio", Category: model.CategoryStudio, PricePerNight: 1500, Capacity: 2},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, model.DefaultStandardStayHours, room.StandardStayHours)
						assert.Equal(t, model.DefaultCleaningBufferHours, room.CleaningBufferHours)
						assert.True(t, room.IsActive)
						assert.Equal(t, "manager@condo.test", room.CreatedBy)

						return nil
					})
			},
		},
		{
			name: "image uploaded under the room directory",
			req:  dto.CreateRoomRequest{Name: "Suite", Category: model.Category2BR, PricePerNight: 5000, Capacity: 4, Image: header},
			setupMock: func(f fixture) {
				f.s3.EXPECT().UploadFile(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), header).
					Return("https://cdn.condo.test/room/new.png", nil)
				f.rooms.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "https://cdn.condo.test/room/new.png", room.Image)

						return nil
					})
			},
		},
		{
			name: "upload failure",
			req:  dto.CreateRoomRequest{Name: "Suite", Image: header},
			setupMock: func(f fixture) {
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket gone"))
			},
			wantErr: true,
		},
		{
			name: "insert failure removes the uploaded image",
			req:  dto.CreateRoomRequest{Name: "Suite", Image: header},
			setupMock: func(f fixture) {
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.condo.test/room/new.png", nil)
				f.rooms.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("insert error"))
				f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://cdn.condo.test/room/new.png").Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Create(staffCtx(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	t.Run("cache hit skips repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "room:get:room-1", gomock.Any()).Return(nil)

		_, err := f.svc.Get(context.Background(), "room-1")
		assert.NoError(t, err)
	})

	t.Run("cache miss", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)

		res, err := f.svc.Get(context.Background(), "room-1")
		require.NoError(t, err)
		assert.Equal(t, "Studio 12F", res.Name)
		assert.Equal(t, 22, res.StandardStayHours)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := f.svc.Get(context.Background(), "nope")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomService_Update(t *testing.T) {
	capacity := 3

	t.Run("fields and replacement image", func(t *testing.T) {
		f := newFixture(t)
		header := &multipart.FileHeader{Filename: "new.jpg"}

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), header).
			Return("https://cdn.condo.test/room/new.jpg", nil)
		f.rooms.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, 3, fields[model.FieldCapacity])
				assert.Equal(t, "https://cdn.condo.test/room/new.jpg", fields[model.FieldImage])

				return nil
			})
		f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://cdn.condo.test/room/old.jpg").Return(nil).AnyTimes()

		err := f.svc.Update(staffCtx(), dto.UpdateRoomRequest{Capacity: &capacity, Image: header}, "room-1")
		assert.NoError(t, err)
	})

	t.Run("missing room", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := f.svc.Update(staffCtx(), dto.UpdateRoomRequest{Capacity: &capacity}, "nope")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("upcoming bookings block deletion", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
		f.bookings.EXPECT().ListOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{{ID: "b-1"}}, nil)

		err := f.svc.Delete(staffCtx(), "room-1")
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("deleted with its image", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
		f.bookings.EXPECT().ListOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).Return(nil, nil)
		f.rooms.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().DeleteByURL(gomock.Any(), studio().Image).Return(nil).AnyTimes()

		assert.NoError(t, f.svc.Delete(staffCtx(), "room-1"))
	})
}

func TestRoomService_Availability(t *testing.T) {
	checkIn := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		req       dto.AvailabilityRequest
		setupMock func(f fixture)
		wantErr   bool
		want      bool
		wantOut   time.Time
	}{
		{
			name:      "invalid check in",
			req:       dto.AvailabilityRequest{CheckIn: "tomorrow"},
			setupMock: func(fixture) {},
			wantErr:   true,
		},
		{
			name: "standard stay derives check out",
			req:  dto.AvailabilityRequest{CheckIn: checkIn.Format(time.RFC3339)},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.bookings.EXPECT().IsAvailable(gomock.Any(), "room-1", checkIn, checkIn.Add(22*time.Hour)).Return(true, nil)
			},
			want:    true,
			wantOut: checkIn.Add(22 * time.Hour),
		},
		{
			name: "explicit range taken",
			req:  dto.AvailabilityRequest{CheckIn: checkIn.Format(time.RFC3339), CheckOut: checkIn.Add(48 * time.Hour).Format(time.RFC3339)},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.bookings.EXPECT().IsAvailable(gomock.Any(), "room-1", checkIn, checkIn.Add(48*time.Hour)).Return(false, nil)
			},
			want:    false,
			wantOut: checkIn.Add(48 * time.Hour),
		},
		{
			name: "check out before check in",
			req:  dto.AvailabilityRequest{CheckIn: checkIn.Format(time.RFC3339), CheckOut: checkIn.Add(-time.Hour).Format(time.RFC3339)},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
			},
			wantErr: true,
		},
		{
			name: "room without a stay length has an empty window",
			req:  dto.AvailabilityRequest{CheckIn: checkIn.Format(time.RFC3339)},
			setupMock: func(f fixture) {
				room := studio()
				room.StandardStayHours = 0

				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Availability(context.Background(), "room-1", tt.req)
			if tt.wantErr {
				assert.Equal(t, 400, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Available)

			out, err := time.Parse(time.RFC3339, res.CheckOut)
			require.NoError(t, err)
			assert.True(t, tt.wantOut.Equal(out))
		})
	}
}

func TestRoomService_Busy(t *testing.T) {
	f := newFixture(t)

	in := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	f.bookings.EXPECT().ListOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, from, to time.Time) ([]bookingModel.Booking, error) {
			assert.Equal(t, 24*time.Hour, to.Sub(from))

			return []bookingModel.Booking{{CheckInDate: in, CheckOutDate: in.Add(22 * time.Hour)}}, nil
		})

	res, err := f.svc.Busy(context.Background(), "room-1", "2025-03-01")
	require.NoError(t, err)
	require.Len(t, res.Busy, 1)

	_, err = f.svc.Busy(context.Background(), "room-1", "03/01/2025")
	assert.Equal(t, 400, failure.GetCode(err))
}
