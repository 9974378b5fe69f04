package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"condo/config"
	"condo/infras/metrics"
	"condo/infras/otel/mocks"
	s3Mocks "condo/infras/s3/mocks"
	bookingMocks "condo/internal/domains/booking/mocks"
	"condo/internal/domains/booking/model"
	"condo/internal/domains/booking/model/dto"
	"condo/internal/domains/booking/repository"
	"condo/internal/domains/booking/service"
	"condo/internal/domains/promotion/evaluator"
	promoMocks "condo/internal/domains/promotion/mocks"
	roomMocks "condo/internal/domains/room/mocks"
	roomModel "condo/internal/domains/room/model"
	siteMocks "condo/internal/domains/siteconfig/mocks"
	siteModel "condo/internal/domains/siteconfig/model"
	userMocks "condo/internal/domains/user/mocks"
	userModel "condo/internal/domains/user/model"
	userDto "condo/internal/domains/user/model/dto"
	cacheMocks "condo/shared/cache/mocks"
	"condo/shared/clock"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc        service.Booking
	bookings   *bookingMocks.MockBooking
	rooms      *roomMocks.MockRoom
	users      *userMocks.MockUser
	userSvc    *userMocks.MockUserService
	promos     *promoMocks.MockPromotionService
	siteConfig *siteMocks.MockSiteConfigService
	notifier   *bookingMocks.MockNotifier
	s3         *s3Mocks.MockS3
	cache      *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T, opts ...func(cfg *config.Config)) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		bookings:   bookingMocks.NewMockBooking(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		users:      userMocks.NewMockUser(ctrl),
		userSvc:    userMocks.NewMockUserService(ctrl),
		promos:     promoMocks.NewMockPromotionService(ctrl),
		siteConfig: siteMocks.NewMockSiteConfigService(ctrl),
		notifier:   bookingMocks.NewMockNotifier(ctrl),
		s3:         s3Mocks.NewMockS3(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.MinDownpayment = 0.5

	for _, opt := range opts {
		opt(cfg)
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()

	f.svc = service.New(f.bookings, f.rooms, f.users, f.userSvc, f.promos, f.siteConfig,
		f.notifier, f.s3, clock.Fixed(now), metrics.New(), cfg, f.cache, mocks.NewOtel())

	return f
}

func guestCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "guest@condo.test")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func staffCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "staff@condo.test")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStaff)
}

func studio() roomModel.Room {
	return roomModel.Room{
		ID:                  "room-1",
		Name:                "Studio A",
		Category:            roomModel.CategoryStudio,
		PricePerNight:       1000,
		Capacity:            2,
		StandardStayHours:   22,
		CleaningBufferHours: 2,
		IsActive:            true,
	}
}

func guest() userModel.User {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	return userModel.User{ID: "user-1", Email: "guest@condo.test", FirstName: "Ana", DateOfBirth: &dob}
}

func stay() dto.StayRequest {
	return dto.StayRequest{RoomID: "room-1", CheckIn: "2025-06-10T14:00:00+08:00"}
}

func pending(userID string) model.Booking {
	return model.Booking{
		ID:            "booking-1",
		RoomID:        "room-1",
		UserID:        &userID,
		TotalPrice:    1000,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
	}
}

func TestBookingService_Create(t *testing.T) {
	adult := func(name string) dto.CompanionRequest {
		return dto.CompanionRequest{Name: name, DateOfBirth: "1991-02-03"}
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "pending unpaid hold on the standard window",
			req: dto.CreateBookingRequest{
				StayRequest: stay(),
				GuestPhone:  "0917",
				Companions:  dto.CompanionList{{Name: "Baby", DateOfBirth: "2024-12-01"}},
			},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, model.PaymentUnpaid, booking.PaymentStatus)
						assert.Equal(t, model.SourceWebsite, booking.Source)
						assert.Equal(t, 22*time.Hour, booking.CheckOutDate.Sub(booking.CheckInDate))
						assert.InDelta(t, 1000, booking.TotalPrice, 1e-9)
						assert.Equal(t, 1, booking.Guests)
						assert.Nil(t, booking.PromoID)
						require.NotNil(t, booking.UserID)
						assert.Equal(t, "user-1", *booking.UserID)

						return nil
					})
			},
		},
		{
			name: "companion age is taken on the booking date",
			req: dto.CreateBookingRequest{
				StayRequest: stay(),
				GuestPhone:  "0917",
				Companions:  dto.CompanionList{{Name: "Mia", DateOfBirth: "2022-06-05"}},
			},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						// Two today, three by check-in: still an infant, so not counted.
						assert.Equal(t, 1, booking.Guests)

						return nil
					})
			},
		},
		{
			name: "late checkout adds the small room fee",
			req: dto.CreateBookingRequest{
				StayRequest: dto.StayRequest{RoomID: "room-1", CheckIn: "2025-06-10T14:00:00+08:00", LateCheckout: true},
				GuestPhone:  "0917",
			},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.siteConfig.EXPECT().Current(gomock.Any()).Return(siteModel.Default(), nil)
				f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.InDelta(t, 500, booking.ExtraFee, 1e-9)
						assert.InDelta(t, 1500, booking.TotalPrice, 1e-9)

						return nil
					})
			},
		},
		{
			name:      "guest account missing",
			req:       dto.CreateBookingRequest{StayRequest: stay(), GuestPhone: "0917"},
			setupMock: func(f fixture) { f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil) },
			wantCode:  401,
		},
		{
			name: "room not accepting bookings",
			req:  dto.CreateBookingRequest{StayRequest: stay(), GuestPhone: "0917"},
			setupMock: func(f fixture) {
				room := studio()
				room.IsActive = false

				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantCode: 400,
		},
		{
			name: "party over capacity",
			req: dto.CreateBookingRequest{
				StayRequest: stay(),
				GuestPhone:  "0917",
				Companions:  dto.CompanionList{adult("Ben"), adult("Cy")},
			},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
			},
			wantCode: 422,
		},
		{
			name: "rejected promotion blocks the reservation",
			req: dto.CreateBookingRequest{
				StayRequest: dto.StayRequest{RoomID: "room-1", CheckIn: "2025-06-10T14:00:00+08:00", PromoCode: "OLD"},
				GuestPhone:  "0917",
			},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.promos.EXPECT().Resolve(gomock.Any(), "OLD", gomock.Any(), "").Return(evaluator.Result{}, evaluator.ErrPromoExpired)
			},
			wantCode: 400,
		},
		{
			name: "dates taken by a concurrent booking",
			req:  dto.CreateBookingRequest{StayRequest: stay(), GuestPhone: "0917"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(repository.ErrDatesUnavailable)
			},
			wantCode: 409,
		},
		{
			name: "restricted promotion claimed by a concurrent booking",
			req:  dto.CreateBookingRequest{StayRequest: stay(), GuestPhone: "0917"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(repository.ErrPromoUsed)
			},
			wantCode: 400,
		},
		{
			name: "room deactivated while the reservation waited",
			req:  dto.CreateBookingRequest{StayRequest: stay(), GuestPhone: "0917"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
				f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(repository.ErrRoomUnavailable)
			},
			wantCode: 409,
		},
		{
			name: "room without a stay length yields an empty window",
			req:  dto.CreateBookingRequest{StayRequest: stay(), GuestPhone: "0917"},
			setupMock: func(f fixture) {
				room := studio()
				room.StandardStayHours = 0

				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantCode: 400,
		},
		{
			name:      "malformed check-in",
			req:       dto.CreateBookingRequest{StayRequest: dto.StayRequest{RoomID: "room-1", CheckIn: "tomorrow"}},
			setupMock: func(fixture) {},
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(guestCtx("user-1"), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Studio A", res.RoomName)
			assert.Equal(t, model.StatusPending, res.Status)
		})
	}
}

func TestBookingService_Create_PromoDiscount(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(), nil)
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
	f.promos.EXPECT().Resolve(gomock.Any(), "TENOFF", gomock.Any(), "").
		DoAndReturn(func(_ context.Context, _ string, in evaluator.Input, _ string) (evaluator.Result, error) {
			assert.Equal(t, "guest@condo.test", in.RequesterEmail)
			assert.Equal(t, 1, in.Nights)
			assert.InDelta(t, 1000, in.TotalAmount, 1e-9)

			return evaluator.Result{PromoID: "promo-1", PromoName: "Ten Off", DiscountAmount: 100}, nil
		})
	f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking) error {
			assert.InDelta(t, 900, booking.TotalPrice, 1e-9)
			require.NotNil(t, booking.PromoID)
			assert.Equal(t, "promo-1", *booking.PromoID)

			return nil
		})

	req := dto.CreateBookingRequest{
		StayRequest: dto.StayRequest{RoomID: "room-1", CheckIn: "2025-06-10T14:00:00+08:00", PromoCode: "TENOFF"},
		GuestPhone:  "0917",
	}

	_, err := f.svc.Create(guestCtx("user-1"), req)
	require.NoError(t, err)
}

func TestBookingService_Manual(t *testing.T) {
	req := func(amount float64) dto.ManualBookingRequest {
		return dto.ManualBookingRequest{
			StayRequest:    stay(),
			GuestFirstName: "Walk",
			GuestLastName:  "In",
			GuestEmail:     "walkin@guest.test",
			GuestPhone:     "0917",
			AmountPaid:     amount,
		}
	}

	t.Run("downpayment below the minimum never creates an account", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)

		_, err := f.svc.Manual(staffCtx(), req(499))

		require.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("confirmed with derived payment status", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
		f.userSvc.EXPECT().FindOrCreateGuest(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, account userDto.GuestAccountRequest) (userModel.User, bool, error) {
				assert.Equal(t, "walkin@guest.test", account.Email)

				return userModel.User{ID: "user-9", Email: account.Email, FirstName: "Walk", LastName: "In"}, true, nil
			})
		f.bookings.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				assert.Equal(t, model.StatusConfirmed, booking.Status)
				assert.Equal(t, model.PaymentPartial, booking.PaymentStatus)
				assert.Equal(t, model.SourceManual, booking.Source)
				assert.Equal(t, "Manual booking by staff: staff@condo.test", booking.AdminNotes)
				assert.Equal(t, "user-9", *booking.UserID)

				return nil
			})

		res, err := f.svc.Manual(staffCtx(), req(500))

		require.NoError(t, err)
		assert.Equal(t, "Walk In", res.GuestName)
		assert.InDelta(t, 500, res.Balance, 1e-9)
	})
}

func TestBookingService_Quote(t *testing.T) {
	t.Run("rejected promotion falls back to the full price", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
		f.promos.EXPECT().Resolve(gomock.Any(), "VIP", gomock.Any(), "booking-1").Return(evaluator.Result{}, evaluator.ErrPromoNotAllowedForEmail)

		res, err := f.svc.Quote(context.Background(), dto.QuoteRequest{
			StayRequest: dto.StayRequest{RoomID: "room-1", CheckIn: "2025-06-10T14:00:00+08:00", PromoCode: "VIP"},
			Email:       "someone@guest.test",
			BookingID:   "booking-1",
		})

		require.NoError(t, err)
		assert.False(t, res.PromoApplied)
		assert.Equal(t, evaluator.ErrPromoNotAllowedForEmail.Error(), res.PromoMessage)
		assert.InDelta(t, 1000, res.Total, 1e-9)
	})

	t.Run("extension promotion lengthens the stay", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)
		f.promos.EXPECT().Resolve(gomock.Any(), "B1T1", gomock.Any(), "").Return(evaluator.Result{
			PromoID: "promo-2", PromoName: "Buy one take one", Action: evaluator.ActionExtend, ExtensionHours: 24, FreeNights: 1,
		}, nil)

		res, err := f.svc.Quote(context.Background(), dto.QuoteRequest{
			StayRequest: dto.StayRequest{RoomID: "room-1", CheckIn: "2025-06-10T14:00:00+08:00", PromoCode: "B1T1"},
		})

		require.NoError(t, err)
		assert.True(t, res.PromoApplied)
		assert.Equal(t, 46, res.DurationHours)
		assert.Equal(t, evaluator.ActionExtend, res.PromoAction)

		checkOut, err := time.Parse(time.RFC3339, res.CheckOut)
		require.NoError(t, err)
		assert.True(t, checkOut.Equal(time.Date(2025, 6, 12, 4, 0, 0, 0, time.UTC)))
	})

	t.Run("explicit checkout must follow check-in", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)

		_, err := f.svc.Quote(context.Background(), dto.QuoteRequest{
			StayRequest: dto.StayRequest{RoomID: "room-1", CheckIn: "2025-06-10T14:00:00+08:00", CheckOut: "2025-06-10T10:00:00+08:00"},
		})

		require.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		_, err := f.svc.Quote(context.Background(), dto.QuoteRequest{StayRequest: stay()})

		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("other guests' bookings are hidden", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)

		_, err := f.svc.Get(guestCtx("user-2"), "booking-1")

		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("staff see every booking", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)

		res, err := f.svc.Get(staffCtx(), "booking-1")

		require.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "owner cancels a pending booking",
			ctx:  guestCtx("user-1"),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)
				f.bookings.EXPECT().UpdateStatus(gomock.Any(), "booking-1", []string{model.StatusPending}, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _ []string, fields map[string]any) (bool, error) {
						assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

						return true, nil
					})
			},
		},
		{
			name: "not the owner",
			ctx:  guestCtx("user-2"),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)
			},
			wantCode: 404,
		},
		{
			name: "confirmed bookings need staff",
			ctx:  guestCtx("user-1"),
			setupMock: func(f fixture) {
				booking := pending("user-1")
				booking.Status = model.StatusConfirmed

				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: 409,
		},
		{
			name: "confirmed in between read and write",
			ctx:  guestCtx("user-1"),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)
				f.bookings.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Cancel(tt.ctx, "booking-1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	paid := 1000.0
	refunded := model.PaymentRefunded

	t.Run("amount without status derives it", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), "booking-1", []string{model.StatusPending}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ []string, fields map[string]any) (bool, error) {
				assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
				assert.Equal(t, model.PaymentPaid, fields[model.FieldPaymentStatus])
				assert.InDelta(t, 1000, fields[model.FieldAmountPaid], 1e-9)

				return true, nil
			})

		err := f.svc.UpdateStatus(staffCtx(), dto.UpdateStatusRequest{Status: model.StatusConfirmed, AmountPaid: &paid}, "booking-1")
		require.NoError(t, err)
	})

	t.Run("explicit payment status wins", func(t *testing.T) {
		f := newFixture(t)
		booking := pending("user-1")
		booking.Status = model.StatusConfirmed

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), "booking-1", []string{model.StatusConfirmed}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ []string, fields map[string]any) (bool, error) {
				assert.Equal(t, model.PaymentRefunded, fields[model.FieldPaymentStatus])

				return true, nil
			})

		err := f.svc.UpdateStatus(staffCtx(), dto.UpdateStatusRequest{
			Status: model.StatusCancelled, AmountPaid: &paid, PaymentStatus: &refunded,
		}, "booking-1")
		require.NoError(t, err)
	})

	t.Run("terminal bookings stay terminal", func(t *testing.T) {
		f := newFixture(t)
		booking := pending("user-1")
		booking.Status = model.StatusCancelled

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := f.svc.UpdateStatus(staffCtx(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, "booking-1")

		require.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

		err := f.svc.UpdateStatus(staffCtx(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, "booking-1")

		require.Error(t, err)
		assert.Equal(t, 500, failure.GetCode(err))
	})
}

func TestBookingService_Update(t *testing.T) {
	phone := "0999"

	t.Run("owner edits contact details", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), "booking-1", []string{model.StatusPending}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ []string, fields map[string]any) (bool, error) {
				assert.Equal(t, "0999", fields["guest_phone"])
				assert.NotContains(t, fields, model.FieldCompanions)
				assert.Equal(t, now, fields[constant.FieldModifiedAt])

				return true, nil
			})

		err := f.svc.Update(guestCtx("user-1"), dto.UpdateBookingRequest{GuestPhone: &phone}, "booking-1")
		require.NoError(t, err)
	})

	t.Run("larger party is checked against capacity", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("user-1"), nil)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studio(), nil)

		err := f.svc.Update(guestCtx("user-1"), dto.UpdateBookingRequest{
			Companions: dto.CompanionList{{Name: "Ben"}, {Name: "Cy"}},
		}, "booking-1")

		require.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})
}

func TestBookingService_Roster(t *testing.T) {
	f := newFixture(t)

	booking := pending("user-1")
	first, room := "Ana", "Studio A"
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	infant := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	booking.GuestFirstName = &first
	booking.GuestDOB = &dob
	booking.RoomName = &room
	booking.Companions = model.Companions{{Name: "Baby", DateOfBirth: &infant}}

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

	res, err := f.svc.Roster(guestCtx("user-1"), "booking-1")

	require.NoError(t, err)
	assert.Equal(t, "Studio A", res.RoomName)
	assert.Equal(t, 1, res.CountedGuests)
	assert.Equal(t, 1, res.Infants)
	require.Len(t, res.Guests, 2)
	assert.True(t, res.Guests[0].Primary)
}

func TestBookingService_Mine(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{pending("user-1")}, nil)

	res, err := f.svc.Mine(guestCtx("user-1"), gDto.QueryParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Bookings, 1)
}

func TestBookingService_ExpireUnpaid(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().ExpireUnpaid(gomock.Any(), now.Add(-time.Hour), now, "System: Auto-cancelled due to non-payment within 1 hour.").
		Return([]model.Booking{pending("user-1"), pending("user-2")}, nil)

	count, err := f.svc.ExpireUnpaid(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBookingService_ExpireUnpaid_ConfiguredHold(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Booking.HoldExpiryMinutes = 90 })

	f.bookings.EXPECT().ExpireUnpaid(gomock.Any(), now.Add(-90*time.Minute), now, "System: Auto-cancelled due to non-payment within 90 minutes.").
		Return(nil, nil)

	count, err := f.svc.ExpireUnpaid(context.Background())

	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBookingService_Cleanup(t *testing.T) {
	f := newFixture(t)

	retained := pending("user-1")
	retained.Status = model.StatusCancelled
	retained.GuestIDImage = "https://bucket.test/ids/a.jpg"
	retained.Companions = model.Companions{{Name: "Ben", IDImage: "https://bucket.test/ids/b.jpg"}, {Name: "Cy"}}

	f.bookings.EXPECT().ListRetained(gomock.Any(), now.Add(-30*24*time.Hour)).Return([]model.Booking{retained}, nil)
	f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://bucket.test/ids/a.jpg").Return(nil)
	f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://bucket.test/ids/b.jpg").Return(errors.New("gone"))
	f.bookings.EXPECT().ClearIdentityImages(gomock.Any(), []string{"booking-1"}, now).Return(nil)

	count, err := f.svc.Cleanup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
