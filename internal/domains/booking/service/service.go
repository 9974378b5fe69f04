package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"condo/config"
	"condo/infras/metrics"
	"condo/infras/otel"
	"condo/infras/s3"
	"condo/internal/domains/booking/lifecycle"
	"condo/internal/domains/booking/model"
	"condo/internal/domains/booking/model/dto"
	"condo/internal/domains/booking/notifier"
	"condo/internal/domains/booking/occupancy"
	"condo/internal/domains/booking/pricing"
	"condo/internal/domains/booking/repository"
	"condo/internal/domains/promotion/evaluator"
	promoService "condo/internal/domains/promotion/service"
	roomModel "condo/internal/domains/room/model"
	roomRepo "condo/internal/domains/room/repository"
	siteService "condo/internal/domains/siteconfig/service"
	userModel "condo/internal/domains/user/model"
	userDto "condo/internal/domains/user/model/dto"
	userRepo "condo/internal/domains/user/repository"
	userService "condo/internal/domains/user/service"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/clock"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	defaultHoldExpiry     = time.Hour
	defaultMinDownpayment = 0.5
	defaultRetentionDays  = 30
)

const manualBookingNote = "Manual booking by staff: "

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Manual(ctx context.Context, req dto.ManualBookingRequest) (dto.BookingResponse, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Mine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Cancel(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	Roster(ctx context.Context, id string) (dto.RosterResponse, error)
	ExpireUnpaid(ctx context.Context) (int, error)
	Cleanup(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo       repository.Booking
	rooms      roomRepo.Room
	users      userRepo.User
	userSvc    userService.User
	promos     promoService.Promotion
	siteConfig siteService.SiteConfig
	notifier   notifier.Notifier
	s3         s3.S3
	clock      clock.Clock
	metrics    *metrics.Metrics
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	rooms roomRepo.Room,
	users userRepo.User,
	userSvc userService.User,
	promos promoService.Promotion,
	siteConfig siteService.SiteConfig,
	notifier notifier.Notifier,
	s3 s3.S3,
	clock clock.Clock,
	metrics *metrics.Metrics,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		rooms:      rooms,
		users:      users,
		userSvc:    userSvc,
		promos:     promos,
		siteConfig: siteConfig,
		notifier:   notifier,
		s3:         s3,
		clock:      clock,
		metrics:    metrics,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	cache.Forget(ctx, s.cache, nil, cacheGetAllBooking, cacheCountBooking)
}

func (s *serviceImpl) minDownpayment() float64 {
	if s.cfg.Booking.MinDownpayment > 0 {
		return s.cfg.Booking.MinDownpayment
	}

	return defaultMinDownpayment
}

// quote is a priced stay window for one room.
type quote struct {
	window    pricing.Window
	breakdown pricing.Breakdown
	promo     evaluator.Result
	promoErr  error
}

func (s *serviceImpl) bookableRoom(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.rooms.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found")
	}

	if !room.IsActive {
		return room, failure.Validation("room is not accepting bookings")
	}

	return room, nil
}

// price derives the window from the room's stay policy unless a checkout was requested, bills every
// started night, and applies the promotion. A rejected promotion is kept on the quote, not returned.
func (s *serviceImpl) price(ctx context.Context, room roomModel.Room, req dto.StayRequest, email, excludeBookingID string) (q quote, err error) {
	checkIn, err := req.ParseCheckIn()
	if err != nil {
		return q, failure.Validation(err.Error())
	}

	checkOut, err := req.ParseCheckOut()
	if err != nil {
		return q, failure.Validation(err.Error())
	}

	loc := timezone.GetLocation()
	q.window = pricing.ComputeStayWindow(checkIn, pricing.Policy{
		StandardStayHours:   room.StandardStayHours,
		CleaningBufferHours: room.CleaningBufferHours,
	}, nil, loc)

	if !checkOut.IsZero() {
		if !checkOut.After(checkIn) {
			return q, failure.Validation("check_out must be after check_in")
		}

		q.window.CheckOut = checkOut
		q.window.DurationHours = int(checkOut.Sub(checkIn).Hours())
		q.window.BufferEnd = checkOut.Add(time.Duration(room.CleaningBufferHours) * time.Hour)
	}

	if !q.window.CheckOut.After(q.window.CheckIn) {
		return q, failure.Validation("check_out must be after check_in")
	}

	nights := pricing.Nights(q.window.CheckIn, q.window.CheckOut)

	extraFee := 0.0
	if req.LateCheckout {
		site, err := s.siteConfig.Current(ctx)
		if err != nil {
			return q, err //nolint:wrapcheck
		}

		extraFee = site.LateCheckoutFee(room.IsSmall())
	}

	discount := 0.0
	if req.PromoCode != constant.Empty {
		q.promo, err = s.promos.Resolve(ctx, req.PromoCode, evaluator.Input{
			RoomID:         room.ID,
			NightlyRate:    room.PricePerNight,
			TotalAmount:    float64(nights) * room.PricePerNight,
			CheckIn:        checkIn,
			Nights:         nights,
			RequesterEmail: email,
			Location:       loc,
		}, excludeBookingID)

		switch {
		case evaluator.IsRejection(err):
			q.promoErr = err
			q.promo = evaluator.Result{}
		case err != nil:
			return q, err //nolint:wrapcheck
		default:
			discount = q.promo.DiscountAmount
			q.window.PromoApplied = true
			q.window.PromoName = q.promo.PromoName

			if q.promo.Action == evaluator.ActionExtend {
				extension := time.Duration(q.promo.ExtensionHours) * time.Hour
				q.window.CheckOut = q.window.CheckOut.Add(extension)
				q.window.BufferEnd = q.window.BufferEnd.Add(extension)
				q.window.DurationHours += q.promo.ExtensionHours
			}
		}
	}

	q.breakdown = pricing.Price(nights, room.PricePerNight, discount, extraFee)

	return q, nil
}

func checkCapacity(room roomModel.Room, primary occupancy.Person, companions model.Companions, asOf time.Time) (occupancy.Result, error) {
	party := occupancy.Classify(primary, dto.People(companions), asOf)

	if err := occupancy.CheckCapacity(party, room.Capacity); err != nil {
		return party, failure.CapacityExceeded(err.Error())
	}

	return party, nil
}

func (s *serviceImpl) reserve(ctx context.Context, booking model.Booking) error {
	err := s.repo.Reserve(ctx, booking)
	s.metrics.ObserveReservation(booking.Source, err)

	switch {
	case errors.Is(err, repository.ErrDatesUnavailable), errors.Is(err, repository.ErrRoomUnavailable):
		return failure.Conflict(err.Error())
	case errors.Is(err, repository.ErrEmptyStay):
		return failure.Validation(err.Error())
	case errors.Is(err, repository.ErrPromoUsed):
		return failure.PromoRejected(evaluator.ErrAlreadyUsed.Error())
	case err != nil:
		log.Error().Err(err).Str("room_id", booking.RoomID).Msg("failed to reserve booking")

		return fmt.Errorf("failed to reserve booking: %w", err)
	}

	s.notifier.Notify(ctx, notifier.NewEvent(notifier.EventCreated, booking, constant.Empty))
	s.invalidateLists(ctx)

	return nil
}

func promoRef(result evaluator.Result) *string {
	if result.PromoID == constant.Empty {
		return nil
	}

	return &result.PromoID
}

// Create reserves a pending, unpaid hold for the signed in guest.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if _, err = req.ParseCheckIn(); err != nil {
		return res, failure.Validation(err.Error())
	}

	companions, err := req.Companions.ToModel()
	if err != nil {
		return res, failure.Validation(err.Error())
	}

	guest, err := s.users.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking guest")

		return res, fmt.Errorf("failed to get guest: %w", err)
	}

	if guest.ID == constant.Empty {
		return res, failure.Unauthorized("guest account not found")
	}

	room, err := s.bookableRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	now := s.clock.Now()

	party, err := checkCapacity(room, occupancy.Person{Name: guest.FullName(), DateOfBirth: guest.DateOfBirth}, companions, now)
	if err != nil {
		return res, err
	}

	q, err := s.price(ctx, room, req.StayRequest, email, constant.Empty)
	if err != nil {
		return res, err
	}

	if q.promoErr != nil {
		return res, failure.PromoRejected(q.promoErr.Error())
	}

	booking := model.Booking{
		ID:              uuid.NewString(),
		RoomID:          room.ID,
		UserID:          &guest.ID,
		CheckInDate:     q.window.CheckIn,
		CheckOutDate:    q.window.CheckOut,
		TotalPrice:      q.breakdown.Total,
		ExtraFee:        q.breakdown.ExtraFee,
		Guests:          party.CountedGuests,
		GuestPhone:      req.GuestPhone,
		GuestIDType:     req.GuestIDType,
		GuestIDNumber:   req.GuestIDNumber,
		GuestIDImage:    req.GuestIDImage,
		SpecialRequests: req.SpecialRequests,
		Companions:      companions,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentUnpaid,
		PromoID:         promoRef(q.promo),
		Source:          model.SourceWebsite,
		Metadata:        gModel.NewMetadata(email, now),
	}

	if err = s.reserve(ctx, booking); err != nil {
		return res, err
	}

	booking.RoomName = &room.Name
	res.FromModel(booking)

	return res, nil
}

// Manual records a staff entered booking. It is confirmed on creation and must carry the minimum
// downpayment. The guest account is looked up by email or created with a temporary password.
func (s *serviceImpl) Manual(ctx context.Context, req dto.ManualBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Manual")
	defer scope.End()
	defer scope.TraceIfError(&err)

	staff, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if _, err = req.ParseCheckIn(); err != nil {
		return res, failure.Validation(err.Error())
	}

	dob, err := req.ParseGuestDOB()
	if err != nil {
		return res, failure.Validation(err.Error())
	}

	companions, err := req.Companions.ToModel()
	if err != nil {
		return res, failure.Validation(err.Error())
	}

	room, err := s.bookableRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	now := s.clock.Now()

	party, err := checkCapacity(room, occupancy.Person{Name: req.GuestFirstName, DateOfBirth: dob}, companions, now)
	if err != nil {
		return res, err
	}

	q, err := s.price(ctx, room, req.StayRequest, req.GuestEmail, constant.Empty)
	if err != nil {
		return res, err
	}

	if q.promoErr != nil {
		return res, failure.PromoRejected(q.promoErr.Error())
	}

	ratio := s.minDownpayment()
	if !lifecycle.MeetsDownpayment(req.AmountPaid, q.breakdown.Total, ratio) {
		return res, failure.InsufficientDownpayment(fmt.Sprintf(
			"downpayment must be at least %.0f%% (%.2f) of the %.2f total", ratio*100, q.breakdown.Total*ratio, q.breakdown.Total))
	}

	guest, _, err := s.userSvc.FindOrCreateGuest(ctx, userDto.GuestAccountRequest{
		Email:       req.GuestEmail,
		FirstName:   req.GuestFirstName,
		LastName:    req.GuestLastName,
		Phone:       req.GuestPhone,
		DateOfBirth: dob,
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	booking := model.Booking{
		ID:              uuid.NewString(),
		RoomID:          room.ID,
		UserID:          &guest.ID,
		CheckInDate:     q.window.CheckIn,
		CheckOutDate:    q.window.CheckOut,
		TotalPrice:      q.breakdown.Total,
		ExtraFee:        q.breakdown.ExtraFee,
		AmountPaid:      req.AmountPaid,
		Guests:          party.CountedGuests,
		GuestPhone:      req.GuestPhone,
		GuestIDType:     req.GuestIDType,
		GuestIDNumber:   req.GuestIDNumber,
		GuestIDImage:    req.GuestIDImage,
		SpecialRequests: req.SpecialRequests,
		PaymentRef:      req.PaymentRef,
		Companions:      companions,
		Status:          model.StatusConfirmed,
		PaymentStatus:   lifecycle.DerivePaymentStatus(req.AmountPaid, q.breakdown.Total),
		PromoID:         promoRef(q.promo),
		Source:          model.SourceManual,
		AdminNotes:      manualBookingNote + staff,
		Metadata:        gModel.NewMetadata(staff, now),
	}

	if err = s.reserve(ctx, booking); err != nil {
		return res, err
	}

	booking.RoomName = &room.Name
	booking.GuestEmail = &guest.Email
	booking.GuestFirstName = &guest.FirstName
	booking.GuestLastName = &guest.LastName
	res.FromModel(booking)

	return res, nil
}

// Quote prices a prospective stay without touching availability. Promotion rejections are reported
// on the quote so the caller can fall back to the undiscounted price.
func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Quote")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = req.ParseCheckIn(); err != nil {
		return res, failure.Validation(err.Error())
	}

	room, err := s.bookableRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	q, err := s.price(ctx, room, req.StayRequest, req.Email, req.BookingID)
	if err != nil {
		return res, err
	}

	res = dto.QuoteResponse{
		RoomID:        room.ID,
		CheckIn:       timezone.Format(q.window.CheckIn, constant.DateFormat),
		CheckOut:      timezone.Format(q.window.CheckOut, constant.DateFormat),
		BufferEnd:     timezone.Format(q.window.BufferEnd, constant.DateFormat),
		DurationHours: q.window.DurationHours,
		Breakdown:     q.breakdown,
		PromoApplied:  q.window.PromoApplied,
		PromoID:       q.promo.PromoID,
		PromoName:     q.window.PromoName,
		PromoMessage:  q.promo.Message,
		PromoAction:   q.promo.Action,
	}

	if q.promoErr != nil {
		res.PromoMessage = q.promoErr.Error()
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (dto.GetBookingsResponse, error) {
		var page dto.GetBookingsResponse

		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		bookings, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list bookings")

			return page, fmt.Errorf("failed to get bookings: %w", err)
		}

		page.FromModels(bookings, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count bookings: %w", err)
		}

		return total, nil
	})
}

// Mine lists the signed in guest's bookings.
func (s *serviceImpl) Mine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.GetAll(ctx, req, shared.FilterByID(userID, model.FieldUserID, model.TableName))
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func isOwner(ctx context.Context, booking model.Booking) bool {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return booking.UserID != nil && *booking.UserID == userID
}

func isStaff(ctx context.Context) bool {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return slices.Contains(constant.StaffRoles, role)
}

// getVisible hides other guests' bookings behind a not found.
func (s *serviceImpl) getVisible(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return booking, err
	}

	if !isOwner(ctx, booking) && !isStaff(ctx) {
		return model.Booking{}, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.getVisible(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// Update lets the owner edit contact details and the party while the booking is still pending.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if !isOwner(ctx, booking) {
		return failure.NotFound("booking not found")
	}

	if booking.Status != model.StatusPending {
		return failure.Conflict("only pending bookings can be edited")
	}

	fields := shared.TransformFields(req, user)
	fields[constant.FieldModifiedAt] = s.clock.Now()

	if req.Companions != nil {
		companions, err := req.Companions.ToModel()
		if err != nil {
			return failure.Validation(err.Error())
		}

		room, err := s.bookableRoom(ctx, booking.RoomID)
		if err != nil {
			return err
		}

		party, err := checkCapacity(room, occupancy.Person{DateOfBirth: booking.GuestDOB}, companions, s.clock.Now())
		if err != nil {
			return err
		}

		fields[model.FieldCompanions] = companions
		fields[model.FieldGuests] = party.CountedGuests
	}

	updated, err := s.repo.UpdateStatus(ctx, id, []string{model.StatusPending}, fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	if !updated {
		return failure.Conflict("only pending bookings can be edited")
	}

	s.invalidateLists(ctx)

	return nil
}

// Cancel is the guest's self service cancellation, allowed only while the booking is pending.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if !isOwner(ctx, booking) {
		return failure.NotFound("booking not found")
	}

	if !lifecycle.CanGuestCancel(booking.Status) {
		return failure.Conflict("only pending bookings can be cancelled")
	}

	fields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: user,
	}

	updated, err := s.repo.UpdateStatus(ctx, id, []string{model.StatusPending}, fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if !updated {
		return failure.Conflict("only pending bookings can be cancelled")
	}

	previous := booking.Status
	booking.Status = model.StatusCancelled
	s.notifier.Notify(ctx, notifier.NewEvent(notifier.EventCancelled, booking, previous))
	s.invalidateLists(ctx)

	return nil
}

// UpdateStatus is the staff override. The status must follow the lifecycle graph, payment fields are
// free. A new amount without an explicit payment status re-derives it.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = lifecycle.ValidateTransition(booking.Status, req.Status); err != nil {
		return failure.Conflict(err.Error())
	}

	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.AmountPaid != nil {
		fields[model.FieldAmountPaid] = *req.AmountPaid
		fields[model.FieldPaymentStatus] = lifecycle.DerivePaymentStatus(*req.AmountPaid, booking.TotalPrice)
	}

	if req.PaymentStatus != nil {
		fields[model.FieldPaymentStatus] = *req.PaymentStatus
	}

	if req.PaymentRef != nil {
		fields[model.FieldPaymentRef] = *req.PaymentRef
	}

	if req.AdminNotes != nil {
		fields[model.FieldAdminNotes] = *req.AdminNotes
	}

	updated, err := s.repo.UpdateStatus(ctx, id, []string{booking.Status}, fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if !updated {
		return failure.Conflict("booking was modified by someone else, reload and retry")
	}

	if previous := booking.Status; previous != req.Status {
		booking.Status = req.Status

		event := notifier.EventStatusChanged
		if req.Status == model.StatusCancelled {
			event = notifier.EventCancelled
		}

		s.notifier.Notify(ctx, notifier.NewEvent(event, booking, previous))
	}

	s.invalidateLists(ctx)

	return nil
}

// Roster classifies the whole party for the guest registration form.
func (s *serviceImpl) Roster(ctx context.Context, id string) (res dto.RosterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Roster")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.getVisible(ctx, id)
	if err != nil {
		return res, err
	}

	primary := occupancy.Person{Name: booking.GuestName(), DateOfBirth: booking.GuestDOB}

	res = dto.RosterResponse{
		BookingID:    booking.ID,
		CheckInDate:  timezone.Format(booking.CheckInDate, constant.DateFormat),
		CheckOutDate: timezone.Format(booking.CheckOutDate, constant.DateFormat),
		Result:       occupancy.Classify(primary, dto.People(booking.Companions), s.clock.Now()),
	}

	if booking.RoomName != nil {
		res.RoomName = *booking.RoomName
	}

	return res, nil
}
