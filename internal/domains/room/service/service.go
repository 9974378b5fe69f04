package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"condo/config"
	"condo/infras/otel"
	"condo/infras/s3"
	bookingRepo "condo/internal/domains/booking/repository"
	"condo/internal/domains/booking/pricing"
	"condo/internal/domains/room/model"
	"condo/internal/domains/room/model/dto"
	"condo/internal/domains/room/repository"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	"condo/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
	Availability(ctx context.Context, id string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Busy(ctx context.Context, id, date string) (dto.BusyResponse, error)
}

type serviceImpl struct {
	repo     repository.Room
	bookings bookingRepo.Booking
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
}

func New(repo repository.Room, bookings bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
	}
}

func imageObjectName(fileName string) string {
	return uuid.NewString() + path.Ext(fileName)
}

// forget drops the cached room and every cached listing.
func (s *serviceImpl) forget(ctx context.Context, id string) {
	var keys []string
	if id != constant.Empty {
		keys = append(keys, shared.BuildCacheKey(cacheGetRoom, id))
	}

	cache.Forget(ctx, s.cache, keys, cacheGetAllRoom, cacheCountRoom)
}

// uploadImage stores the optional room image and returns its public URL, or empty without one.
func (s *serviceImpl) uploadImage(ctx context.Context, image *multipart.FileHeader, file multipart.File) (string, error) {
	if image == nil {
		return constant.Empty, nil
	}

	url, err := s.s3.UploadFile(ctx, model.EntityName, imageObjectName(image.Filename), file, image)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, nil
}

// removeImage deletes an uploaded object. Orphaned images are only logged.
func (s *serviceImpl) removeImage(ctx context.Context, url, roomID string) {
	if url == constant.Empty {
		return
	}

	if err := s.s3.DeleteByURL(ctx, url); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("failed to delete room image")
	}
}

// dropImage is removeImage in the background, for images no longer referenced after a commit.
func (s *serviceImpl) dropImage(ctx context.Context, url, roomID string) {
	go s.removeImage(context.WithoutCancel(ctx), url, roomID)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	imageURL, err := s.uploadImage(ctx, req.Image, req.ImageFile)
	if err != nil {
		return err
	}

	room := req.ToModel(actor, imageURL)
	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create room")
		s.removeImage(ctx, imageURL, room.ID)

		return fmt.Errorf("failed to create room: %w", err)
	}

	s.forget(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (dto.GetRoomsResponse, error) {
		var page dto.GetRoomsResponse

		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		rooms, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list rooms")

			return page, fmt.Errorf("failed to get rooms: %w", err)
		}

		page.FromModels(rooms, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count rooms: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetRoom, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (dto.RoomResponse, error) {
			var out dto.RoomResponse

			room, err := s.getRoom(ctx, id)
			if err != nil {
				return out, err
			}

			out.FromModel(room)

			return out, nil
		})
}

func (s *serviceImpl) getRoom(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("room_id", id).Msg("failed to load room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found")
	}

	return room, nil
}

// Update writes the given fields. A new image replaces the stored one, which is then deleted.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	current, err := s.getRoom(ctx, id)
	if err != nil {
		return err
	}

	actor, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	fields := shared.TransformFields(req, actor)

	imageURL, err := s.uploadImage(ctx, req.Image, req.ImageFile)
	if err != nil {
		return err
	}

	if imageURL != constant.Empty {
		fields[model.FieldImage] = imageURL
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("room_id", id).Msg("failed to update room")
		s.removeImage(ctx, imageURL, id)

		return fmt.Errorf("failed to update room: %w", err)
	}

	if imageURL != constant.Empty {
		s.dropImage(ctx, current.Image, id)
	}

	s.forget(ctx, id)

	return nil
}

// Delete refuses rooms that still hold live bookings from now on.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room, err := s.getRoom(ctx, id)
	if err != nil {
		return err
	}

	now := timezone.Now()

	upcoming, err := s.bookings.ListOverlapping(ctx, id, now, now.AddDate(100, 0, 0))
	if err != nil {
		return fmt.Errorf("failed to check room bookings: %w", err)
	}

	if len(upcoming) > 0 {
		return failure.Conflict("room has upcoming bookings; deactivate it instead")
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("room_id", id).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.dropImage(ctx, room.Image, id)
	s.forget(ctx, id)

	return nil
}

// Availability checks [check_in, check_out) against live bookings. Without an explicit check_out the
// room's standard stay decides it.
func (s *serviceImpl) Availability(ctx context.Context, id string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Availability")
	defer scope.End()
	defer scope.TraceIfError(&err)

	checkIn, err := time.Parse(constant.DateFormat, req.CheckIn)
	if err != nil {
		return res, failure.Validation("check_in must be an RFC3339 timestamp")
	}

	room, err := s.getRoom(ctx, id)
	if err != nil {
		return res, err
	}

	policy := pricing.Policy{StandardStayHours: room.StandardStayHours, CleaningBufferHours: room.CleaningBufferHours}
	window := pricing.ComputeStayWindow(checkIn, policy, nil, timezone.GetLocation())

	if req.CheckOut != constant.Empty {
		checkOut, err := time.Parse(constant.DateFormat, req.CheckOut)
		if err != nil {
			return res, failure.Validation("check_out must be an RFC3339 timestamp")
		}

		if !checkOut.After(checkIn) {
			return res, failure.Validation("check_out must be after check_in")
		}

		window.CheckOut = checkOut
		window.BufferEnd = checkOut.Add(time.Duration(room.CleaningBufferHours) * time.Hour)
		window.DurationHours = int(checkOut.Sub(checkIn).Hours())
	}

	if !window.CheckOut.After(window.CheckIn) {
		return res, failure.Validation("check_out must be after check_in")
	}

	available, err := s.bookings.IsAvailable(ctx, id, window.CheckIn, window.CheckOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room availability")

		return res, fmt.Errorf("failed to check availability: %w", err)
	}

	return dto.AvailabilityResponse{
		RoomID:    id,
		Available: available && room.IsActive,
		CheckIn:   timezone.Format(window.CheckIn, constant.DateFormat),
		CheckOut:  timezone.Format(window.CheckOut, constant.DateFormat),
		BufferEnd: timezone.Format(window.BufferEnd, constant.DateFormat),
		Duration:  window.DurationHours,
	}, nil
}

// Busy lists live bookings touching the given local day, for date pickers.
func (s *serviceImpl) Busy(ctx context.Context, id, date string) (res dto.BusyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Busy")
	defer scope.End()
	defer scope.TraceIfError(&err)

	loc := timezone.GetLocation()

	day, err := timezone.ParseDateKey(date, loc)
	if err != nil {
		return res, failure.Validation("date must be a date in YYYY-MM-DD format")
	}

	bookings, err := s.bookings.ListOverlapping(ctx, id, day, day.AddDate(0, 0, 1))
	if err != nil {
		log.Error().Err(err).Msg("failed to list busy times")

		return res, fmt.Errorf("failed to list busy times: %w", err)
	}

	res = dto.BusyResponse{RoomID: id, Date: date, Busy: make([]dto.BusyRange, 0, len(bookings))}
	for _, booking := range bookings {
		res.Busy = append(res.Busy, dto.NewBusyRange(booking.CheckInDate, booking.CheckOutDate))
	}

	return res, nil
}
