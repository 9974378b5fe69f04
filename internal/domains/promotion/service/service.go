package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Promotion=MockPromotionService

import (
	"context"
	"fmt"
	"time"

	"condo/config"
	"condo/infras/otel"
	bookingRepo "condo/internal/domains/booking/repository"
	"condo/internal/domains/promotion/evaluator"
	"condo/internal/domains/promotion/model"
	"condo/internal/domains/promotion/model/dto"
	"condo/internal/domains/promotion/repository"
	userRepo "condo/internal/domains/user/repository"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	"condo/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetPromotion    = "promotion:get"
	cacheGetAllPromotion = "promotion:gets"
	cacheCountPromotion  = "promotion:count"
)

type Promotion interface {
	Create(ctx context.Context, req dto.CreatePromotionRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPromotionsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PromotionResponse, error)
	Update(ctx context.Context, req dto.UpdatePromotionRequest, id string) error
	Delete(ctx context.Context, id string) error
	Validate(ctx context.Context, req dto.ValidatePromoRequest) (dto.ValidatePromoResponse, error)
	Resolve(ctx context.Context, code string, in evaluator.Input, excludeBookingID string) (evaluator.Result, error)
}

type serviceImpl struct {
	repo     repository.Promotion
	users    userRepo.User
	bookings bookingRepo.Booking
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Promotion, users userRepo.User, bookings bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Promotion {
	return &serviceImpl{
		repo:     repo,
		users:    users,
		bookings: bookings,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// forget drops the cached promotion, when id is set, and every cached listing.
func (s *serviceImpl) forget(ctx context.Context, id string) {
	var keys []string
	if id != constant.Empty {
		keys = []string{shared.BuildCacheKey(cacheGetPromotion, id)}
	}

	cache.Forget(ctx, s.cache, keys, cacheGetAllPromotion, cacheCountPromotion)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePromotionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	promo, err := req.ToModel(user)
	if err != nil {
		return failure.Validation("start_date and end_date must be dates in YYYY-MM-DD format")
	}

	if promo.StartDate != nil && promo.EndDate != nil && promo.EndDate.Before(*promo.StartDate) {
		return failure.Validation("end_date must not be before start_date")
	}

	exist, err := s.repo.Exist(ctx, repository.CodeFilter(promo.Code))
	if err != nil {
		log.Error().Err(err).Msg("failed to check promotion code")

		return fmt.Errorf("failed to check promotion code: %w", err)
	}

	if exist {
		return failure.Conflict("promo code already exists")
	}

	if err = s.repo.Insert(ctx, promo); err != nil {
		log.Error().Err(err).Msg("failed to create promotion")

		return fmt.Errorf("failed to create promotion: %w", err)
	}

	s.forget(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPromotionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllPromotion, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (dto.GetPromotionsResponse, error) {
		var page dto.GetPromotionsResponse

		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		promos, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list promotions")

			return page, fmt.Errorf("failed to get promotions: %w", err)
		}

		page.FromModels(promos, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountPromotion, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count promotions: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PromotionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetPromotion, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (dto.PromotionResponse, error) {
			var out dto.PromotionResponse

			promo, err := s.getPromotion(ctx, id)
			if err != nil {
				return out, err
			}

			out.FromModel(promo)

			return out, nil
		})
}

func (s *serviceImpl) getPromotion(ctx context.Context, id string) (model.Promotion, error) {
	promo, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get promotion")

		return promo, fmt.Errorf("failed to get promotion: %w", err)
	}

	if promo.ID == constant.Empty {
		return promo, failure.NotFound("promotion not found")
	}

	return promo, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePromotionRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if _, err = s.getPromotion(ctx, id); err != nil {
		return err
	}

	fields, err := req.Fields(user)
	if err != nil {
		return failure.Validation("start_date and end_date must be dates in YYYY-MM-DD format")
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update promotion")

		return fmt.Errorf("failed to update promotion: %w", err)
	}

	s.forget(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.getPromotion(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete promotion")

		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	s.forget(ctx, id)

	return nil
}

// parseCheckIn accepts a full timestamp or a bare local date.
func parseCheckIn(value string) (time.Time, error) {
	if checkIn, err := time.Parse(constant.DateFormat, value); err == nil {
		return checkIn, nil
	}

	return timezone.ParseDateKey(value, timezone.GetLocation()) //nolint:wrapcheck
}

// Validate previews a code against a prospective stay. Rule failures are part of the response, not errors.
func (s *serviceImpl) Validate(ctx context.Context, req dto.ValidatePromoRequest) (res dto.ValidatePromoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Validate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	checkIn, err := parseCheckIn(req.CheckInDate)
	if err != nil {
		return res, failure.Validation("check_in_date must be a date or an RFC3339 timestamp")
	}

	result, err := s.Resolve(ctx, req.Code, evaluator.Input{
		RoomID:         req.RoomID,
		NightlyRate:    req.PricePerNight,
		TotalAmount:    req.TotalAmount,
		CheckIn:        checkIn,
		Nights:         req.Nights,
		RequesterEmail: req.Email,
		Location:       timezone.GetLocation(),
	}, req.BookingID)
	if err != nil {
		if evaluator.IsRejection(err) {
			return dto.ValidatePromoResponse{Success: false, Message: err.Error()}, nil
		}

		return res, err
	}

	return dto.ValidatePromoResponse{
		Success:        true,
		Message:        result.Message,
		DiscountAmount: result.DiscountAmount,
		PromoID:        result.PromoID,
		Action:         result.Action,
	}, nil
}

// Resolve looks the code up and evaluates it. Prior uses are only counted for allow-listed promotions
// whose requester already has an account; excludeBookingID keeps a booking from counting against itself.
func (s *serviceImpl) Resolve(ctx context.Context, code string, in evaluator.Input, excludeBookingID string) (res evaluator.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Resolve")
	defer scope.End()
	defer scope.TraceIfError(&err)

	promo, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("failed to get promotion by code")

		return res, fmt.Errorf("failed to resolve promotion: %w", err)
	}

	if promo.ID == constant.Empty {
		return res, evaluator.ErrPromoInvalid
	}

	priorUses, err := s.priorUses(ctx, promo, in.RequesterEmail, excludeBookingID)
	if err != nil {
		return res, err
	}

	if in.Location == nil {
		in.Location = timezone.GetLocation()
	}

	res, err = evaluator.Evaluate(promo, in, priorUses)
	if err != nil {
		log.Info().Str("code", promo.Code).Err(err).Msg("promotion rejected")

		return res, err //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) priorUses(ctx context.Context, promo model.Promotion, email, excludeBookingID string) (int, error) {
	if !evaluator.Restricted(promo) || evaluator.NormalizeEmail(email) == constant.Empty {
		return 0, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up promotion requester")

		return 0, fmt.Errorf("failed to look up requester: %w", err)
	}

	if user.ID == constant.Empty {
		return 0, nil
	}

	uses, err := s.bookings.CountPromoUses(ctx, promo.ID, user.ID, excludeBookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to count promotion uses: %w", err)
	}

	return uses, nil
}
