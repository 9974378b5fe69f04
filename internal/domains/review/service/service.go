package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"condo/infras/otel"
	bookingModel "condo/internal/domains/booking/model"
	bookingRepo "condo/internal/domains/booking/repository"
	"condo/internal/domains/review/model"
	"condo/internal/domains/review/model/dto"
	"condo/internal/domains/review/repository"
	"condo/shared"
	"condo/shared/clock"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"

	"github.com/rs/zerolog/log"
)

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReviewsResponse, error)
	Get(ctx context.Context, id string) (dto.ReviewResponse, error)
	Moderate(ctx context.Context, req dto.ModerateReviewRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Review
	bookings bookingRepo.Booking
	clock    clock.Clock
	otel     otel.Otel
}

func New(repo repository.Review, bookings bookingRepo.Booking, clock clock.Clock, otel otel.Otel) Review {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		clock:    clock,
		otel:     otel,
	}
}

// Create accepts one review per completed stay, written by the guest who booked it.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("login required")
	}

	booking, err := s.bookings.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for review")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty || booking.UserID == nil || *booking.UserID != userID ||
		booking.Status != bookingModel.StatusCompleted {
		return res, failure.BadRequestFromString("invalid booking or stay not completed yet")
	}

	review := req.ToModel(userID, booking.RoomID, s.clock.Now())

	if err = s.repo.Insert(ctx, review); err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return res, failure.Conflict("you have already reviewed this stay")
		}

		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return res, failure.NotFound("review not found")
	}

	res.FromModel(review)

	return res, nil
}

// Moderate publishes or hides a review.
func (s *serviceImpl) Moderate(ctx context.Context, req dto.ModerateReviewRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Moderate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsVisible == nil {
		return failure.BadRequestFromString("is_visible is required")
	}

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if review exists")

		return fmt.Errorf("failed to check if review exists: %w", err)
	}

	if !exist {
		return failure.NotFound("review not found")
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to moderate review")

		return fmt.Errorf("failed to moderate review: %w", err)
	}

	return nil
}

// Delete rejects a review outright.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if review exists")

		return fmt.Errorf("failed to check if review exists: %w", err)
	}

	if !exist {
		return failure.NotFound("review not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	return nil
}
