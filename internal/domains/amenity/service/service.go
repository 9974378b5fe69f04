package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Amenity=MockAmenityService

import (
	"context"
	"errors"
	"fmt"
	"path"

	"condo/config"
	"condo/infras/otel"
	"condo/infras/s3"
	"condo/internal/domains/amenity/model"
	"condo/internal/domains/amenity/model/dto"
	"condo/internal/domains/amenity/repository"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/clock"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAmenity    = "amenity:get"
	cacheGetAllAmenity = "amenity:get_all"
	cacheCountAmenity  = "amenity:count"
)

var ErrDeleteImages = errors.New("failed to delete images from storage")

type Amenity interface {
	Create(ctx context.Context, req dto.CreateAmenityRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAmenitiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AmenityResponse, error)
	Update(ctx context.Context, req dto.UpdateAmenityRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req dto.UploadImageRequest) (dto.UploadImageResponse, error)
	DeleteImages(ctx context.Context, req dto.DeleteImagesRequest) error
}

type serviceImpl struct {
	repo  repository.Amenity
	cfg   *config.Config
	cache cache.RedisCache
	clock clock.Clock
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Amenity, cfg *config.Config, cache cache.RedisCache, clock clock.Clock, otel otel.Otel, s3 s3.S3) Amenity {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		clock: clock,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	var keys []string
	if id != constant.Empty {
		keys = append(keys, shared.BuildCacheKey(cacheGetAmenity, id))
	}

	cache.Forget(ctx, s.cache, keys, cacheGetAllAmenity, cacheCountAmenity)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAmenityRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user, s.clock.Now())); err != nil {
		log.Error().Err(err).Msg("failed to create amenity")

		return fmt.Errorf("failed to create amenity: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAmenitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllAmenity, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (dto.GetAmenitiesResponse, error) {
		var page dto.GetAmenitiesResponse

		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		amenities, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list amenities")

			return page, fmt.Errorf("failed to get amenities: %w", err)
		}

		page.FromModels(amenities, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountAmenity, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		n, err := s.repo.Count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count amenities: %w", err)
		}

		return n, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AmenityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetAmenity, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (dto.AmenityResponse, error) {
			var out dto.AmenityResponse

			amenity, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Str("amenity_id", id).Msg("failed to load amenity")

				return out, fmt.Errorf("failed to get amenity: %w", err)
			}

			if amenity.ID == constant.Empty {
				return out, failure.NotFound("amenity not found")
			}

			out.FromModel(amenity)

			return out, nil
		})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAmenityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if amenity exists")

		return fmt.Errorf("failed to check if amenity exists: %w", err)
	}

	if !exist {
		return failure.NotFound("amenity not found")
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update amenity")

		return fmt.Errorf("failed to update amenity: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes the amenity and, once the row is gone, its stored images.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	amenity, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get amenity")

		return fmt.Errorf("failed to get amenity: %w", err)
	}

	if amenity.ID == constant.Empty {
		return failure.NotFound("amenity not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete amenity")

		return fmt.Errorf("failed to delete amenity: %w", err)
	}

	s.invalidate(ctx, id)

	if len(amenity.Images) > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.DeleteImages(c, dto.DeleteImagesRequest{ImageURLs: amenity.Images}); err != nil {
				log.Error().Err(err).Str("amenity_id", id).Msg("failed to delete amenity images")
			}
		}()
	}

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.UploadImage")
	defer scope.End()
	defer scope.TraceIfError(&err)

	url, err := s.s3.UploadFile(ctx, model.EntityName, uuid.NewString()+path.Ext(req.Image.Filename), req.ImageFile, req.Image)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload amenity image")

		return res, fmt.Errorf("failed to upload amenity image: %w", err)
	}

	res.FromModel(url, req.Image.Filename)

	return res, nil
}

// DeleteImages removes every object it can and reports how many failed.
func (s *serviceImpl) DeleteImages(ctx context.Context, req dto.DeleteImagesRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".amenity.DeleteImages")
	defer scope.End()
	defer scope.TraceIfError(&err)

	failed := 0

	for _, imageURL := range req.ImageURLs {
		if s.s3.ObjectKeyFromURL(imageURL) == constant.Empty {
			log.Warn().Str("url", imageURL).Msg("url does not point into the bucket")

			continue
		}

		if err := s.s3.DeleteByURL(ctx, imageURL); err != nil {
			log.Error().Err(err).Str("url", imageURL).Msg("failed to delete image")

			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d images", ErrDeleteImages, failed)
	}

	return nil
}
