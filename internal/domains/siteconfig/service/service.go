package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=SiteConfig=MockSiteConfigService

import (
	"context"
	"fmt"

	"condo/config"
	"condo/infras/otel"
	"condo/internal/domains/siteconfig/model"
	"condo/internal/domains/siteconfig/model/dto"
	"condo/internal/domains/siteconfig/repository"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/constant"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheGetSiteConfig = "site_config:get"

type SiteConfig interface {
	Current(ctx context.Context) (model.SiteConfig, error)
	Get(ctx context.Context) (dto.SiteConfigResponse, error)
	Update(ctx context.Context, req dto.UpdateSiteConfigRequest) error
}

type serviceImpl struct {
	repo  repository.SiteConfig
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.SiteConfig, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) SiteConfig {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Current(ctx context.Context) (res model.SiteConfig, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".site_config.Current")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = s.cache.Get(ctx, cacheGetSiteConfig, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Current(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get site config")

		return res, fmt.Errorf("failed to get site config: %w", err)
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheGetSiteConfig, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save site config to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.SiteConfigResponse, err error) {
	conf, err := s.Current(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(conf)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSiteConfigRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".site_config.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	current, err := s.repo.Current(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get site config")

		return fmt.Errorf("failed to get site config: %w", err)
	}

	seed := req.Apply(current)
	seed.Metadata = gModel.NewMetadata(user, timezone.Now())

	if err = s.repo.Save(ctx, shared.TransformFields(req, user), seed); err != nil {
		log.Error().Err(err).Msg("failed to update site config")

		return fmt.Errorf("failed to update site config: %w", err)
	}

	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), cacheGetSiteConfig); err != nil {
			log.Error().Err(err).Msg("failed to delete site config cache")
		}
	}()

	return nil
}
