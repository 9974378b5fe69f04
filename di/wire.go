//go:build wireinject
// +build wireinject

package di

import (
	"condo/config"
	"condo/infras/ical"
	"condo/infras/jwt"
	"condo/infras/kafka"
	"condo/infras/metrics"
	"condo/infras/otel"
	"condo/infras/postgres"
	"condo/infras/redis"
	"condo/infras/s3"
	"condo/permissions"
	"condo/shared/cache"
	"condo/shared/clock"
	"condo/transport/http"
	"condo/transport/http/middleware"
	"condo/transport/http/router"
	"condo/transport/scheduler"

	amenityRepository "condo/internal/domains/amenity/repository"
	amenityService "condo/internal/domains/amenity/service"
	authService "condo/internal/domains/auth/service"
	bookingNotifier "condo/internal/domains/booking/notifier"
	bookingRepository "condo/internal/domains/booking/repository"
	bookingService "condo/internal/domains/booking/service"
	calendarService "condo/internal/domains/calendar/service"
	documentService "condo/internal/domains/document/service"
	promotionRepository "condo/internal/domains/promotion/repository"
	promotionService "condo/internal/domains/promotion/service"
	reviewRepository "condo/internal/domains/review/repository"
	reviewService "condo/internal/domains/review/service"
	reportService "condo/internal/domains/report/service"
	roomRepository "condo/internal/domains/room/repository"
	roomService "condo/internal/domains/room/service"
	siteConfigRepository "condo/internal/domains/siteconfig/repository"
	siteConfigService "condo/internal/domains/siteconfig/service"
	userRepository "condo/internal/domains/user/repository"
	userService "condo/internal/domains/user/service"

	amenityHandler "condo/internal/handlers/amenity"
	authHandler "condo/internal/handlers/auth"
	bookingHandler "condo/internal/handlers/booking"
	calendarHandler "condo/internal/handlers/calendar"
	documentHandler "condo/internal/handlers/document"
	promotionHandler "condo/internal/handlers/promotion"
	reportHandler "condo/internal/handlers/report"
	reviewHandler "condo/internal/handlers/review"
	roomHandler "condo/internal/handlers/room"
	siteConfigHandler "condo/internal/handlers/siteconfig"
	userHandler "condo/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	jwt.NewDenylist,
	s3.New,
	kafka.New,
	ical.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var promotionDomain = wire.NewSet(
	promotionRepository.New,
	promotionService.New,
)

var siteConfigDomain = wire.NewSet(
	siteConfigRepository.New,
	siteConfigService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingNotifier.New,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var amenityDomain = wire.NewSet(
	amenityRepository.New,
	amenityService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	roomDomain,
	promotionDomain,
	siteConfigDomain,
	bookingDomain,
	reviewDomain,
	amenityDomain,
	calendarService.New,
	reportService.New,
	documentService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	promotionHandler.New,
	siteConfigHandler.New,
	calendarHandler.New,
	reportHandler.New,
	documentHandler.New,
	reviewHandler.New,
	amenityHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		scheduler.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
