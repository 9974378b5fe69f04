package router

import (
	"condo/internal/handlers/amenity"
	"condo/internal/handlers/auth"
	"condo/internal/handlers/booking"
	"condo/internal/handlers/calendar"
	"condo/internal/handlers/document"
	"condo/internal/handlers/promotion"
	"condo/internal/handlers/report"
	"condo/internal/handlers/review"
	"condo/internal/handlers/room"
	"condo/internal/handlers/siteconfig"
	"condo/internal/handlers/user"
	"condo/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth       auth.Handler
	User       user.Handler
	Room       room.Handler
	Booking    booking.Handler
	Promotion  promotion.Handler
	SiteConfig siteconfig.Handler
	Calendar   calendar.Handler
	Report     report.Handler
	Document   document.Handler
	Review     review.Handler
	Amenity    amenity.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Promotion.Router(routerGroup)
		r.DomainHandlers.SiteConfig.Router(routerGroup)
		r.DomainHandlers.Calendar.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
		r.DomainHandlers.Document.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.Amenity.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
