package siteconfig

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/siteconfig/model/dto"
	"condo/internal/domains/siteconfig/service"
	"condo/shared/constant"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.SiteConfig
	otel    otel.Otel
}

func New(service service.SiteConfig, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/site-config", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetSiteConfig)
		routerGroup.Patch("/", handler.UpdateSiteConfig)
	})
}

// GetSiteConfig returns the property-wide settings.
// @Summary Get site configuration
// @Tags SiteConfig
// @Produce json
// @Success 200 {object} response.Data[dto.SiteConfigResponse]
// @Router /v1/site-config [get]
func (handler *Handler) GetSiteConfig(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSiteConfig")
	defer scope.End()

	res, err := handler.service.Get(ctx)
	if err != nil {
		response.Fail(w, scope, err, "failed to get site config")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateSiteConfig updates fees, contact details or legal copy.
// @Summary Update site configuration
// @Tags SiteConfig
// @Accept json
// @Produce json
// @Param request body dto.UpdateSiteConfigRequest true "Update Site Config Request"
// @Success 200 {object} response.Message "Site config updated successfully"
// @Failure 400 {object} response.Error
// @Router /v1/site-config [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSiteConfig(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSiteConfig")
	defer scope.End()

	req := dto.UpdateSiteConfigRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, req); err != nil {
		response.Fail(w, scope, err, "failed to update site config")

		return
	}

	response.WithMessage(w, http.StatusOK, "Site config updated successfully")
}
