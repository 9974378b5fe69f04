package calendar

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/calendar/model/dto"
	"condo/internal/domains/calendar/service"
	"condo/shared/constant"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Calendar
	otel    otel.Otel
}

func New(service service.Calendar, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/calendar", func(routerGroup chi.Router) {
		routerGroup.Get("/events", handler.GetEvents)
		routerGroup.Post("/sync", handler.SyncCalendars)
	})
}

// GetEvents returns bookings and promo markers for the admin calendar.
// @Summary Get calendar events
// @Tags Calendar
// @Produce json
// @Param start query string false "Range start (YYYY-MM-DD or RFC3339)"
// @Param end query string false "Range end (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} response.Data[[]dto.EventResponse]
// @Failure 400 {object} response.Error
// @Router /v1/calendar/events [get]
// @Security BearerAuth
func (handler *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEvents")
	defer scope.End()

	query := r.URL.Query()

	events, err := handler.service.Events(ctx, dto.EventsRequest{
		Start: query.Get("start"),
		End:   query.Get("end"),
	})
	if err != nil {
		response.Fail(w, scope, err, "failed to get calendar events")

		return
	}

	response.WithJSON(w, http.StatusOK, events)
}

// SyncCalendars imports the external iCal feeds of every active room.
// @Summary Sync external calendars
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Data[dto.SyncResponse]
// @Router /v1/calendar/sync [post]
// @Security BearerAuth
func (handler *Handler) SyncCalendars(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SyncCalendars")
	defer scope.End()

	res, err := handler.service.Sync(ctx)
	if err != nil {
		response.Fail(w, scope, err, "failed to sync calendars")

		return
	}

	log.Info().Int("imported", res.Imported).Int("conflicts", res.Conflicts).Msg("calendar sync finished")

	response.WithJSON(w, http.StatusOK, res)
}
