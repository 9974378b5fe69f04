package booking

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/booking/model"
	"condo/internal/domains/booking/model/dto"
	"condo/internal/domains/booking/service"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/timezone"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const (
	queryCheckInFrom = "check_in_from"
	queryCheckInTo   = "check_in_to"
)

var sortableFields = []string{
	model.FieldCheckInDate, model.FieldCheckOutDate, model.FieldTotalPrice, model.FieldStatus, constant.FieldCreatedAt,
}

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/quote", handler.Quote)
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Post("/manual", handler.CreateManualBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Get("/{id}/guests", handler.GetGuestRoster)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Patch("/{id}/cancel", handler.CancelBooking)
		routerGroup.Patch("/{id}/status", handler.UpdateBookingStatus)
	})
}

// Quote prices a stay without reserving it.
// @Summary Quote a stay
// @Description Resolves the stay window, applies an optional promo and the late checkout fee.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} response.Data[dto.QuoteResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/quote [post]
func (handler *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Quote")
	defer scope.End()

	req := dto.QuoteRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	res, err := handler.service.Quote(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to quote stay")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateBooking reserves a stay for the authenticated guest.
// @Summary Create a booking
// @Description Prices the stay on the server, checks capacity and reserves the window. Overlaps return 409.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to create booking")

		return
	}

	scope.AddEvent("Booking " + res.ID + " created")

	response.WithJSON(w, http.StatusCreated, res)
}

// CreateManualBooking lets staff record a walk-in or phone booking.
// @Summary Create a manual booking
// @Description Finds or creates the guest account by email and stores a confirmed booking. The downpayment must meet the configured minimum.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.ManualBookingRequest true "Manual Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/manual [post]
// @Security BearerAuth
func (handler *Handler) CreateManualBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateManualBooking")
	defer scope.End()

	req := dto.ManualBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Manual(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to create manual booking")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Manual booking " + res.ID + " created by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetBookings lists bookings for staff.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room"
// @Param status query string false "Filter by status"
// @Param source query string false "Filter by source (website, manual, airbnb, agoda)"
// @Param check_in_from query string false "Check-in on or after, YYYY-MM-DD"
// @Param check_in_to query string false "Check-in before, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Qualify(model.TableName, sortableFields...)

	filterGroup, err := listFilter(r)
	if err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

func listFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldRoomID, model.FieldStatus, model.FieldSource} {
		if value := query.Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	bounds := []struct {
		param    string
		operator string
	}{
		{queryCheckInFrom, gDto.FilterOperatorGreaterEq},
		{queryCheckInTo, gDto.FilterOperatorLess},
	}

	for _, bound := range bounds {
		value := query.Get(bound.param)
		if value == "" {
			continue
		}

		if err := validator.ValidateVar(value, "datekey"); err != nil {
			return filterGroup, err
		}

		day, err := timezone.ParseDateKey(value, nil)
		if err != nil {
			return filterGroup, err
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  bound.param,
			Field:    model.FieldCheckInDate,
			Operator: bound.operator,
			Value:    day,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}

// GetMyBookings lists the authenticated guest's bookings.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 401 {object} response.Error
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Qualify(model.TableName, sortableFields...)

	bookings, err := handler.service.Mine(ctx, queryParams)
	if err != nil {
		response.Fail(w, scope, err, "failed to get my bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID returns a booking to its owner or to staff.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get booking by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetGuestRoster classifies the primary guest and companions for building registration.
// @Summary Guest registration roster
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.RosterResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/guests [get]
// @Security BearerAuth
func (handler *Handler) GetGuestRoster(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestRoster")
	defer scope.End()

	roster, err := handler.service.Roster(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to build guest roster")

		return
	}

	response.WithJSON(w, http.StatusOK, roster)
}

// UpdateBooking lets the owner edit contact details and companions while the booking is pending.
// @Summary Update a pending booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Message "Booking updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to update booking")

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking updated successfully")
}

// CancelBooking cancels the owner's pending or confirmed booking.
// @Summary Cancel my booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/cancel [patch]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		response.Fail(w, scope, err, "failed to cancel booking")

		return
	}

	scope.AddEvent("Booking " + id + " cancelled")

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}

// UpdateBookingStatus moves a booking through its lifecycle and records payment.
// @Summary Update booking status
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Message "Booking status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatus")
	defer scope.End()

	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		response.Fail(w, scope, err, "failed to update booking status")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking " + id + " moved to " + req.Status + " by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking status updated successfully")
}
