package room

import (
	"mime/multipart"
	"net/http"

	"condo/infras/ical"
	"condo/infras/otel"
	calendarService "condo/internal/domains/calendar/service"
	"condo/internal/domains/room/model"
	"condo/internal/domains/room/model/dto"
	"condo/internal/domains/room/service"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const formImage = "image"

type Handler struct {
	service  service.Room
	calendar calendarService.Calendar
	otel     otel.Otel
}

func New(service service.Room, calendar calendarService.Calendar, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		calendar: calendar,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Get("/{id}/availability", handler.GetAvailability)
		routerGroup.Get("/{id}/busy", handler.GetBusyTimes)
		routerGroup.Get("/{id}/calendar.ics", handler.ExportCalendar)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

func optionalInt(request *http.Request, key string) *int {
	value := request.FormValue(key)
	if value == "" {
		return nil
	}

	parsed, err := shared.ConvertStringToInt(value)
	if err != nil {
		return nil
	}

	return &parsed
}

func optionalFloat(request *http.Request, key string) *float64 {
	value := request.FormValue(key)
	if value == "" {
		return nil
	}

	parsed, err := shared.ConvertStringToFloat(value)
	if err != nil {
		return nil
	}

	return &parsed
}

func optionalString(request *http.Request, key string) *string {
	if _, ok := request.MultipartForm.Value[key]; !ok {
		return nil
	}

	value := request.FormValue(key)

	return &value
}

func formImageFile(request *http.Request) (multipart.File, *multipart.FileHeader) {
	file, fileHeader, err := request.FormFile(formImage)
	if err != nil {
		return nil, nil
	}

	return file, fileHeader
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a room listing. Pricing and stay rules come from the form fields.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Room name"
// @Param category formData string true "Studio, 1BR, 2BR, 3BR, 4BR or Penthouse"
// @Param description formData string false "Description"
// @Param price_per_night formData number true "Nightly rate"
// @Param capacity formData integer true "Maximum counted guests"
// @Param standard_stay_hours formData integer false "Stay length per night, default 22"
// @Param cleaning_buffer_hours formData integer false "Turnover buffer, default 2"
// @Param amenities formData []string false "Amenities" collectionFormat(multi)
// @Param airbnb_ical_url formData string false "Airbnb iCal feed"
// @Param agoda_ical_url formData string false "Agoda iCal feed"
// @Param is_active formData boolean false "Bookable"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Message "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.Fail(writer, scope, err, "failed to parse multipart form")

		return
	}

	req := dto.CreateRoomRequest{
		Name:                request.FormValue(model.FieldName),
		Category:            request.FormValue(model.FieldCategory),
		Description:         request.FormValue(model.FieldDescription),
		StandardStayHours:   optionalInt(request, model.FieldStandardStayHours),
		CleaningBufferHours: optionalInt(request, model.FieldCleaningBufferHours),
		Amenities:           request.MultipartForm.Value[model.FieldAmenities],
		AirbnbICalURL:       request.FormValue(model.FieldAirbnbICalURL),
		AgodaICalURL:        request.FormValue(model.FieldAgodaICalURL),
		IsActive:            shared.ConvertStringToBool(request.FormValue(model.FieldIsActive)),
	}

	if price := optionalFloat(request, model.FieldPricePerNight); price != nil {
		req.PricePerNight = *price
	}

	if capacity := optionalInt(request, model.FieldCapacity); capacity != nil {
		req.Capacity = *capacity
	}

	if file, fileHeader := formImageFile(request); file != nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request")

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		response.Fail(writer, scope, err, "failed to create room")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Room created successfully")
}

// GetRooms retrieves all rooms based on query parameters.
// @Summary Get all rooms
// @Description Retrieve rooms with optional filtering and pagination.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param category query string false "Filter by category"
// @Param is_active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Qualify(model.TableName, model.FieldName, model.FieldPricePerNight, model.FieldCapacity, constant.FieldCreatedAt)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    query.Get(model.FieldName),
				Table:    model.TableName,
			},
		},
	}

	if category := query.Get(model.FieldCategory); category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldIsActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get rooms")

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get room by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// GetAvailability checks whether a stay window is free.
// @Summary Check room availability
// @Description Resolves the stay window from check_in (and optional check_out) and checks it against active bookings.
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Param check_in query string true "Check-in, RFC3339"
// @Param check_out query string false "Check-out, RFC3339"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	req := dto.AvailabilityRequest{
		CheckIn:  r.URL.Query().Get("check_in"),
		CheckOut: r.URL.Query().Get("check_out"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	res, err := handler.service.Availability(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		response.Fail(w, scope, err, "failed to check availability")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetBusyTimes lists occupied ranges intersecting a day.
// @Summary Busy times for a day
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Param date query string true "Day, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.BusyResponse]
// @Failure 400 {object} response.Error
// @Router /v1/rooms/{id}/busy [get]
func (handler *Handler) GetBusyTimes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBusyTimes")
	defer scope.End()

	date := r.URL.Query().Get("date")

	if err := validator.ValidateVar(date, "required,datekey"); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	res, err := handler.service.Busy(ctx, chi.URLParam(r, constant.RequestParamID), date)
	if err != nil {
		response.Fail(w, scope, err, "failed to get busy times")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ExportCalendar publishes the room's confirmed stays as an iCalendar feed for OTA import.
// @Summary Room iCal feed
// @Tags Room
// @Produce text/calendar
// @Param id path string true "Room ID"
// @Success 200 {string} string "VCALENDAR"
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/calendar.ics [get]
func (handler *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportCalendar")
	defer scope.End()

	feed, err := handler.calendar.Export(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to export calendar")

		return
	}

	response.WithFile(w, ical.ContentType, "", []byte(feed))
}

// UpdateRoom updates an existing room by its ID.
// @Summary Update a room by ID
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param name formData string false "Room name"
// @Param category formData string false "Category"
// @Param description formData string false "Description"
// @Param price_per_night formData number false "Nightly rate"
// @Param capacity formData integer false "Maximum counted guests"
// @Param standard_stay_hours formData integer false "Stay length per night"
// @Param cleaning_buffer_hours formData integer false "Turnover buffer"
// @Param amenities formData []string false "Amenities" collectionFormat(multi)
// @Param airbnb_ical_url formData string false "Airbnb iCal feed"
// @Param agoda_ical_url formData string false "Agoda iCal feed"
// @Param is_active formData boolean false "Bookable"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.Fail(w, scope, err, "failed to parse multipart form")

		return
	}

	req := dto.UpdateRoomRequest{
		Name:                r.FormValue(model.FieldName),
		Category:            r.FormValue(model.FieldCategory),
		Description:         optionalString(r, model.FieldDescription),
		PricePerNight:       optionalFloat(r, model.FieldPricePerNight),
		Capacity:            optionalInt(r, model.FieldCapacity),
		StandardStayHours:   optionalInt(r, model.FieldStandardStayHours),
		CleaningBufferHours: optionalInt(r, model.FieldCleaningBufferHours),
		Amenities:           r.MultipartForm.Value[model.FieldAmenities],
		AirbnbICalURL:       optionalString(r, model.FieldAirbnbICalURL),
		AgodaICalURL:        optionalString(r, model.FieldAgodaICalURL),
		IsActive:            shared.ConvertStringToBool(r.FormValue(model.FieldIsActive)),
	}

	if file, fileHeader := formImageFile(r); file != nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(w, scope, err, "failed to validate request")

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		response.Fail(w, scope, err, "failed to update room")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to delete room")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}
