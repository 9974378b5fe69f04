package amenity

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/amenity/model"
	"condo/internal/domains/amenity/model/dto"
	"condo/internal/domains/amenity/service"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Amenity
	otel    otel.Otel
}

func New(service service.Amenity, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/amenities", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateAmenity)
		routerGroup.Get("/", handler.GetAmenities)
		routerGroup.Post("/images", handler.UploadImage)
		routerGroup.Delete("/images", handler.DeleteImages)
		routerGroup.Get("/{id}", handler.GetAmenityByID)
		routerGroup.Patch("/{id}", handler.UpdateAmenity)
		routerGroup.Delete("/{id}", handler.DeleteAmenity)
	})
}

// CreateAmenity handles the creation of a new resort amenity.
// @Summary Create an amenity
// @Tags Amenity
// @Accept json
// @Produce json
// @Param request body dto.CreateAmenityRequest true "Create Amenity Request"
// @Success 201 {object} response.Message "Amenity created successfully"
// @Failure 400 {object} response.Error
// @Router /v1/amenities [post]
// @Security BearerAuth
func (handler *Handler) CreateAmenity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAmenity")
	defer scope.End()

	req := dto.CreateAmenityRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		response.Fail(w, scope, err, "failed to create amenity")

		return
	}

	response.WithMessage(w, http.StatusCreated, "Amenity created successfully")
}

// GetAmenities lists amenities. Inactive ones are only listed when is_active=false is asked for.
// @Summary Get all amenities
// @Tags Amenity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param is_active query boolean false "Filter by active flag, defaults to true"
// @Success 200 {object} response.Data[dto.GetAmenitiesResponse]
// @Router /v1/amenities [get]
func (handler *Handler) GetAmenities(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAmenities")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Qualify(model.TableName, model.FieldName, constant.FieldCreatedAt)

	query := r.URL.Query()

	active := true
	if flag := shared.ConvertStringToBool(query.Get(model.FieldIsActive)); flag != nil {
		active = *flag
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldIsActive, Operator: gDto.FilterOperatorEq, Value: active, Table: model.TableName},
		},
	}

	if name := query.Get(model.FieldName); name != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	amenities, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get amenities")

		return
	}

	response.WithJSON(w, http.StatusOK, amenities)
}

// GetAmenityByID retrieves an amenity by its ID.
// @Summary Get an amenity by ID
// @Tags Amenity
// @Produce json
// @Param id path string true "Amenity ID"
// @Success 200 {object} response.Data[dto.AmenityResponse]
// @Failure 404 {object} response.Error
// @Router /v1/amenities/{id} [get]
func (handler *Handler) GetAmenityByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAmenityByID")
	defer scope.End()

	amenity, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get amenity by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, amenity)
}

// UpdateAmenity updates an existing amenity.
// @Summary Update an amenity
// @Tags Amenity
// @Accept json
// @Produce json
// @Param id path string true "Amenity ID"
// @Param request body dto.UpdateAmenityRequest true "Update Amenity Request"
// @Success 200 {object} response.Message "Amenity updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/amenities/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAmenity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAmenity")
	defer scope.End()

	req := dto.UpdateAmenityRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to update amenity")

		return
	}

	response.WithMessage(w, http.StatusOK, "Amenity updated successfully")
}

// DeleteAmenity deletes an amenity and its stored images.
// @Summary Delete an amenity
// @Tags Amenity
// @Produce json
// @Param id path string true "Amenity ID"
// @Success 200 {object} response.Message "Amenity deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/amenities/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAmenity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAmenity")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to delete amenity")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Amenity deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Amenity deleted successfully")
}

// UploadImage stores an amenity photo and returns its public URL.
// @Summary Upload an amenity image
// @Tags Amenity
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file to upload"
// @Success 201 {object} response.Data[dto.UploadImageResponse]
// @Failure 400 {object} response.Error
// @Router /v1/amenities/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadAmenityImage")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.Fail(w, scope, err, "failed to parse multipart form")

		return
	}

	req := dto.UploadImageRequest{}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err == nil {
		defer file.Close()

		req.Image = fileHeader
		req.ImageFile = file
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	res, err := handler.service.UploadImage(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to upload amenity image")

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// DeleteImages removes uploaded images that were never attached or were detached from an amenity.
// @Summary Delete amenity images
// @Tags Amenity
// @Accept json
// @Produce json
// @Param request body dto.DeleteImagesRequest true "Delete Images Request"
// @Success 200 {object} response.Message "Images deleted successfully"
// @Failure 400 {object} response.Error
// @Router /v1/amenities/images [delete]
// @Security BearerAuth
func (handler *Handler) DeleteImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAmenityImages")
	defer scope.End()

	req := dto.DeleteImagesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.DeleteImages(ctx, req); err != nil {
		response.Fail(w, scope, err, "failed to delete amenity images")

		return
	}

	response.WithMessage(w, http.StatusOK, "Images deleted successfully")
}
