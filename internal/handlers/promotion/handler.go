package promotion

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/promotion/model"
	"condo/internal/domains/promotion/model/dto"
	"condo/internal/domains/promotion/service"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Promotion
	otel    otel.Otel
}

func New(service service.Promotion, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/promotions", func(routerGroup chi.Router) {
		routerGroup.Post("/validate", handler.ValidatePromotion)
		routerGroup.Post("/", handler.CreatePromotion)
		routerGroup.Get("/", handler.GetPromotions)
		routerGroup.Get("/{id}", handler.GetPromotionByID)
		routerGroup.Patch("/{id}", handler.UpdatePromotion)
		routerGroup.Delete("/{id}", handler.DeletePromotion)
	})
}

// ValidatePromotion checks a code against a prospective stay.
// @Summary Validate a promo code
// @Description Rejections are reported in-band with success false and a message.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param request body dto.ValidatePromoRequest true "Validate Promo Request"
// @Success 200 {object} response.Data[dto.ValidatePromoResponse]
// @Failure 400 {object} response.Error
// @Router /v1/promotions/validate [post]
func (handler *Handler) ValidatePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ValidatePromotion")
	defer scope.End()

	req := dto.ValidatePromoRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	res, err := handler.service.Validate(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to validate promotion")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreatePromotion handles the creation of a new promotion.
// @Summary Create a promotion
// @Tags Promotion
// @Accept json
// @Produce json
// @Param request body dto.CreatePromotionRequest true "Create Promotion Request"
// @Success 201 {object} response.Message "Promotion created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/promotions [post]
// @Security BearerAuth
func (handler *Handler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePromotion")
	defer scope.End()

	req := dto.CreatePromotionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		response.Fail(w, scope, err, "failed to create promotion")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Promotion created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Promotion created successfully")
}

// GetPromotions lists promotions.
// @Summary Get all promotions
// @Tags Promotion
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param code query string false "Filter by code"
// @Param is_active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetPromotionsResponse]
// @Router /v1/promotions [get]
// @Security BearerAuth
func (handler *Handler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPromotions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Qualify(model.TableName, model.FieldCode, model.FieldStartDate, model.FieldEndDate, constant.FieldCreatedAt)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if code := dto.NormalizeCode(query.Get(model.FieldCode)); code != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCode,
			Operator: gDto.FilterOperatorLike,
			Value:    code,
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

	promotions, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get promotions")

		return
	}

	response.WithJSON(w, http.StatusOK, promotions)
}

// GetPromotionByID retrieves a promotion by its ID.
// @Summary Get a promotion by ID
// @Tags Promotion
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} response.Data[dto.PromotionResponse]
// @Failure 404 {object} response.Error
// @Router /v1/promotions/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPromotionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPromotionByID")
	defer scope.End()

	promotion, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get promotion by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, promotion)
}

// UpdatePromotion updates an existing promotion.
// @Summary Update a promotion
// @Tags Promotion
// @Accept json
// @Produce json
// @Param id path string true "Promotion ID"
// @Param request body dto.UpdatePromotionRequest true "Update Promotion Request"
// @Success 200 {object} response.Message "Promotion updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/promotions/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePromotion")
	defer scope.End()

	req := dto.UpdatePromotionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to update promotion")

		return
	}

	response.WithMessage(w, http.StatusOK, "Promotion updated successfully")
}

// DeletePromotion deletes a promotion by its ID.
// @Summary Delete a promotion
// @Tags Promotion
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} response.Message "Promotion deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/promotions/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePromotion")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to delete promotion")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Promotion deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Promotion deleted successfully")
}
