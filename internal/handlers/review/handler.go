package review

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/review/model"
	"condo/internal/domains/review/model/dto"
	"condo/internal/domains/review/service"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReview)
		routerGroup.Get("/", handler.GetPublishedReviews)
		routerGroup.Get("/moderation", handler.GetReviewsForModeration)
		routerGroup.Get("/{id}", handler.GetReviewByID)
		routerGroup.Patch("/{id}/visibility", handler.ModerateReview)
		routerGroup.Delete("/{id}", handler.DeleteReview)
	})
}

// CreateReview lets a guest rate one of their completed stays.
// @Summary Review a completed stay
// @Description The review stays hidden until staff approve it.
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	review, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to create review")

		return
	}

	response.WithJSON(w, http.StatusCreated, review)
}

func roomFilter(r *http.Request, filterGroup *gDto.FilterGroup) {
	if roomID := r.URL.Query().Get(model.FieldRoomID); roomID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}
}

// GetPublishedReviews lists approved reviews.
// @Summary Get published reviews
// @Tags Review
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room"
// @Success 200 {object} response.Data[dto.GetReviewsResponse]
// @Router /v1/reviews [get]
func (handler *Handler) GetPublishedReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublishedReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Qualify(model.TableName, model.FieldRating, constant.FieldCreatedAt)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldIsVisible, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
		},
	}

	roomFilter(r, &filterGroup)

	reviews, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get reviews")

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetReviewsForModeration lists every review, hidden ones included.
// @Summary Get reviews for moderation
// @Tags Review
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room"
// @Param is_visible query boolean false "Filter by visibility"
// @Success 200 {object} response.Data[dto.GetReviewsResponse]
// @Router /v1/reviews/moderation [get]
// @Security BearerAuth
func (handler *Handler) GetReviewsForModeration(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviewsForModeration")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Qualify(model.TableName, model.FieldRating, constant.FieldCreatedAt)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	roomFilter(r, &filterGroup)

	if visible := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsVisible)); visible != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsVisible,
			Operator: gDto.FilterOperatorEq,
			Value:    *visible,
			Table:    model.TableName,
		})
	}

	reviews, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get reviews")

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetReviewByID retrieves a review by its ID.
// @Summary Get a review by ID
// @Tags Review
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Data[dto.ReviewResponse]
// @Failure 404 {object} response.Error
// @Router /v1/reviews/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviewByID")
	defer scope.End()

	review, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get review by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, review)
}

// ModerateReview approves or hides a review.
// @Summary Moderate a review
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body dto.ModerateReviewRequest true "Moderate Review Request"
// @Success 200 {object} response.Message "Review updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reviews/{id}/visibility [patch]
// @Security BearerAuth
func (handler *Handler) ModerateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ModerateReview")
	defer scope.End()

	req := dto.ModerateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Moderate(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to moderate review")

		return
	}

	response.WithMessage(w, http.StatusOK, "Review updated successfully")
}

// DeleteReview rejects a review.
// @Summary Delete a review
// @Tags Review
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Message "Review deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/reviews/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReview")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to delete review")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Review deleted successfully")
}
