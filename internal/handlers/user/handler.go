package user

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/user/model"
	"condo/internal/domains/user/model/dto"
	"condo/internal/domains/user/service"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Get("/", handler.GetUsers)
		r.Get("/me", handler.GetProfile)
		r.Patch("/me", handler.UpdateProfile)
		r.Get("/{id}", handler.GetUserByID)
		r.Patch("/{id}", handler.UpdateUser)
	})
}

// accountFilter narrows the admin listing. Blank query values are left out.
func accountFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if email := query.Get(model.FieldEmail); email != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldEmail, Operator: gDto.FilterOperatorLike, Value: email, Table: model.TableName,
		})
	}

	if role := query.Get(model.FieldRole); role != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: role, Table: model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldIsActive)); active != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldIsActive, Operator: gDto.FilterOperatorEq, Value: *active, Table: model.TableName,
		})
	}

	return group
}

// GetUsers lists accounts for administrators.
// @Summary List users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param email query string false "Email contains"
// @Param role query string false "Exact role"
// @Param is_active query boolean false "Active flag"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Failure 400 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)
	params.Qualify(model.TableName, model.FieldEmail, model.FieldFirstName, model.FieldLastLogin, constant.FieldCreatedAt)

	users, err := handler.service.GetAll(ctx, params, accountFilter(r))
	if err != nil {
		response.Fail(w, scope, err, "failed to list users")

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// GetUserByID
// @Summary Get a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserByID")
	defer scope.End()

	user, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get user")

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// UpdateUser lets an administrator change another account's profile, role or active flag.
// @Summary Update a user
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateUser")
	defer scope.End()

	var req dto.UpdateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "invalid user update")

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)
	if err := handler.service.Update(ctx, req, id); err != nil {
		response.Fail(w, scope, err, "failed to update user")

		return
	}

	scope.SetAttribute("user.id", id)

	response.WithMessage(w, http.StatusOK, "User updated")
}

// GetProfile returns the account behind the access token.
// @Summary Get own profile
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 401 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProfile")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		response.WithError(w, failure.Unauthorized("login required"))

		return
	}

	user, err := handler.service.Get(ctx, userID)
	if err != nil {
		response.Fail(w, scope, err, "failed to get profile")

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// UpdateProfile edits the caller's own contact details.
// @Summary Update own profile
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/users/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProfile")
	defer scope.End()

	var req dto.UpdateProfileRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "invalid profile update")

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.UpdateProfile(ctx, req, userID); err != nil {
		response.Fail(w, scope, err, "failed to update profile")

		return
	}

	response.WithMessage(w, http.StatusOK, "Profile updated")
}
