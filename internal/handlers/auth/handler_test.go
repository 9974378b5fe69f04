package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"condo/infras/otel/mocks"
	authMocks "condo/internal/domains/auth/mocks"
	"condo/internal/domains/auth/model/dto"
	"condo/internal/handlers/auth"
	"condo/shared/constant"
	"condo/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (chi.Router, *authMocks.MockAuthService) {
	t.Helper()

	svc := authMocks.NewMockAuthService(gomock.NewController(t))
	handler := auth.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func TestHandler_Login(t *testing.T) {
	t.Run("returns the token pair", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Login(gomock.Any(), dto.LoginRequest{Email: "ana@condo.test", Password: "password"}).
			Return(dto.LoginResponse{AccessToken: "access", RefreshToken: "refresh", Role: "user"}, nil)

		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"email":"ana@condo.test","password":"password"}`)
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"access_token":"access"`)
	})

	t.Run("rejects a malformed email before the service", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"email":"ana","password":"password"}`)
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.Unauthorized("invalid email or password"))

		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"email":"ana@condo.test","password":"nope"}`)
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid email or password"}`, rec.Body.String())
	})
}

func TestHandler_Logout(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Logout(gomock.Any(), dto.LogoutRequest{}).Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("with refresh token", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Logout(gomock.Any(), dto.LogoutRequest{RefreshToken: "refresh"}).Return(nil)

		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"refresh_token":"refresh"}`)
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", body))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign refresh token", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Logout(gomock.Any(), gomock.Any()).Return(failure.Forbidden("refresh token belongs to another account"))

		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"refresh_token":"theirs"}`)
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", body))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandler_ChangePassword_PassesCaller(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().ChangePassword(gomock.Any(), gomock.Any(), "user-1").Return(nil)

	req := httptest.NewRequest(http.MethodPatch, "/auth/change-password",
		strings.NewReader(`{"current_password":"password","new_password":"new-password"}`))
	req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, "user-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
