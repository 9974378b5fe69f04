package middleware

import (
	"context"
	"errors"
	"net/http"

	"condo/config"
	"condo/infras/jwt"
	"condo/infras/otel"
	"condo/permissions"
	"condo/shared/constant"
	"condo/shared/failure"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type accessKey struct{}

// access is what the chain learned about a request before the handler runs.
type access struct {
	internal   bool
	route      string
	permission permissions.Permission
}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole guards the versioned API. Mount APIKey first, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	denylist   jwt.Denylist
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, denylist jwt.Denylist, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		denylist:   denylist,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// resolve matches the request against the full route tree so subrouter patterns like
// /v1/bookings/{id}/cancel line up with the permission table.
func (m *authRoleImpl) resolve(request *http.Request) access {
	if found, ok := request.Context().Value(accessKey{}).(access); ok {
		return found
	}

	var res access

	if rctx := chi.RouteContext(request.Context()); rctx != nil && rctx.Routes != nil {
		res.route = rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	}

	if m.permission != nil {
		res.permission = m.permission.FindPermissions(res.route, request.Method)
	}

	return res
}

func withAccess(request *http.Request, res access) *http.Request {
	return request.WithContext(context.WithValue(request.Context(), accessKey{}, res))
}

// APIKey lets internal callers holding the shared key through without a user token. A wrong key
// is rejected rather than downgraded to a client call.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		res := m.resolve(request)
		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, withAccess(request, res))

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == constant.Empty || apiKey != m.cfg.App.APIKey {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		res.internal = true

		next.ServeHTTP(writer, withAccess(request, res))
	})
}

func tokenFailure(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidToken):
		return failure.Unauthorized("Invalid token")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return failure.Unauthorized("Invalid token claims")
	default:
		return failure.Unauthorized("Token validation failed")
	}
}

// Auth turns the bearer token into the caller identity on the context. Public routes pass
// without one.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		res := m.resolve(request)

		if res.internal || res.permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       res.route,
			"http.method":     request.Method,
		})

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == constant.Empty {
			err := failure.Unauthorized("Missing authorization header")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			err = failure.Unauthorized("Invalid authorization header format")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, jwt.AccessToken)
		if err != nil {
			err = tokenFailure(err)
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		// Redis outages fail open; tokens still expire on their own.
		if revoked, err := m.denylist.IsRevoked(request.Context(), claims.TokenID); err != nil {
			log.Warn().Err(err).Msg("token revocation check unavailable")
		} else if revoked {
			response.WithError(writer, failure.Unauthorized("Token has been revoked"))

			return
		}

		if claims.UserID == constant.Empty || claims.Email == constant.Empty {
			log.Error().Str("user_id", claims.UserID).Msg("JWT claims missing subject")
			response.WithError(writer, failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx := context.WithValue(request.Context(), constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC admits the caller when their role is listed for the route.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		res := m.resolve(request)

		switch {
		case res.internal:
		case m.permission == nil:
			response.WithError(writer, failure.ForbiddenError)

			return
		case m.permission.Skip:
		default:
			role, _ := request.Context().Value(constant.ContextKeyUserRole).(string)

			if !res.permission.Allows(role) {
				scope.TraceError(failure.ForbiddenError)
				scope.SetAttributes(map[string]any{
					"user_role":     role,
					"allowed_roles": res.permission.Permissions,
					"reason":        "role_not_allowed",
				})
				response.WithError(writer, failure.ForbiddenError)

				return
			}
		}

		next.ServeHTTP(writer, request)
	})
}
