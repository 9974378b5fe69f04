package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Auth=MockAuthService

import (
	"context"
	"fmt"
	"time"

	"condo/config"
	"condo/infras/jwt"
	"condo/infras/otel"
	"condo/internal/domains/auth/model/dto"
	userModel "condo/internal/domains/user/model"
	userRepo "condo/internal/domains/user/repository"
	"condo/shared"
	"condo/shared/constant"
	"condo/shared/failure"
	"condo/shared/password"
	"condo/shared/timezone"

	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// decoyHash is compared against when the email is unknown so both login failures cost one bcrypt run.
const decoyHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

var errBadCredentials = failure.Unauthorized("invalid email or password")

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, req dto.LogoutRequest) error
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	users    userRepo.User
	cfg      *config.Config
	otel     otel.Otel
	tokens   jwt.JWT
	denylist jwt.Denylist
}

func New(users userRepo.User, cfg *config.Config, otel otel.Otel, tokens jwt.JWT, denylist jwt.Denylist) Auth {
	return &serviceImpl{
		users:    users,
		cfg:      cfg,
		otel:     otel,
		tokens:   tokens,
		denylist: denylist,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer scope.TraceIfError(&err)

	taken, err := s.users.Exist(ctx, userRepo.EmailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check email availability")

		return fmt.Errorf("failed to check email availability: %w", err)
	}

	if taken {
		return failure.Conflict("email already registered")
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := req.ToUserModel(constant.ContextGuest, hashed)
	if err != nil {
		return failure.Validation("date_of_birth must be a date in YYYY-MM-DD format")
	}

	if err = s.users.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("account registered")

	return nil
}

// Login checks credentials and issues a token pair. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, err := s.users.Get(ctx, userRepo.EmailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to look up user for login")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		_ = password.Verify(req.Password, decoyHash)

		log.Warn().Str("email", req.Email).Msg("login attempt with unknown email")

		return res, errBadCredentials
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("user_id", user.ID).Msg("login attempt with wrong password")

		return res, errBadCredentials
	}

	if !user.IsActive {
		return res, failure.Forbidden("user account is deactivated")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.touchLastLogin(ctx, user)

	res.FromTokenPair(pair)
	res.Role = user.Role

	return res, nil
}

// touchLastLogin is bookkeeping only. A failed write never blocks a valid login.
func (s *serviceImpl) touchLastLogin(ctx context.Context, user userModel.User) {
	fields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}, user.Email)

	if err := s.users.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}
}

// RefreshToken reissues a pair from the stored account, so role changes and deactivations made
// since login take effect on the next refresh. The presented refresh token is single use.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims, err := s.tokens.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("rejected refresh token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return res, fmt.Errorf("failed to check refresh token: %w", err)
	}

	if revoked {
		log.Warn().Str("user_id", claims.UserID).Msg("reuse of a revoked refresh token")

		return res, failure.Unauthorized("refresh token has been revoked")
	}

	user, err := s.users.Get(ctx, shared.FilterByID(claims.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user for refresh")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.Unauthorized("invalid refresh token")
	}

	if !user.IsActive {
		return res, failure.Forbidden("user account is deactivated")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.denylist.Revoke(ctx, claims); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to retire used refresh token")
	}

	res.FromTokenPair(pair)

	return res, nil
}

// Logout revokes the access token behind the request and, when given, the caller's refresh token.
func (s *serviceImpl) Logout(ctx context.Context, req dto.LogoutRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Logout")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	tokenID, _ := ctx.Value(constant.ContextKeyTokenID).(string)

	if userID == constant.Empty || tokenID == constant.Empty {
		return failure.Unauthorized("login required")
	}

	revoke := []*jwt.Claims{{
		UserID:  userID,
		TokenID: tokenID,
		RegisteredClaims: jwtLib.RegisteredClaims{
			ExpiresAt: jwtLib.NewNumericDate(timezone.Now().Add(time.Duration(s.cfg.JWT.AccessExpireMin) * time.Minute)),
		},
	}}

	if req.RefreshToken != constant.Empty {
		refresh, err := s.tokens.ValidateToken(req.RefreshToken, jwt.RefreshToken)
		switch {
		case err != nil:
			log.Info().Err(err).Str("user_id", userID).Msg("ignoring unusable refresh token on logout")
		case refresh.UserID != userID:
			return failure.Forbidden("refresh token belongs to another account")
		default:
			revoke = append(revoke, refresh)
		}
	}

	for _, claims := range revoke {
		if err = s.denylist.Revoke(ctx, claims); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("failed to revoke token")

			return fmt.Errorf("failed to revoke token: %w", err)
		}
	}

	return nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.users.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found")
	}

	if password.Verify(req.CurrentPassword, user.Password) != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	actor, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashed}, actor)

	if err = s.users.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
