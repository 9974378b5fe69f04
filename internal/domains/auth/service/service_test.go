package service_test

import (
	"context"
	"errors"
	"testing"

	"condo/config"
	"condo/infras/jwt"
	jwtMocks "condo/infras/jwt/mocks"
	"condo/infras/otel/mocks"
	"condo/internal/domains/auth/model/dto"
	"condo/internal/domains/auth/service"
	userMocks "condo/internal/domains/user/mocks"
	userModel "condo/internal/domains/user/model"
	"condo/shared/constant"
	"condo/shared/failure"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// bcrypt of "password".
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

var errStore = errors.New("store down")

type fixture struct {
	users    *userMocks.MockUser
	tokens   *jwtMocks.MockJWT
	denylist *jwtMocks.MockDenylist
	otel     *mocks.Otel
	svc      service.Auth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		users:    userMocks.NewMockUser(ctrl),
		tokens:   jwtMocks.NewMockJWT(ctrl),
		denylist: jwtMocks.NewMockDenylist(ctrl),
		otel:     mocks.NewOtel(),
	}

	cfg := &config.Config{}
	cfg.JWT.AccessExpireMin = 15

	f.svc = service.New(f.users, cfg, f.otel, f.tokens, f.denylist)

	return f
}

func member(active bool) userModel.User {
	return userModel.User{
		ID:        "user-1",
		Email:     "ana@example.com",
		Password:  passwordHash,
		Role:      constant.RoleUser,
		FirstName: "Ana",
		IsActive:  active,
		Metadata:  gModel.NewMetadata(constant.ContextSystem, timezone.Now()),
	}
}

func pair() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}
}

func signedIn(userID, tokenID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyTokenID, tokenID)
}

func TestAuthService_Login(t *testing.T) {
	req := dto.LoginRequest{Email: "ana@example.com", Password: "password"}

	tests := []struct {
		name     string
		req      dto.LoginRequest
		setup    func(f *fixture)
		wantCode int
	}{
		{
			name: "issues tokens and records the login",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
				f.tokens.EXPECT().GenerateTokenPair("user-1", "ana@example.com", constant.RoleUser).Return(pair(), nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login write failure does not block the login",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
				f.tokens.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(pair(), nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errStore)
			},
		},
		{
			name: "unknown email",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: 401,
		},
		{
			name: "user store down",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errStore)
			},
			wantCode: 500,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "ana@example.com", Password: "nope"},
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
			},
			wantCode: 401,
		},
		{
			name: "deactivated account",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(false), nil)
			},
			wantCode: 403,
		},
		{
			name: "token generation error",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
				f.tokens.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("sign"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.Login(context.Background(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.NotEmpty(t, f.otel.Errors())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "refresh", res.RefreshToken)
			assert.Equal(t, constant.RoleUser, res.Role)
		})
	}
}

func TestAuthService_Login_SameMessageForUnknownAndWrong(t *testing.T) {
	f := newFixture(t)
	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
	_, unknown := f.svc.Login(context.Background(), dto.LoginRequest{Email: "x@example.com", Password: "password"})

	f = newFixture(t)
	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
	_, wrong := f.svc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "nope"})

	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestAuthService_RefreshToken(t *testing.T) {
	claims := &jwt.Claims{UserID: "user-1", TokenID: "r-1", Type: jwt.RefreshToken}
	req := dto.RefreshTokenRequest{RefreshToken: "refresh-old"}

	tests := []struct {
		name     string
		setup    func(f *fixture)
		wantCode int
	}{
		{
			name: "reissues from the stored account and retires the old token",
			setup: func(f *fixture) {
				admin := member(true)
				admin.Role = constant.RoleAdmin

				f.tokens.EXPECT().ValidateToken("refresh-old", jwt.RefreshToken).Return(claims, nil)
				f.denylist.EXPECT().IsRevoked(gomock.Any(), "r-1").Return(false, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil)
				f.tokens.EXPECT().GenerateTokenPair("user-1", "ana@example.com", constant.RoleAdmin).Return(pair(), nil)
				f.denylist.EXPECT().Revoke(gomock.Any(), claims).Return(nil)
			},
		},
		{
			name: "retirement failure still returns the new pair",
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.denylist.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
				f.tokens.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(pair(), nil)
				f.denylist.EXPECT().Revoke(gomock.Any(), gomock.Any()).Return(errStore)
			},
		},
		{
			name: "invalid refresh token",
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(nil, errors.New("expired"))
			},
			wantCode: 401,
		},
		{
			name: "replayed refresh token",
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.denylist.EXPECT().IsRevoked(gomock.Any(), "r-1").Return(true, nil)
			},
			wantCode: 401,
		},
		{
			name: "denylist unavailable",
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.denylist.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, errStore)
			},
			wantCode: 500,
		},
		{
			name: "account deleted since login",
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.denylist.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: 401,
		},
		{
			name: "account deactivated since login",
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.denylist.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(false), nil)
			},
			wantCode: 403,
		},
		{
			name: "user store down",
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.denylist.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errStore)
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.RefreshToken(context.Background(), req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, int64(900), res.ExpiresIn)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	refresh := &jwt.Claims{UserID: "user-1", TokenID: "r-1", Type: jwt.RefreshToken}

	tests := []struct {
		name     string
		ctx      context.Context
		req      dto.LogoutRequest
		setup    func(f *fixture)
		wantCode int
	}{
		{
			name: "revokes the access token",
			ctx:  signedIn("user-1", "a-1"),
			setup: func(f *fixture) {
				f.denylist.EXPECT().Revoke(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, c *jwt.Claims) error {
						assert.Equal(t, "a-1", c.TokenID)
						require.NotNil(t, c.ExpiresAt)
						assert.True(t, c.ExpiresAt.After(timezone.Now()))

						return nil
					})
			},
		},
		{
			name: "revokes both tokens",
			ctx:  signedIn("user-1", "a-1"),
			req:  dto.LogoutRequest{RefreshToken: "refresh"},
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(refresh, nil)
				f.denylist.EXPECT().Revoke(gomock.Any(), gomock.Any()).Return(nil)
				f.denylist.EXPECT().Revoke(gomock.Any(), refresh).Return(nil)
			},
		},
		{
			name: "unusable refresh token is ignored",
			ctx:  signedIn("user-1", "a-1"),
			req:  dto.LogoutRequest{RefreshToken: "garbage"},
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(nil, errors.New("malformed"))
				f.denylist.EXPECT().Revoke(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "refresh token of another account",
			ctx:  signedIn("user-2", "a-1"),
			req:  dto.LogoutRequest{RefreshToken: "refresh"},
			setup: func(f *fixture) {
				f.tokens.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(refresh, nil)
			},
			wantCode: 403,
		},
		{
			name:     "anonymous caller",
			ctx:      context.Background(),
			setup:    func(*fixture) {},
			wantCode: 401,
		},
		{
			name: "denylist unavailable",
			ctx:  signedIn("user-1", "a-1"),
			setup: func(f *fixture) {
				f.denylist.EXPECT().Revoke(gomock.Any(), gomock.Any()).Return(errStore)
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.svc.Logout(tt.ctx, tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	req := dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "new-password"}

	tests := []struct {
		name     string
		req      dto.ChangePasswordRequest
		setup    func(f *fixture)
		wantCode int
	}{
		{
			name: "stores a new hash",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ any) error {
						hashed, ok := fields["password"].(string)
						assert.True(t, ok)
						assert.NotEqual(t, "new-password", hashed)
						assert.NotEqual(t, passwordHash, hashed)

						return nil
					})
			},
		},
		{
			name: "user not found",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "lookup error",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errStore)
			},
			wantCode: 500,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"},
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
			},
			wantCode: 400,
		},
		{
			name: "update error",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(true), nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errStore)
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.svc.ChangePassword(signedIn("user-1", "a-1"), tt.req, "user-1")
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{Email: " Ana@Example.com ", Password: "password", FirstName: "Ana"}

	tests := []struct {
		name     string
		req      dto.RegisterRequest
		setup    func(f *fixture)
		wantCode int
	}{
		{
			name: "creates an active member account",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, u userModel.User) error {
						assert.Equal(t, "ana@example.com", u.Email)
						assert.Equal(t, constant.RoleUser, u.Role)
						assert.True(t, u.IsActive)
						assert.NotEqual(t, "password", u.Password)

						return nil
					})
			},
		},
		{
			name: "email taken",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "bad date of birth",
			req:  dto.RegisterRequest{Email: "ana@example.com", Password: "password", FirstName: "Ana", DateOfBirth: "31/12/1990"},
			setup: func(f *fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 400,
		},
		{
			name: "insert failure",
			req:  req,
			setup: func(f *fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errStore)
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.svc.Register(context.Background(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
