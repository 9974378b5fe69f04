package dto

import (
	"strings"
	"time"

	"condo/infras/jwt"
	userModel "condo/internal/domains/user/model"
	"condo/shared/constant"
	gModel "condo/shared/model"
	"condo/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string `json:"email"                   validate:"required,email,max=100"`
	Password    string `json:"password"                validate:"required,min=8"`
	FirstName   string `json:"first_name"              validate:"required,max=100"`
	LastName    string `json:"last_name"               validate:"omitempty,max=100"`
	Phone       string `json:"phone"                   validate:"omitempty,max=20"`
	DateOfBirth string `json:"date_of_birth,omitempty" validate:"omitempty,datekey"`
}

func (r *RegisterRequest) ToUserModel(username string, hashedPassword string) (userModel.User, error) {
	user := userModel.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Password:  hashedPassword,
		Role:      constant.RoleUser,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		IsActive:  true,
		Metadata:  gModel.NewMetadata(username, timezone.Now()),
	}

	if r.DateOfBirth != constant.Empty {
		dob, err := timezone.ParseDateKey(r.DateOfBirth, nil)
		if err != nil {
			return userModel.User{}, err //nolint:wrapcheck
		}

		user.DateOfBirth = &dob
	}

	return user, nil
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Role         string `json:"role"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

// LogoutRequest optionally carries the refresh token to retire alongside the access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
