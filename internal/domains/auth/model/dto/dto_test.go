package dto_test

import (
	"testing"

	"condo/infras/jwt"
	"condo/internal/domains/auth/model/dto"
	"condo/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		Email:       " Guest@Condo.Test ",
		FirstName:   "Ana",
		LastName:    "Reyes",
		DateOfBirth: "1994-02-11",
	}

	user, err := req.ToUserModel(constant.ContextGuest, "hashed")
	require.NoError(t, err)

	assert.Equal(t, "guest@condo.test", user.Email)
	assert.Equal(t, constant.RoleUser, user.Role)
	assert.Equal(t, "hashed", user.Password)
	assert.True(t, user.IsActive)
	require.NotNil(t, user.DateOfBirth)
	assert.Equal(t, "1994-02-11", user.DateOfBirth.Format(constant.DateKeyFormat))

	req.DateOfBirth = "11/02/1994"
	_, err = req.ToUserModel(constant.ContextGuest, "hashed")
	assert.Error(t, err)
}
