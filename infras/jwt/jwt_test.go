package jwt_test

import (
	"testing"

	"condo/config"
	"condo/infras/jwt"
	"condo/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "condo"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

func TestGenerateAndValidate(t *testing.T) {
	svc := jwt.New(testConfig())

	pair, err := svc.GenerateTokenPair("user-1", "ana@condo.test", constant.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, constant.RoleStaff, claims.Role)
	assert.Equal(t, claims.ID, claims.TokenID)

	refresh, err := svc.ValidateToken(pair.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, claims.TokenID, refresh.TokenID)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := jwt.New(testConfig())

	pair, err := svc.GenerateTokenPair("user-1", "ana@condo.test", constant.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "access token signed with the access secret")

	_, err = svc.ValidateToken("garbage", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	otherCfg := testConfig()
	otherCfg.App.Name = "another-app"

	_, err = jwt.New(otherCfg).ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "issuer mismatch")

	_, err = svc.ValidateToken(pair.AccessToken, jwt.TokenType("session"))
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessExpireMin = -5

	svc := jwt.New(cfg)

	pair, err := svc.GenerateTokenPair("user-1", "ana@condo.test", constant.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer   "} {
		_, err = jwt.ExtractTokenFromHeader(header)
		assert.Error(t, err, header)
	}
}
