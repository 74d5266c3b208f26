package auth

import (
	"testing"
	"time"

	"mandira-backend/internal/config"
	"mandira-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTKey:      "test-key-test-key-test-key-test-key",
		JWTIssuer:   "mandira-backend",
		JWTAudience: "mandira-clients",
	}
}

func testUser() *models.User {
	branchID := uint(3)
	return &models.User{
		Name:     "ayşe",
		Email:    "ayse@mandira.local",
		Role:     models.RoleBranchAdmin,
		BranchID: &branchID,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := testUser()
	user.ID = 7

	tokenStr, err := GenerateToken(cfg, user)
	require.NoError(t, err)

	claims, err := ParseToken(cfg, tokenStr)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ayse@mandira.local", claims.Email)
	assert.Equal(t, models.RoleBranchAdmin, claims.Role)
	require.NotNil(t, claims.BranchID)
	assert.Equal(t, uint(3), *claims.BranchID)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	cfg := testConfig()
	tokenStr, err := GenerateToken(cfg, testUser())
	require.NoError(t, err)

	other := testConfig()
	other.JWTKey = "another-key-another-key-another-key"
	_, err = ParseToken(other, tokenStr)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testConfig()
	tokenStr, err := GenerateToken(cfg, testUser())
	require.NoError(t, err)

	other := testConfig()
	other.JWTIssuer = "baska-servis"
	_, err = ParseToken(other, tokenStr)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := testConfig()

	claims := &JWTCustomClaims{
		UserID: 1,
		Email:  "admin@mandira.local",
		Role:   models.RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{cfg.JWTAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTKey))
	require.NoError(t, err)

	_, err = ParseToken(cfg, tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	cfg := testConfig()

	claims := &JWTCustomClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{cfg.JWTAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(cfg, tokenStr)
	assert.Error(t, err)
}
