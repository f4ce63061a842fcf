package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "internhub.app",
	})
}

func TestGenerateTokenPairRoundTrip(t *testing.T) {
	svc := testService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(7, "PERSON", "Max Mustermann", "STUDENT")
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, int((720 * time.Hour).Seconds()), refreshExpiresIn)

	// The refresh token is opaque, not a JWT.
	_, err = uuid.Parse(refreshToken)
	assert.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.SubjectID)
	assert.Equal(t, "PERSON", claims.SubjectType)
	assert.Equal(t, "Max Mustermann", claims.Name)
	assert.Equal(t, "STUDENT", claims.Role)
	assert.Equal(t, "internhub.app", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := testService(-time.Minute)

	accessToken, _, _, _, err := svc.GenerateTokenPair(7, "PERSON", "Max", "STUDENT")
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	accessToken, _, _, _, err := testService(time.Hour).GenerateTokenPair(7, "PERSON", "Max", "STUDENT")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestEmailVerificationTokenRoundTrip(t *testing.T) {
	svc := testService(time.Hour)

	token, err := svc.GenerateEmailVerificationToken(5, "jobs@acme.example")
	require.NoError(t, err)

	companyID, err := svc.ValidateEmailVerificationToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), companyID)
}

func TestEmailVerificationRejectsAccessToken(t *testing.T) {
	svc := testService(time.Hour)

	// An access token lacks the purpose claim and must not verify an email.
	accessToken, _, _, _, err := svc.GenerateTokenPair(5, "COMPANY", "Acme", "")
	require.NoError(t, err)

	_, err = svc.ValidateEmailVerificationToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestValidateAndExtractClaimsRejectsEmptySubject(t *testing.T) {
	svc := testService(time.Hour)

	accessToken, _, _, _, err := svc.GenerateTokenPair(0, "", "", "")
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
