package utils

import (
	"errors"
	"testing"
	"time"

	"hiredesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-key-for-jwt-signing-at-least-32-bytes-long")

func sign(t *testing.T, claims models.UploadClaims) string {
	t.Helper()
	token, err := CreateUploadToken(&claims, secret)
	require.NoError(t, err)
	return token
}

func TestUploadTokenRoundTrip(t *testing.T) {
	now := time.Now().Unix()
	token := sign(t, models.UploadClaims{
		Issuer: "hiredesk-web", Subject: "candidate-7",
		IssuedAt: now, ExpiresAt: now + 300, Backend: "assethost",
	})

	claims, err := VerifyUploadToken(token, VerifyConfig{SecretKey: secret, ExpectedIssuer: "hiredesk-web"})
	require.NoError(t, err)
	assert.Equal(t, "candidate-7", claims.Subject)
	assert.Equal(t, "assethost", claims.Backend)
}

func TestVerifyUploadTokenFailures(t *testing.T) {
	now := time.Now().Unix()

	cases := []struct {
		name   string
		token  string
		config VerifyConfig
		want   error
	}{
		{"empty", "", VerifyConfig{SecretKey: secret}, ErrInvalidToken},
		{"garbage", "not.a.jwt", VerifyConfig{SecretKey: secret}, ErrInvalidToken},
		{"wrong secret", sign(t, models.UploadClaims{Subject: "u"}), VerifyConfig{SecretKey: []byte("another-secret-another-secret-xx")}, ErrInvalidSignature},
		{"expired", sign(t, models.UploadClaims{Subject: "u", ExpiresAt: now - 60}), VerifyConfig{SecretKey: secret}, ErrTokenExpired},
		{"future", sign(t, models.UploadClaims{Subject: "u", IssuedAt: now + 3600}), VerifyConfig{SecretKey: secret}, ErrTokenNotYetValid},
		{"issuer", sign(t, models.UploadClaims{Subject: "u", Issuer: "other"}), VerifyConfig{SecretKey: secret, ExpectedIssuer: "hiredesk-web"}, ErrInvalidIssuer},
		{"no subject", sign(t, models.UploadClaims{}), VerifyConfig{SecretKey: secret}, ErrMissingSubject},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyUploadToken(tc.token, tc.config)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestClockSkew(t *testing.T) {
	token := sign(t, models.UploadClaims{Subject: "u", ExpiresAt: time.Now().Unix() - 30})
	_, err := VerifyUploadToken(token, VerifyConfig{SecretKey: secret, ClockSkew: time.Minute})
	assert.NoError(t, err)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = BearerToken("bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer "} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrInvalidToken, h)
	}
}

func TestCreateUploadTokenRequiresSecret(t *testing.T) {
	_, err := CreateUploadToken(&models.UploadClaims{Subject: "u"}, nil)
	assert.Error(t, err)
	_, err = CreateUploadToken(nil, secret)
	assert.Error(t, err)
}
