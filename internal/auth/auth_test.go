package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestIssueAndParse(t *testing.T) {
	v := NewVerifier(testSecret)

	token, err := v.Issue(42, "PROFESOR", time.Hour)
	require.NoError(t, err)

	id, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "PROFESOR", id.Role)
}

func TestParse_Rejects(t *testing.T) {
	v := NewVerifier(testSecret)

	expired, err := v.Issue(1, "", -time.Minute)
	require.NoError(t, err)

	foreign, err := NewVerifier("other-secret").Issue(1, "", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	textSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", expired, ErrTokenExpired},
		{"wrong secret", foreign, ErrTokenInvalid},
		{"missing subject", noSubject, ErrTokenInvalid},
		{"non numeric subject", textSubject, ErrTokenInvalid},
		{"garbage", "not-a-jwt", ErrTokenInvalid},
		{"empty", "", ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Parse(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
