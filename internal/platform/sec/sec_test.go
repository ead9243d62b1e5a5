// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func clock() time.Time { return fixedNow }

/*
TestTokenInspector_Verified checks signature and expiry handling with a shared secret.
*/
func TestTokenInspector_Verified(t *testing.T) {
	inspector := sec.NewTokenInspector("s3cret").WithClock(clock)
	require.True(t, inspector.Verifies())

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"missing", "", sec.MsgTokenMissing},
		{"garbage", "not.a.jwt", sec.MsgTokenInvalid},
		{"wrong_secret", signToken(t, "other", fixedNow.Add(time.Hour)), sec.MsgTokenInvalid},
		{"expired", signToken(t, "s3cret", fixedNow.Add(-time.Hour)), sec.MsgTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inspector.Inspect(tt.token)
			require.Error(t, err)
			assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	t.Run("valid", func(t *testing.T) {
		claims, err := inspector.Inspect(signToken(t, "s3cret", fixedNow.Add(time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Who())
		assert.True(t, fixedNow.Add(time.Hour).Equal(claims.Expiry()))
	})
}

/*
TestTokenInspector_Unverified trusts any signature but still enforces expiry.
*/
func TestTokenInspector_Unverified(t *testing.T) {
	inspector := sec.NewTokenInspector("").WithClock(clock)
	require.False(t, inspector.Verifies())

	claims, err := inspector.Inspect(signToken(t, "whatever", fixedNow.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Who())

	_, err = inspector.Inspect(signToken(t, "whatever", fixedNow.Add(-time.Minute)))
	require.Error(t, err)
	assert.Equal(t, sec.MsgTokenExpired, err.Error())
}

/*
TestAuthClaims_Who falls back from username to name to subject.
*/
func TestAuthClaims_Who(t *testing.T) {
	claims := &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "7"}}
	assert.Equal(t, "7", claims.Who())

	claims.Name = "Ada"
	assert.Equal(t, "Ada", claims.Who())
	assert.True(t, claims.Expiry().IsZero())
}

/*
TestSessionTokens checks token entropy and hashing.
*/
func TestSessionTokens(t *testing.T) {
	first, err := sec.GenerateSecureToken()
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, first, sec.HashToken(first))
	assert.Len(t, sec.HashToken("x"), 64)
}

/*
TestSessionTTL caps the gateway session at the backend token expiry.
*/
func TestSessionTTL(t *testing.T) {
	assert.Equal(t, 12*time.Hour, sec.SessionTTL(fixedNow, 12*time.Hour, time.Time{}))
	assert.Equal(t, time.Hour, sec.SessionTTL(fixedNow, 12*time.Hour, fixedNow.Add(time.Hour)))
	assert.Equal(t, 12*time.Hour, sec.SessionTTL(fixedNow, 12*time.Hour, fixedNow.Add(48*time.Hour)))
	assert.True(t, sec.SessionTTL(fixedNow, time.Hour, fixedNow.Add(-time.Minute)) <= 0)

	session := &sec.Session{ExpiresAt: fixedNow}
	assert.True(t, session.Expired(fixedNow))
	assert.False(t, session.Expired(fixedNow.Add(-time.Second)))
	assert.False(t, (&sec.Session{}).Expired(fixedNow))
}
