package jwtauth

import (
	"context"
	"testing"
	"time"

	"task-buddy/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newTestVerifier(issuer string) *Verifier {
	v := NewVerifier("s3cret", issuer)
	v.now = func() time.Time { return now }
	return v
}

func TestVerify_ValidToken(t *testing.T) {
	tok, err := Sign("s3cret", "task-buddy", "user-1", time.Hour, now)
	require.NoError(t, err)

	claims, err := newTestVerifier("task-buddy").Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestVerify_Rejects(t *testing.T) {
	ctx := context.Background()
	v := newTestVerifier("task-buddy")

	badSig, err := Sign("other", "task-buddy", "user-1", time.Hour, now)
	require.NoError(t, err)

	expired, err := Sign("s3cret", "task-buddy", "user-1", time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)

	wrongIssuer, err := Sign("s3cret", "someone-else", "user-1", time.Hour, now)
	require.NoError(t, err)

	noSub, err := Sign("s3cret", "task-buddy", "", time.Hour, now)
	require.NoError(t, err)

	// mismo secreto pero otro algoritmo
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "user-1", Issuer: "task-buddy", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "  ",
		"garbage":      "not-a-jwt",
		"bad sig":      badSig,
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"no sub":       noSub,
		"hs512":        hs512,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(ctx, tok)
			assert.Error(t, err)
		})
	}

	_, err = v.Verify(ctx, noSub)
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = v.Verify(ctx, badSig)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_IssuerOptional(t *testing.T) {
	tok, err := Sign("s3cret", "anyone", "user-2", time.Hour, now)
	require.NoError(t, err)

	claims, err := newTestVerifier("").Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
}
