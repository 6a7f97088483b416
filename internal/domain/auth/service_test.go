package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
)

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", Issuer: "lifesure"}, newTestLogger())

	token, err := svc.IssueToken(context.Background(), IssueRequest{
		UserID: "u-42",
		Email:  "Agent@Example.com",
		Role:   RoleAgent,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "u-42", claims.UserID)
	require.Equal(t, "agent@example.com", claims.Email)
	require.Equal(t, RoleAgent, claims.Role)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestService_RejectsBadTokens(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", Issuer: "lifesure"}, newTestLogger())
	other := NewService(Config{Secret: "other-secret", Issuer: "lifesure"}, newTestLogger())
	wrongIssuer := NewService(Config{Secret: "test-secret", Issuer: "someone-else"}, newTestLogger())

	forged, err := other.IssueToken(context.Background(), IssueRequest{UserID: "u-1", Role: RoleAdmin})
	require.NoError(t, err)
	foreign, err := wrongIssuer.IssueToken(context.Background(), IssueRequest{UserID: "u-1"})
	require.NoError(t, err)
	fallbackTTL, err := svc.IssueToken(context.Background(), IssueRequest{UserID: "u-1", TTL: -time.Minute})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "  ",
		"garbage":      "not-a-jwt",
		"wrong secret": forged,
		"wrong issuer": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), token)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
		})
	}

	// a negative TTL falls back to the configured one
	_, err = svc.ValidateToken(context.Background(), fallbackTTL)
	require.NoError(t, err)
}

func TestService_RejectsExpiredToken(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret"}, newTestLogger()).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.IssueToken(context.Background(), IssueRequest{UserID: "u-1", TTL: time.Hour})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestService_RejectsMissingSubjectAndAlgNone(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret"}, newTestLogger())

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := noSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), raw)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestParseRole(t *testing.T) {
	require.Equal(t, RoleAdmin, ParseRole(" ADMIN "))
	require.Equal(t, RoleAgent, ParseRole("agent"))
	require.Equal(t, RoleCustomer, ParseRole("customer"))
	require.Equal(t, RoleCustomer, ParseRole("superuser"))
	require.Equal(t, RoleCustomer, ParseRole(""))
}

func TestIssueTokenRequiresUser(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret"}, newTestLogger())
	_, err := svc.IssueToken(context.Background(), IssueRequest{UserID: " "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
