package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

const testIssuer = "coldchain-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenIssuer_RoundTrip(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer(testSecret, testIssuer, clock)
	customer := uuid.New()

	req, err := query.NewTokenRequest(customer, []string{"read", "write"}, 2)
	require.NoError(t, err)

	tok, err := issuer.Issue(req)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(2*time.Hour).UTC(), tok.ExpiresAt)

	p, err := issuer.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, customer, p.CustomerID)
	assert.Equal(t, []domain.Permission{domain.PermissionRead, domain.PermissionWrite}, p.Permissions)
}

func TestTokenIssuer_Expired(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer(testSecret, testIssuer, clock)

	req, err := query.NewTokenRequest(uuid.New(), nil, 1)
	require.NoError(t, err)
	tok, err := issuer.Issue(req)
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	_, err = issuer.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, testIssuer, nil)
	req, err := query.NewTokenRequest(uuid.New(), nil, 1)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer([]byte("another-secret-another-secret!!"), testIssuer, nil)
		tok, err := other.Issue(req)
		require.NoError(t, err)
		_, err = issuer.Verify(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenIssuer(testSecret, "someone-else", nil)
		tok, err := other.Issue(req)
		require.NoError(t, err)
		_, err = issuer.Verify(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown permission", func(t *testing.T) {
		claims := tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    testIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			CustomerID:  uuid.NewString(),
			Permissions: []string{"root"},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = issuer.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
