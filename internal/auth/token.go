package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

// ErrInvalidToken covers every way a bearer token can fail verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// IssuedToken is a signed credential and its expiry.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	CustomerID  string   `json:"customer_id"`
	Permissions []string `json:"permissions"`
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	clock  clockwork.Clock
}

func NewTokenIssuer(secret []byte, issuer string, clock clockwork.Clock) *TokenIssuer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenIssuer{secret: secret, issuer: issuer, clock: clock}
}

// Issue signs a token carrying the request's customer and permissions.
func (i *TokenIssuer) Issue(req query.TokenRequest) (IssuedToken, error) {
	now := i.clock.Now().UTC()
	exp := now.Add(time.Duration(req.ExpiresHours()) * time.Hour)

	perms := req.Permissions()
	names := make([]string, len(perms))
	for n, p := range perms {
		names[n] = string(p)
	}

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   req.CustomerID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		CustomerID:  req.CustomerID().String(),
		Permissions: names,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{Token: signed, ExpiresAt: exp}, nil
}

// Verify checks signature, issuer and expiry and returns the caller.
func (i *TokenIssuer) Verify(token string) (Principal, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	customerID, err := uuid.Parse(claims.CustomerID)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: bad customer_id", ErrInvalidToken)
	}
	perms := make([]domain.Permission, 0, len(claims.Permissions))
	for _, s := range claims.Permissions {
		p, err := domain.ParsePermission(s)
		if err != nil {
			return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		perms = append(perms, p)
	}
	return Principal{CustomerID: customerID, Permissions: perms}, nil
}
