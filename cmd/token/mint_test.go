package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type codeLookup map[string]domain.Customer

func (l codeLookup) GetCustomerByCode(_ context.Context, code string) (domain.Customer, error) {
	c, ok := l[code]
	if !ok {
		return domain.Customer{}, domain.NewNotFound("customer", code)
	}
	return c, nil
}

func newIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "coldchain-test", clockwork.NewFakeClockAt(testNow))
}

func TestMint_AdminByCode(t *testing.T) {
	issuer := newIssuer()
	acme := domain.Customer{ID: uuid.New(), CustomerCode: "A", IsActive: true}
	lookup := codeLookup{"A": acme}

	tok, err := mint(context.Background(), issuer, lookup, mintOptions{
		customerCode: "A",
		permissions:  []string{"admin"},
		expiresHours: 720,
	})
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(720*time.Hour), tok.ExpiresAt)

	p, err := issuer.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, p.CustomerID)
	assert.True(t, p.IsAdmin())
}

func TestMint_ByID(t *testing.T) {
	issuer := newIssuer()
	id := uuid.New()

	tok, err := mint(context.Background(), issuer, nil, mintOptions{
		customerID:   id.String(),
		permissions:  []string{"read", "write"},
		expiresHours: 1,
	})
	require.NoError(t, err)
	p, err := issuer.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, id, p.CustomerID)
	assert.Equal(t, []domain.Permission{domain.PermissionRead, domain.PermissionWrite}, p.Permissions)
}

func TestMint_Rejections(t *testing.T) {
	lookup := codeLookup{"B": {ID: uuid.New(), CustomerCode: "B"}}

	tests := []struct {
		name string
		opts mintOptions
		want error
	}{
		{name: "no customer", opts: mintOptions{expiresHours: 1}},
		{name: "both customer flags", opts: mintOptions{customerCode: "A", customerID: uuid.NewString(), expiresHours: 1}},
		{name: "bad uuid", opts: mintOptions{customerID: "nope", expiresHours: 1}, want: domain.ErrValidation},
		{name: "unknown code", opts: mintOptions{customerCode: "Z", expiresHours: 1}, want: domain.ErrNotFound},
		{name: "inactive customer", opts: mintOptions{customerCode: "B", expiresHours: 1}, want: domain.ErrValidation},
		{name: "zero hours", opts: mintOptions{customerID: uuid.NewString(), expiresHours: 0}, want: domain.ErrValidation},
		{name: "unknown permission", opts: mintOptions{customerID: uuid.NewString(), permissions: []string{"root"}, expiresHours: 1}, want: domain.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mint(context.Background(), newIssuer(), lookup, tc.opts)
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
