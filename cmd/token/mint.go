package main

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

type customerLookup interface {
	GetCustomerByCode(ctx context.Context, code string) (domain.Customer, error)
}

type mintOptions struct {
	customerCode string
	customerID   string
	permissions  []string
	expiresHours int
}

// resolveCustomer takes the customer from an explicit UUID, or looks its code
// up when only a code is given.
func resolveCustomer(ctx context.Context, lookup customerLookup, opts mintOptions) (uuid.UUID, error) {
	switch {
	case opts.customerID != "" && opts.customerCode != "":
		return uuid.Nil, errors.New("use either --customer or --customer-id, not both")
	case opts.customerID != "":
		id, err := uuid.Parse(opts.customerID)
		if err != nil {
			return uuid.Nil, domain.NewValidationError("customer_id", "not a valid uuid")
		}
		return id, nil
	case opts.customerCode != "":
		if lookup == nil {
			return uuid.Nil, errors.New("customer lookup requires a database")
		}
		c, err := lookup.GetCustomerByCode(ctx, opts.customerCode)
		if err != nil {
			return uuid.Nil, err
		}
		if !c.IsActive {
			return uuid.Nil, domain.NewValidationError("customer_code", "customer %q is inactive", opts.customerCode)
		}
		return c.ID, nil
	default:
		return uuid.Nil, errors.New("one of --customer or --customer-id is required")
	}
}

func mint(ctx context.Context, issuer *auth.TokenIssuer, lookup customerLookup, opts mintOptions) (auth.IssuedToken, error) {
	id, err := resolveCustomer(ctx, lookup, opts)
	if err != nil {
		return auth.IssuedToken{}, err
	}
	req, err := query.NewTokenRequest(id, opts.permissions, opts.expiresHours)
	if err != nil {
		return auth.IssuedToken{}, err
	}
	return issuer.Issue(req)
}
