package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

type CustomerService struct {
	store CustomerStore
	guard guard
	log   zerolog.Logger
}

// Profile returns the caller's own customer record.
func (s *CustomerService) Profile(ctx context.Context, p auth.Principal) (domain.Customer, error) {
	if err := s.guard.permission(p, domain.PermissionRead); err != nil {
		return domain.Customer{}, err
	}
	return s.store.GetCustomer(ctx, p.CustomerID)
}

// List returns every customer. Admin only.
func (s *CustomerService) List(ctx context.Context, p auth.Principal) ([]domain.Customer, error) {
	if err := s.guard.permission(p, domain.PermissionAdmin); err != nil {
		return nil, err
	}
	return s.store.ListCustomers(ctx)
}

// Create adds a customer. Admin only; customer codes are unique.
func (s *CustomerService) Create(ctx context.Context, p auth.Principal, code, name string) (domain.Customer, error) {
	if err := s.guard.permission(p, domain.PermissionAdmin); err != nil {
		return domain.Customer{}, err
	}
	c, err := domain.NewCustomer(code, name)
	if err != nil {
		return domain.Customer{}, err
	}
	_, err = s.store.GetCustomerByCode(ctx, code)
	switch {
	case err == nil:
		return domain.Customer{}, domain.NewConflict("customer_code", "customer %q already exists", code)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Customer{}, err
	}
	if err := s.store.InsertCustomer(ctx, c); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info().Str("customer_id", c.ID.String()).Str("customer_code", code).Msg("customer created")
	return c, nil
}
