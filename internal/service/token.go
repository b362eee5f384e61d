package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

type TokenService struct {
	issuer *auth.TokenIssuer
	guard  guard
	log    zerolog.Logger
}

// Issue signs a bearer token for req. Only admins may issue tokens.
func (s *TokenService) Issue(_ context.Context, p auth.Principal, req query.TokenRequest) (auth.IssuedToken, error) {
	if err := s.guard.permission(p, domain.PermissionAdmin); err != nil {
		return auth.IssuedToken{}, err
	}
	tok, err := s.issuer.Issue(req)
	if err != nil {
		return auth.IssuedToken{}, err
	}

	perms := make([]string, 0, len(req.Permissions()))
	for _, perm := range req.Permissions() {
		perms = append(perms, string(perm))
	}
	s.log.Info().
		Str("customer_id", req.CustomerID().String()).
		Strs("permissions", perms).
		Time("expires_at", tok.ExpiresAt).
		Msg("token issued")
	return tok, nil
}
