package query

import (
	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

const (
	DefaultExpiresHours = 24
	MinExpiresHours     = 1
	MaxExpiresHours     = 8760
)

// TokenRequest asks the credential issuer for a token scoped to one customer.
type TokenRequest struct {
	customerID   uuid.UUID
	permissions  []domain.Permission
	expiresHours int
}

// NewTokenRequest validates the customer, the permission vocabulary and the
// expiry. Empty permissions default to read. Callers substitute
// DefaultExpiresHours when the client omitted the field.
func NewTokenRequest(customerID uuid.UUID, permissions []string, expiresHours int) (TokenRequest, error) {
	if customerID == uuid.Nil {
		return TokenRequest{}, domain.NewValidationError("customer_id", "customer id is required")
	}
	if expiresHours < MinExpiresHours {
		return TokenRequest{}, domain.NewValidationError("expires_hours", "must be at least %d, got %d", MinExpiresHours, expiresHours)
	}
	if expiresHours > MaxExpiresHours {
		return TokenRequest{}, domain.NewValidationError("expires_hours", "must be at most %d, got %d", MaxExpiresHours, expiresHours)
	}
	if len(permissions) == 0 {
		permissions = []string{string(domain.PermissionRead)}
	}
	perms := make([]domain.Permission, 0, len(permissions))
	for _, s := range permissions {
		p, err := domain.ParsePermission(s)
		if err != nil {
			return TokenRequest{}, err
		}
		perms = append(perms, p)
	}
	return TokenRequest{customerID: customerID, permissions: perms, expiresHours: expiresHours}, nil
}

func (r TokenRequest) CustomerID() uuid.UUID { return r.customerID }
func (r TokenRequest) ExpiresHours() int     { return r.expiresHours }

// Permissions returns a copy in request order.
func (r TokenRequest) Permissions() []domain.Permission {
	return append([]domain.Permission(nil), r.permissions...)
}
