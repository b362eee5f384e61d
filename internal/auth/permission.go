// Package auth decides who may do what. Permissions are flat (read, write,
// admin); admin implies every other permission and bypasses customer scoping.
package auth

import (
	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

// Principal is the authenticated caller.
type Principal struct {
	CustomerID  uuid.UUID
	Permissions []domain.Permission
}

// IsAdmin reports whether the principal holds admin.
func (p Principal) IsAdmin() bool {
	return holds(p.Permissions, domain.PermissionAdmin)
}

// grants is the single capability rule: required is held, or admin is held.
func grants(held []domain.Permission, required domain.Permission) bool {
	return holds(held, domain.PermissionAdmin) || holds(held, required)
}

func holds(held []domain.Permission, p domain.Permission) bool {
	for _, h := range held {
		if h == p {
			return true
		}
	}
	return false
}

// CheckPermission returns a permission-denied error naming required unless
// held grants it.
func CheckPermission(held []domain.Permission, required domain.Permission) error {
	if grants(held, required) {
		return nil
	}
	return domain.NewPermissionDenied(required, "permission "+string(required)+" required")
}

// CheckCustomerAccess allows admins everywhere and everyone else only within
// their own customer.
func CheckCustomerAccess(userCustomerID, requestedCustomerID uuid.UUID, held []domain.Permission) error {
	if holds(held, domain.PermissionAdmin) {
		return nil
	}
	if userCustomerID != requestedCustomerID {
		return domain.NewPermissionDenied("", "cannot access other customer's data")
	}
	return nil
}

// Authorize runs CheckPermission then CheckCustomerAccess for p.
func (p Principal) Authorize(required domain.Permission, customerID uuid.UUID) error {
	if err := CheckPermission(p.Permissions, required); err != nil {
		return err
	}
	return CheckCustomerAccess(p.CustomerID, customerID, p.Permissions)
}
