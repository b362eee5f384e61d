package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

var (
	readOnly  = []domain.Permission{domain.PermissionRead}
	writeOnly = []domain.Permission{domain.PermissionWrite}
	adminOnly = []domain.Permission{domain.PermissionAdmin}
	allPerms  = []domain.Permission{domain.PermissionRead, domain.PermissionWrite, domain.PermissionAdmin}
)

func TestCheckPermission(t *testing.T) {
	for _, required := range allPerms {
		assert.NoError(t, CheckPermission(adminOnly, required), "admin implies %s", required)
	}

	assert.NoError(t, CheckPermission(writeOnly, domain.PermissionWrite))
	assert.NoError(t, CheckPermission(readOnly, domain.PermissionRead))

	err := CheckPermission(readOnly, domain.PermissionWrite)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.PermissionWrite, derr.Permission)

	assert.ErrorIs(t, CheckPermission(nil, domain.PermissionRead), domain.ErrPermissionDenied)
	assert.ErrorIs(t, CheckPermission(readOnly, domain.PermissionAdmin), domain.ErrPermissionDenied)
}

func TestCheckPermission_DuplicatesIrrelevant(t *testing.T) {
	held := []domain.Permission{domain.PermissionRead, domain.PermissionRead}
	assert.NoError(t, CheckPermission(held, domain.PermissionRead))
	assert.Error(t, CheckPermission(held, domain.PermissionWrite))
}

func TestCheckCustomerAccess(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	err := CheckCustomerAccess(a, b, readOnly)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Contains(t, err.Error(), "other customer")

	assert.NoError(t, CheckCustomerAccess(a, a, readOnly))
	assert.NoError(t, CheckCustomerAccess(a, b, adminOnly), "admin bypasses scoping")
	assert.NoError(t, CheckCustomerAccess(a, b, []domain.Permission{domain.PermissionRead, domain.PermissionAdmin}))
}

func TestPrincipalAuthorize(t *testing.T) {
	own, other := uuid.New(), uuid.New()
	reader := Principal{CustomerID: own, Permissions: readOnly}

	assert.NoError(t, reader.Authorize(domain.PermissionRead, own))
	assert.ErrorIs(t, reader.Authorize(domain.PermissionWrite, own), domain.ErrPermissionDenied)
	assert.ErrorIs(t, reader.Authorize(domain.PermissionRead, other), domain.ErrPermissionDenied)
	assert.False(t, reader.IsAdmin())

	admin := Principal{CustomerID: own, Permissions: adminOnly}
	assert.True(t, admin.IsAdmin())
	assert.NoError(t, admin.Authorize(domain.PermissionWrite, other))
}
