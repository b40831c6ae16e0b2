package authorization

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestAuthorization(t *testing.T) Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)

	return NewService(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Enforcer: enforcer,
	})
}

func TestAuthorizeAdminRolesAccessAdminArea(t *testing.T) {
	svc := newTestAuthorization(t)
	ctx := context.Background()

	orgAdmin := identitydomain.Actor{Key: "u-1", Authenticated: true, Role: identitydomain.RoleOrgAdmin}
	require.NoError(t, svc.Authorize(ctx, orgAdmin, ObjectAdminArea, ActionAdminAreaAccess))

	superAdmin := identitydomain.Actor{Key: "u-2", Authenticated: true, Role: identitydomain.RoleSuperAdmin}
	require.NoError(t, svc.Authorize(ctx, superAdmin, ObjectAdminArea, ActionAdminAreaAccess))
}

func TestAuthorizeCustomerDeniedAdminArea(t *testing.T) {
	svc := newTestAuthorization(t)

	customer := identitydomain.Actor{Key: "u-3", Authenticated: true, Role: identitydomain.RoleCustomer}
	err := svc.Authorize(context.Background(), customer, ObjectAdminArea, ActionAdminAreaAccess)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeFollowsRoleSwitch(t *testing.T) {
	svc := newTestAuthorization(t)
	ctx := context.Background()

	actor := identitydomain.Actor{Key: "u-4", Authenticated: true, Role: identitydomain.RoleCustomer, Demo: true}
	require.ErrorIs(t, svc.Authorize(ctx, actor, ObjectAdminArea, ActionAdminAreaAccess), ErrForbidden)

	actor.Role = identitydomain.RoleOrgAdmin
	require.NoError(t, svc.Authorize(ctx, actor, ObjectAdminArea, ActionAdminAreaAccess))

	actor.Role = identitydomain.RoleCustomer
	require.ErrorIs(t, svc.Authorize(ctx, actor, ObjectAdminArea, ActionAdminAreaAccess), ErrForbidden)
}

func TestAuthorizeRejectsAnonymousActor(t *testing.T) {
	svc := newTestAuthorization(t)

	err := svc.Authorize(context.Background(), identitydomain.Anonymous, ObjectAdminArea, ActionAdminAreaAccess)
	assert.ErrorIs(t, err, ErrInvalidActor)
}

func TestAuthorizeValidatesObjectAndAction(t *testing.T) {
	svc := newTestAuthorization(t)
	ctx := context.Background()
	actor := identitydomain.Actor{Key: "u-5", Authenticated: true, Role: identitydomain.RoleSuperAdmin}

	assert.ErrorIs(t, svc.Authorize(ctx, actor, " ", ActionAdminAreaAccess), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, actor, ObjectAdminArea, ""), ErrInvalidAction)
}

func TestModePolicyEditRequiresSuperAdmin(t *testing.T) {
	svc := newTestAuthorization(t)
	ctx := context.Background()

	orgAdmin := identitydomain.Actor{Key: "u-6", Authenticated: true, Role: identitydomain.RoleOrgAdmin}
	assert.ErrorIs(t, svc.Authorize(ctx, orgAdmin, ObjectModePolicy, ActionModePolicyEdit), ErrForbidden)

	superAdmin := identitydomain.Actor{Key: "u-7", Authenticated: true, Role: identitydomain.RoleSuperAdmin}
	assert.NoError(t, svc.Authorize(ctx, superAdmin, ObjectModePolicy, ActionModePolicyEdit))
}
