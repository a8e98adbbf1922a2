package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/users/users/dto"
	"schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/testkit"
)

var firstPage = helper.Paging{Page: 1, PerPage: 20, Limit: 20}

func newService(t *testing.T) (*service.UserAdminService, *testkit.Fixture) {
	t.Helper()
	fx := testkit.NewFixture(t)
	fx.Roles()
	return service.NewUserAdminService(fx.F, zerolog.Nop()), fx
}

func TestGrantAndRevokeRole(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	user := fx.User()

	resp, err := svc.GrantRole(ctx, "admin", user.ID, dto.RoleRequest{Role: constants.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleTeacher}, resp.Roles)

	// granting twice keeps a single link
	resp, err = svc.GrantRole(ctx, "admin", user.ID, dto.RoleRequest{Role: constants.RoleTeacher})
	require.NoError(t, err)
	assert.Len(t, resp.Roles, 1)

	resp, err = svc.RevokeRole(ctx, "admin", user.ID, dto.RoleRequest{Role: constants.RoleTeacher})
	require.NoError(t, err)
	assert.Empty(t, resp.Roles)

	_, err = svc.RevokeRole(ctx, "admin", user.ID, dto.RoleRequest{Role: constants.RoleTeacher})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	_, err = svc.GrantRole(ctx, "admin", user.ID, dto.RoleRequest{Role: "Janitor"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRevokeOwnAdminRejected(t *testing.T) {
	svc, fx := newService(t)
	admin := fx.User()
	fx.Grant(admin.ID, constants.RoleAdmin)

	_, err := svc.RevokeRole(context.Background(), admin.ID, admin.ID, dto.RoleRequest{Role: constants.RoleAdmin})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestDeactivateAndRestore(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	admin, user := fx.User(), fx.User()

	require.Error(t, svc.Deactivate(ctx, admin.ID, admin.ID))
	require.NoError(t, svc.Deactivate(ctx, admin.ID, user.ID))

	items, total, err := svc.List(ctx, firstPage, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, admin.ID, items[0].ID)

	_, total, err = svc.List(ctx, firstPage, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.NotNil(t, got.DeletedDate)

	restored, err := svc.Restore(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
	assert.Nil(t, restored.DeletedDate)

	_, err = svc.Restore(ctx, admin.ID, user.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestListSearch(t *testing.T) {
	svc, fx := newService(t)
	target := fx.User()
	fx.User()

	p := firstPage
	p.Search = target.Email
	items, total, err := svc.List(context.Background(), p, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, target.Email, items[0].Email)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
