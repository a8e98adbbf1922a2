package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/constants"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	"schoolku_backend/internals/features/users/auth/dto"
	authModel "schoolku_backend/internals/features/users/auth/model"
	"schoolku_backend/internals/features/users/auth/service"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

type fakeGoogle struct {
	identity *service.GoogleIdentity
}

func (f fakeGoogle) Verify(string) (*service.GoogleIdentity, error) {
	if f.identity == nil {
		return nil, errors.New("bad token")
	}
	return f.identity, nil
}

func newAuth(t *testing.T, google service.GoogleVerifier) (*service.AuthService, *uow.Factory) {
	t.Helper()
	db := testkit.OpenDB(t,
		&deptModel.DepartmentModel{},
		&authModel.UserModel{}, &authModel.RoleModel{}, &authModel.UserRoleModel{},
		&studentModel.StudentModel{}, &studentModel.StudentDocumentModel{},
		&teacherModel.TeacherModel{},
	)
	f := testkit.Factory(db)

	u := f.New()
	for _, name := range constants.AllRoles {
		uow.Use[authModel.RoleModel, uint](u).Add(&authModel.RoleModel{Name: name, NormalizedName: authModel.NormalizeKey(name)})
	}
	_, err := u.Complete(context.Background(), "")
	require.NoError(t, err)

	tokens := newTokens(t, time.Now)
	return service.NewAuthService(f, tokens, google, zerolog.Nop()), f
}

func register(t *testing.T, svc *service.AuthService) *dto.UserResponse {
	t.Helper()
	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:           "Budi@Example.com",
		Password:        "rahasia123",
		ConfirmPassword: "rahasia123",
		FirstName:       "Budi",
		LastName:        "Santoso",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_AssignsStudentRole(t *testing.T) {
	svc, _ := newAuth(t, fakeGoogle{})
	user := register(t, svc)

	assert.Equal(t, []string{constants.RoleStudent}, user.Roles)
	assert.Equal(t, "Budi Santoso", user.FullName)

	me, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleStudent}, me.Roles)
}

func TestRegister_DuplicateEmailIsValidationError(t *testing.T) {
	svc, _ := newAuth(t, fakeGoogle{})
	register(t, svc)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:     "budi@example.COM",
		UserName:  "budi2",
		Password:  "rahasia123",
		FirstName: "Budi",
	})
	require.Error(t, err)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "email")
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuth(t, fakeGoogle{})
	register(t, svc)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "budi@example.com", Password: "salah"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestLoginRefreshLogout(t *testing.T) {
	svc, f := newAuth(t, fakeGoogle{})
	user := register(t, svc)
	ctx := context.Background()

	first, err := svc.Login(ctx, dto.LoginRequest{Email: "budi@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", first.TokenType)
	assert.NotEmpty(t, first.RefreshToken)

	second, err := svc.RefreshToken(ctx, dto.RefreshTokenRequest{AccessToken: first.AccessToken, RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// rotasi: refresh token lama tidak berlaku lagi
	_, err = svc.RefreshToken(ctx, dto.RefreshTokenRequest{AccessToken: first.AccessToken, RefreshToken: first.RefreshToken})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	require.NoError(t, svc.Logout(ctx, user.ID))
	stored, err := uow.Use[authModel.UserModel, string](f.New()).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshTokenHash)

	_, err = svc.RefreshToken(ctx, dto.RefreshTokenRequest{AccessToken: second.AccessToken, RefreshToken: second.RefreshToken})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuth(t, fakeGoogle{})
	user := register(t, svc)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "keliru", NewPassword: "baru12345"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "rahasia123", NewPassword: "baru12345"}))
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "budi@example.com", Password: "baru12345"})
	assert.NoError(t, err)
}

func TestLoginGoogle_ExistingAccountOnly(t *testing.T) {
	ctx := context.Background()

	svc, _ := newAuth(t, fakeGoogle{identity: &service.GoogleIdentity{Subject: "g-1", Email: "budi@example.com"}})
	register(t, svc)
	resp, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Budi@Example.com", resp.User.Email)

	stranger, _ := newAuth(t, fakeGoogle{identity: &service.GoogleIdentity{Subject: "g-2", Email: "orang@lain.com"}})
	_, err = stranger.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "x"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestCleanupExpiredRefreshTokens(t *testing.T) {
	svc, f := newAuth(t, fakeGoogle{})
	user := register(t, svc)
	ctx := context.Background()

	u := f.New()
	stored, err := uow.Use[authModel.UserModel, string](u).GetByID(ctx, user.ID)
	require.NoError(t, err)
	hash := "stale"
	past := time.Now().UTC().Add(-time.Hour)
	stored.RefreshTokenHash = &hash
	stored.RefreshTokenExpiryTime = &past
	uow.Use[authModel.UserModel, string](u).Update(stored)
	_, err = u.Complete(ctx, "")
	require.NoError(t, err)

	n, err := svc.CleanupExpiredRefreshTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.CleanupExpiredRefreshTokens(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
