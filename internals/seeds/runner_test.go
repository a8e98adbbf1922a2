package seeds_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/constants"
	classModel "schoolku_backend/internals/features/school/classes/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	"schoolku_backend/internals/persistence/seed"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/seeds"
	"schoolku_backend/internals/testkit"
)

var admin = seeds.Admin{Email: "admin@schoolku.test", Password: "Admin@12345"}

func count[T any](t *testing.T, f *uow.Factory) int64 {
	t.Helper()
	n, err := uow.Use[T, uint](f.New()).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestRunAllSeeds_Idempotent(t *testing.T) {
	fx := testkit.NewFixture(t)
	require.NoError(t, seed.Migrate(fx.DB))
	ctx := context.Background()

	ran, err := seeds.RunAllSeeds(ctx, fx.F, admin, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, ran)

	students := count[studentModel.StudentModel](t, fx.F)
	classes := count[classModel.ClassModel](t, fx.F)
	enrollments := count[enrollmentModel.EnrollmentModel](t, fx.F)
	assert.EqualValues(t, 4, students)
	assert.EqualValues(t, 4, classes)
	assert.EqualValues(t, 7, enrollments)
	assert.EqualValues(t, len(constants.AllRoles), count[authModel.RoleModel](t, fx.F))

	ran, err = seeds.RunAllSeeds(ctx, fx.F, admin, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, students, count[studentModel.StudentModel](t, fx.F))
	assert.Equal(t, enrollments, count[enrollmentModel.EnrollmentModel](t, fx.F))
	assert.EqualValues(t, 1, count[seed.SeedHistory](t, fx.F))
}

func TestRunAllSeeds_AdminCanLogIn(t *testing.T) {
	fx := testkit.NewFixture(t)
	require.NoError(t, seed.Migrate(fx.DB))
	ctx := context.Background()

	_, err := seeds.RunAllSeeds(ctx, fx.F, admin, zerolog.Nop())
	require.NoError(t, err)

	u := fx.F.New()
	user, err := uow.Use[authModel.UserModel, string](u).FirstWhere(ctx,
		uow.Where("normalized_email = ?", authModel.NormalizeKey(admin.Email)))
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, authService.CheckPasswordHash(user.PasswordHash, admin.Password))

	roles, err := authService.RolesOf(ctx, u, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleAdmin}, roles)
}

func TestRunAllSeeds_KeepsExistingRows(t *testing.T) {
	fx := testkit.NewFixture(t)
	require.NoError(t, seed.Migrate(fx.DB))
	ctx := context.Background()
	fx.Roles()

	_, err := seeds.RunAllSeeds(ctx, fx.F, admin, zerolog.Nop())
	require.NoError(t, err)
	assert.EqualValues(t, len(constants.AllRoles), count[authModel.RoleModel](t, fx.F))
}
