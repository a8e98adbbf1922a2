package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/features/school/courses/dto"
	"schoolku_backend/internals/features/school/courses/service"
	deptdto "schoolku_backend/internals/features/school/departments/dto"
	deptService "schoolku_backend/internals/features/school/departments/service"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/testkit"
)

func TestCreate_ValidatesCodeAndDepartment(t *testing.T) {
	fx := testkit.NewFixture(t)
	svc := service.NewCourseService(fx.F, zerolog.Nop())
	ctx := context.Background()
	d := fx.Department()

	got, err := svc.Create(ctx, "admin", dto.CreateCourseRequest{Code: "mat101", Name: "Matematika", Credits: 3, DepartmentID: d.ID})
	require.NoError(t, err)
	assert.Equal(t, "MAT101", got.Code)
	assert.Equal(t, d.Name, got.DepartmentName)

	_, err = svc.Create(ctx, "admin", dto.CreateCourseRequest{Code: "MAT101", Name: "Dup", Credits: 3, DepartmentID: d.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.Create(ctx, "admin", dto.CreateCourseRequest{Code: "FIS101", Name: "Fisika", Credits: 3, DepartmentID: 77})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestByDepartment_WithClassCounts(t *testing.T) {
	fx := testkit.NewFixture(t)
	svc := service.NewCourseService(fx.F, zerolog.Nop())
	ctx := context.Background()
	a, b := fx.Department(), fx.Department()
	c1 := fx.Course(a.ID, 3)
	fx.Course(a.ID, 2)
	fx.Course(b.ID, 2)
	fx.Class(c1.ID, nil, 20)
	fx.Class(c1.ID, nil, 20)

	items, err := svc.ByDepartment(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, c1.ID, items[0].ID)
	assert.EqualValues(t, 2, items[0].ClassCount)
	assert.Zero(t, items[1].ClassCount)

	err = svc.Delete(ctx, "admin", c1.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	require.NoError(t, svc.Delete(ctx, "admin", items[1].ID))
}

func TestDepartmentWriteDropsCourseCache(t *testing.T) {
	fx := testkit.NewFixture(t)
	store := cache.New(0, time.Minute, zerolog.Nop())
	courses := service.WithCache(service.NewCourseService(fx.F, zerolog.Nop()), store, time.Minute)
	depts := deptService.WithCache(deptService.NewDepartmentService(fx.F, zerolog.Nop()), store, time.Minute, service.CacheName)
	ctx := context.Background()

	d := fx.Department()
	course := fx.Course(d.ID, 3)
	before, err := courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Name, before.DepartmentName)

	name := "Ilmu Pengetahuan Alam"
	_, err = depts.Update(ctx, "admin", d.ID, deptDTO(name))
	require.NoError(t, err)

	after, err := courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, name, after.DepartmentName)
}

func deptDTO(name string) deptdto.UpdateDepartmentRequest {
	return deptdto.UpdateDepartmentRequest{Name: &name}
}
