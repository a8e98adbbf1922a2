package testkit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	database "schoolku_backend/internals/databases"
	classModel "schoolku_backend/internals/features/school/classes/model"
	courseModel "schoolku_backend/internals/features/school/courses/model"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	"schoolku_backend/internals/persistence/uow"
)

// SchoolModels is every table of the application schema.
func SchoolModels() []any {
	return database.Models()
}

// Fixture inserts ready-made rows for service tests.
type Fixture struct {
	t   *testing.T
	F   *uow.Factory
	DB  *gorm.DB
	seq int
}

// NewFixture opens a store with the full schema.
func NewFixture(t *testing.T, opts ...uow.Option) *Fixture {
	t.Helper()
	db := OpenDB(t, SchoolModels()...)
	return &Fixture{t: t, F: Factory(db, opts...), DB: db}
}

func (fx *Fixture) next() int {
	fx.seq++
	return fx.seq
}

func insert[T any](fx *Fixture, e *T) *T {
	fx.t.Helper()
	u := fx.F.New()
	uow.Use[T, uint](u).Add(e)
	_, err := u.Complete(context.Background(), "fixture")
	require.NoError(fx.t, err)
	return e
}

func (fx *Fixture) Department() *deptModel.DepartmentModel {
	n := fx.next()
	return insert(fx, &deptModel.DepartmentModel{Code: fmt.Sprintf("D%02d", n), Name: fmt.Sprintf("Department %d", n)})
}

func (fx *Fixture) Teacher(deptID uint) *teacherModel.TeacherModel {
	n := fx.next()
	return insert(fx, &teacherModel.TeacherModel{
		EmployeeNumber: fmt.Sprintf("EMP%03d", n),
		FirstName:      "Guru",
		LastName:       fmt.Sprint(n),
		Email:          fmt.Sprintf("guru%d@school.test", n),
		HireDate:       time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID:   &deptID,
	})
}

func (fx *Fixture) Student() *studentModel.StudentModel {
	n := fx.next()
	return insert(fx, &studentModel.StudentModel{
		StudentNumber:  fmt.Sprintf("STU%04d", n),
		FirstName:      "Siswa",
		LastName:       fmt.Sprint(n),
		Email:          fmt.Sprintf("siswa%d@school.test", n),
		DateOfBirth:    time.Date(2010, 3, 14, 0, 0, 0, 0, time.UTC),
		EnrollmentDate: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		GradeLevel:     8,
	})
}

func (fx *Fixture) Course(deptID uint, credits int) *courseModel.CourseModel {
	n := fx.next()
	return insert(fx, &courseModel.CourseModel{
		Code:         fmt.Sprintf("C%03d", n),
		Name:         fmt.Sprintf("Course %d", n),
		Credits:      credits,
		DepartmentID: deptID,
	})
}

func (fx *Fixture) Class(courseID uint, teacherID *uint, maxStudents int) *classModel.ClassModel {
	n := fx.next()
	return insert(fx, &classModel.ClassModel{
		Name:         fmt.Sprintf("Class %d", n),
		AcademicYear: "2024/2025",
		Semester:     "Ganjil",
		MaxStudents:  maxStudents,
		StartDate:    time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
		CourseID:     courseID,
		TeacherID:    teacherID,
	})
}

func (fx *Fixture) Enrollment(studentID, classID uint) *enrollmentModel.EnrollmentModel {
	return insert(fx, &enrollmentModel.EnrollmentModel{
		StudentID:      studentID,
		ClassID:        classID,
		EnrollmentDate: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Status:         enrollmentModel.StatusEnrolled,
	})
}

// Roles seeds every application role.
func (fx *Fixture) Roles() {
	fx.t.Helper()
	u := fx.F.New()
	for _, name := range constants.AllRoles {
		uow.Use[authModel.RoleModel, uint](u).Add(&authModel.RoleModel{Name: name, NormalizedName: authModel.NormalizeKey(name)})
	}
	_, err := u.Complete(context.Background(), "fixture")
	require.NoError(fx.t, err)
}

// User inserts a login without roles.
func (fx *Fixture) User() *authModel.UserModel {
	fx.t.Helper()
	n := fx.next()
	user := &authModel.UserModel{Email: fmt.Sprintf("user%d@school.test", n), FirstName: "User", LastName: fmt.Sprint(n)}
	user.Normalize()
	u := fx.F.New()
	uow.Use[authModel.UserModel, string](u).Add(user)
	_, err := u.Complete(context.Background(), "fixture")
	require.NoError(fx.t, err)
	return user
}

// Grant links an existing role to the user. Roles must be seeded first.
func (fx *Fixture) Grant(userID, role string) {
	fx.t.Helper()
	u := fx.F.New()
	r, err := uow.Use[authModel.RoleModel, uint](u).FirstWhere(context.Background(),
		uow.Where("normalized_name = ?", authModel.NormalizeKey(role)))
	require.NoError(fx.t, err)
	require.NotNil(fx.t, r, "role %s not seeded", role)
	uow.Use[authModel.UserRoleModel, string](u).Add(&authModel.UserRoleModel{UserID: userID, RoleID: r.ID})
	_, err = u.Complete(context.Background(), "fixture")
	require.NoError(fx.t, err)
}
