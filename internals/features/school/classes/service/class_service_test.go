package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/classes/dto"
	"schoolku_backend/internals/features/school/classes/model"
	"schoolku_backend/internals/features/school/classes/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/testkit"
)

func newService(t *testing.T) (*service.ClassService, *testkit.Fixture) {
	t.Helper()
	fx := testkit.NewFixture(t)
	return service.NewClassService(fx.F, zerolog.Nop()), fx
}

func createReq(courseID uint, teacherID *uint) dto.CreateClassRequest {
	return dto.CreateClassRequest{
		Name:         "X IPA 1",
		AcademicYear: "2024/2025",
		Semester:     "Ganjil",
		MaxStudents:  2,
		StartDate:    time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
		Schedule: []model.ScheduleSlot{
			{Day: "Monday", StartTime: "07:30", EndTime: "09:00", Room: "R101"},
		},
		CourseID:  courseID,
		TeacherID: teacherID,
	}
}

func TestCreate_WithScheduleAndRelations(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	d := fx.Department()
	course := fx.Course(d.ID, 3)
	teacher := fx.Teacher(d.ID)

	got, err := svc.Create(ctx, "admin", createReq(course.ID, &teacher.ID))
	require.NoError(t, err)
	assert.Equal(t, course.Code, got.CourseCode)
	assert.Equal(t, teacher.FullName(), got.TeacherName)
	require.Len(t, got.Schedule, 1)
	assert.Equal(t, "Monday", got.Schedule[0].Day)
	assert.EqualValues(t, 2, got.AvailableSeats)

	slots, err := svc.Schedule(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "R101", slots[0].Room)
}

func TestCreate_RejectsBadScheduleAndDates(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	course := fx.Course(fx.Department().ID, 3)

	req := createReq(course.ID, nil)
	req.Schedule = []model.ScheduleSlot{{Day: "Funday", StartTime: "07:00", EndTime: "08:00"}, {Day: "Monday", StartTime: "10:00", EndTime: "09:00"}}
	_, err := svc.Create(ctx, "admin", req)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "schedule[0]")
	assert.Contains(t, ae.Fields, "schedule[1]")

	req = createReq(course.ID, nil)
	req.EndDate = req.StartDate
	_, err = svc.Create(ctx, "admin", req)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	missing := uint(55)
	_, err = svc.Create(ctx, "admin", createReq(course.ID, &missing))
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdate_CapacityNotBelowEnrolled(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 5)
	fx.Enrollment(fx.Student().ID, class.ID)
	fx.Enrollment(fx.Student().ID, class.ID)

	one := 1
	_, err := svc.Update(ctx, "admin", class.ID, dto.UpdateClassRequest{MaxStudents: &one})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	two := 2
	got, err := svc.Update(ctx, "admin", class.ID, dto.UpdateClassRequest{MaxStudents: &two})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.EnrolledCount)
	assert.Zero(t, got.AvailableSeats)
}

func TestRosterAndDelete(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 5)
	b := fx.Student()
	a := fx.Student()
	fx.Enrollment(a.ID, class.ID)
	fx.Enrollment(b.ID, class.ID)

	roster, err := svc.Roster(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, b.StudentNumber, roster[0].StudentNumber)

	err = svc.Delete(ctx, "admin", class.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestListFiltersAndByTeacher(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	d := fx.Department()
	course := fx.Course(d.ID, 3)
	teacher := fx.Teacher(d.ID)
	fx.Class(course.ID, &teacher.ID, 10)
	fx.Class(course.ID, nil, 10)

	items, total, err := svc.List(ctx, helper.Paging{Page: 1, PerPage: 20, Limit: 20}, service.ClassFilter{TeacherID: &teacher.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)

	byCourse, err := svc.ByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, byCourse, 2)

	byTeacher, err := svc.ByTeacher(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, byTeacher, 1)
}

func TestUpdateSchedule_ReplacesSlots(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 5)

	_, err := svc.UpdateSchedule(ctx, "teacher", class.ID, []model.ScheduleSlot{
		{Day: "Tuesday", StartTime: "08:00", EndTime: "09:30"},
		{Day: "Thursday", StartTime: "10:00", EndTime: "11:30"},
	})
	require.NoError(t, err)
	slots, err := svc.Schedule(ctx, class.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}
