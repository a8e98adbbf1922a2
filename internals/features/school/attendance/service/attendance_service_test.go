package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/attendance/dto"
	"schoolku_backend/internals/features/school/attendance/model"
	"schoolku_backend/internals/features/school/attendance/service"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/testkit"
)

func newService(t *testing.T) (*service.AttendanceService, *testkit.Fixture) {
	t.Helper()
	fx := testkit.NewFixture(t)
	return service.NewAttendanceService(fx.F, zerolog.Nop()), fx
}

var monday = time.Date(2024, 9, 2, 9, 15, 0, 0, time.UTC)

func TestMark_UpsertsPerDay(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	st := fx.Student()
	fx.Enrollment(st.ID, class.ID)

	first, err := svc.Mark(ctx, "t", nil, dto.MarkAttendanceRequest{StudentID: st.ID, ClassID: class.ID, Date: monday, Status: model.StatusAbsent})
	require.NoError(t, err)
	assert.True(t, first.Date.Equal(service.Day(monday)))

	second, err := svc.Mark(ctx, "t", nil, dto.MarkAttendanceRequest{StudentID: st.ID, ClassID: class.ID, Date: monday.Add(2 * time.Hour), Status: model.StatusLate})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.StatusLate, second.Status)

	rows, err := svc.ByClassDate(ctx, class.ID, monday)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMark_RequiresEnrollment(t *testing.T) {
	svc, fx := newService(t)
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	st := fx.Student()

	_, err := svc.Mark(context.Background(), "t", nil, dto.MarkAttendanceRequest{StudentID: st.ID, ClassID: class.ID, Date: monday, Status: model.StatusPresent})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestBulkMark_AllOrNothing(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	a, b, outsider := fx.Student(), fx.Student(), fx.Student()
	fx.Enrollment(a.ID, class.ID)
	fx.Enrollment(b.ID, class.ID)

	_, err := svc.BulkMark(ctx, "t", nil, dto.BulkMarkAttendanceRequest{ClassID: class.ID, Date: monday, Entries: []dto.BulkAttendanceEntry{
		{StudentID: a.ID, Status: model.StatusPresent},
		{StudentID: outsider.ID, Status: model.StatusPresent},
	}})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	rows, err := svc.ByClassDate(ctx, class.ID, monday)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.BulkMark(ctx, "t", nil, dto.BulkMarkAttendanceRequest{ClassID: class.ID, Date: monday, Entries: []dto.BulkAttendanceEntry{
		{StudentID: a.ID, Status: model.StatusPresent},
		{StudentID: a.ID, Status: model.StatusLate},
	}})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	rows, err = svc.BulkMark(ctx, "t", nil, dto.BulkMarkAttendanceRequest{ClassID: class.ID, Date: monday, Entries: []dto.BulkAttendanceEntry{
		{StudentID: a.ID, Status: model.StatusPresent},
		{StudentID: b.ID, Status: model.StatusExcused, Remarks: "sakit"},
	}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sakit", rows[1].Remarks)
}

func TestStudentSummary_LateCountsAsAttended(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	st := fx.Student()
	fx.Enrollment(st.ID, class.ID)

	statuses := []string{model.StatusPresent, model.StatusLate, model.StatusAbsent, model.StatusExcused, model.StatusPresent, model.StatusPresent}
	for i, status := range statuses {
		_, err := svc.Mark(ctx, "t", nil, dto.MarkAttendanceRequest{
			StudentID: st.ID, ClassID: class.ID, Date: monday.AddDate(0, 0, i), Status: status,
		})
		require.NoError(t, err)
	}

	sum, err := svc.StudentSummary(ctx, st.ID, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Total)
	assert.Equal(t, 3, sum.Present)
	assert.Equal(t, 1, sum.Late)
	assert.Equal(t, 1, sum.Absent)
	assert.Equal(t, 1, sum.Excused)
	assert.Equal(t, 66.67, sum.AttendanceRate)

	to := monday.AddDate(0, 0, 1)
	sum, err = svc.StudentSummary(ctx, st.ID, &class.ID, &monday, &to)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 100.0, sum.AttendanceRate)

	rows, err := svc.ByStudent(ctx, st.ID, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.True(t, rows[0].Date.After(rows[5].Date))
}

func TestSummary_EmptyIsZero(t *testing.T) {
	svc, fx := newService(t)
	sum, err := svc.ClassSummary(context.Background(), fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10).ID)
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.AttendanceRate)
}
