package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assignmentModel "schoolku_backend/internals/features/school/assignments/model"
	attendanceDto "schoolku_backend/internals/features/school/attendance/dto"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	attendanceService "schoolku_backend/internals/features/school/attendance/service"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	gradeDto "schoolku_backend/internals/features/school/grades/dto"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	gradeService "schoolku_backend/internals/features/school/grades/service"
	"schoolku_backend/internals/features/school/reports/service"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

type env struct {
	svc        *service.ReportService
	grades     *gradeService.GradeService
	attendance *attendanceService.AttendanceService
	fx         *testkit.Fixture
}

func setup(t *testing.T) *env {
	t.Helper()
	fx := testkit.NewFixture(t)
	g := gradeService.NewGradeService(fx.F, zerolog.Nop())
	a := attendanceService.NewAttendanceService(fx.F, zerolog.Nop())
	return &env{svc: service.NewReportService(fx.F, g, a, zerolog.Nop()), grades: g, attendance: a, fx: fx}
}

func (e *env) grade(t *testing.T, studentID, classID uint, score, max float64) {
	t.Helper()
	_, err := e.grades.Record(context.Background(), "teacher", nil, gradeDto.CreateGradeRequest{
		StudentID: studentID, ClassID: classID, AssessmentType: gradeModel.AssessmentQuiz,
		Score: score, MaxScore: max, Weight: 1,
	})
	require.NoError(t, err)
}

func (e *env) mark(t *testing.T, studentID, classID uint, day time.Time, status string) {
	t.Helper()
	_, err := e.attendance.Mark(context.Background(), "teacher", nil, attendanceDto.MarkAttendanceRequest{
		StudentID: studentID, ClassID: classID, Date: day, Status: status,
	})
	require.NoError(t, err)
}

var day1 = time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)

func TestReportCard(t *testing.T) {
	e := setup(t)
	dept := e.fx.Department()
	math := e.fx.Class(e.fx.Course(dept.ID, 3).ID, nil, 10)
	art := e.fx.Class(e.fx.Course(dept.ID, 2).ID, nil, 10)
	st := e.fx.Student()
	require.NoError(t, e.fx.DB.Model(&studentModel.StudentModel{}).Where("id = ?", st.ID).Update("department_id", dept.ID).Error)
	e.fx.Enrollment(st.ID, math.ID)
	e.fx.Enrollment(st.ID, art.ID)

	e.grade(t, st.ID, math.ID, 43, 50)
	e.grade(t, st.ID, art.ID, 95, 100)
	e.mark(t, st.ID, math.ID, day1, attendanceModel.StatusPresent)
	e.mark(t, st.ID, math.ID, day1.AddDate(0, 0, 1), attendanceModel.StatusAbsent)

	card, err := e.svc.ReportCard(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.StudentNumber, card.Student.StudentNumber)
	assert.Equal(t, dept.Name, card.Student.DepartmentName)
	assert.Equal(t, 3.4, card.GPA)
	assert.Equal(t, 5, card.TotalCredits)
	assert.Equal(t, 2, card.Attendance.Total)
	assert.Equal(t, 50.0, card.Attendance.AttendanceRate)

	require.Len(t, card.Classes, 2)
	byClass := map[uint]float64{}
	for _, c := range card.Classes {
		byClass[c.ClassID] = c.Attendance.AttendanceRate
	}
	assert.Equal(t, 50.0, byClass[math.ID])
	assert.Zero(t, byClass[art.ID])

	_, err = e.svc.ReportCard(context.Background(), 9999)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestClassReport(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	teacher := e.fx.Teacher(e.fx.Department().ID)
	class := e.fx.Class(e.fx.Course(e.fx.Department().ID, 3).ID, &teacher.ID, 10)
	a, b, gone := e.fx.Student(), e.fx.Student(), e.fx.Student()
	e.fx.Enrollment(a.ID, class.ID)
	e.fx.Enrollment(b.ID, class.ID)
	dropped := e.fx.Enrollment(gone.ID, class.ID)
	require.NoError(t, e.fx.DB.Model(&enrollmentModel.EnrollmentModel{}).
		Where("id = ?", dropped.ID).Update("status", enrollmentModel.StatusDropped).Error)

	e.grade(t, a.ID, class.ID, 90, 100)
	e.grade(t, b.ID, class.ID, 70, 100)
	e.mark(t, a.ID, class.ID, day1, attendanceModel.StatusLate)
	e.mark(t, b.ID, class.ID, day1, attendanceModel.StatusAbsent)

	u := e.fx.F.New()
	uow.Use[assignmentModel.AssignmentModel, uint](u).Add(&assignmentModel.AssignmentModel{
		ClassID: class.ID, Title: "PR 1", DueDate: day1, MaxScore: 10,
	})
	_, err := u.Complete(ctx, "teacher")
	require.NoError(t, err)

	rep, err := e.svc.ClassReport(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, teacher.FullName(), rep.TeacherName)
	assert.EqualValues(t, 2, rep.EnrolledCount)
	assert.EqualValues(t, 1, rep.DroppedCount)
	assert.EqualValues(t, 1, rep.AssignmentCount)
	assert.Equal(t, 80.0, rep.Grades.Average)
	assert.Equal(t, 90.0, rep.Grades.Highest)
	assert.Equal(t, 50.0, rep.Attendance.AttendanceRate)
}

func TestDashboard(t *testing.T) {
	e := setup(t)
	class := e.fx.Class(e.fx.Course(e.fx.Department().ID, 3).ID, nil, 10)
	st := e.fx.Student()
	e.fx.Enrollment(st.ID, class.ID)
	e.fx.Student()

	d, err := e.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Students)
	assert.EqualValues(t, 1, d.Departments)
	assert.EqualValues(t, 1, d.Courses)
	assert.EqualValues(t, 1, d.Classes)
	assert.EqualValues(t, 1, d.ActiveEnrollments)
	assert.Zero(t, d.PendingSubmissions)
}
