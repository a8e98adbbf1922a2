package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	"schoolku_backend/internals/features/school/grades/dto"
	"schoolku_backend/internals/features/school/grades/model"
	"schoolku_backend/internals/features/school/grades/service"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

func newService(t *testing.T) (*service.GradeService, *testkit.Fixture) {
	t.Helper()
	fx := testkit.NewFixture(t)
	return service.NewGradeService(fx.F, zerolog.Nop()), fx
}

func gradeReq(studentID, classID uint, score, max, weight float64) dto.CreateGradeRequest {
	return dto.CreateGradeRequest{
		StudentID:      studentID,
		ClassID:        classID,
		AssessmentType: model.AssessmentQuiz,
		Score:          score,
		MaxScore:       max,
		Weight:         weight,
	}
}

func TestRecord_ComputesPercentageAndLetter(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	st := fx.Student()
	fx.Enrollment(st.ID, class.ID)

	teacherID := uint(7)
	got, err := svc.Record(ctx, "teacher", &teacherID, gradeReq(st.ID, class.ID, 43, 50, 10))
	require.NoError(t, err)
	assert.Equal(t, 86.0, got.Percentage)
	assert.Equal(t, "B", got.LetterGrade)
	assert.Equal(t, &teacherID, got.GradedByID)

	_, err = svc.Record(ctx, "teacher", nil, gradeReq(st.ID, class.ID, 60, 50, 10))
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	outsider := fx.Student()
	_, err = svc.Record(ctx, "teacher", nil, gradeReq(outsider.ID, class.ID, 40, 50, 10))
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestUpdate_Recomputes(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	st := fx.Student()
	fx.Enrollment(st.ID, class.ID)

	g, err := svc.Record(ctx, "teacher", nil, gradeReq(st.ID, class.ID, 50, 100, 0))
	require.NoError(t, err)
	assert.Equal(t, "F", g.LetterGrade)

	score := 95.0
	g, err = svc.Update(ctx, "teacher", g.ID, dto.UpdateGradeRequest{Score: &score})
	require.NoError(t, err)
	assert.Equal(t, "A", g.LetterGrade)
	assert.Equal(t, 95.0, g.Percentage)
}

func TestStudentGPA_WeightedByCredits(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	d := fx.Department()
	heavy := fx.Class(fx.Course(d.ID, 4).ID, nil, 10)
	light := fx.Class(fx.Course(d.ID, 2).ID, nil, 10)
	empty := fx.Class(fx.Course(d.ID, 3).ID, nil, 10)
	st := fx.Student()
	fx.Enrollment(st.ID, heavy.ID)
	fx.Enrollment(st.ID, light.ID)
	fx.Enrollment(st.ID, empty.ID)

	// heavy: (80*1 + 100*3)/4 = 95 -> A (4.0)
	_, err := svc.Record(ctx, "t", nil, gradeReq(st.ID, heavy.ID, 80, 100, 1))
	require.NoError(t, err)
	_, err = svc.Record(ctx, "t", nil, gradeReq(st.ID, heavy.ID, 100, 100, 3))
	require.NoError(t, err)
	// light: 72 -> C (2.0)
	_, err = svc.Record(ctx, "t", nil, gradeReq(st.ID, light.ID, 72, 100, 0))
	require.NoError(t, err)

	gpa, err := svc.StudentGPA(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, gpa.TotalCredits)
	// (4*4 + 2*2) / 6 = 3.33
	assert.Equal(t, 3.33, gpa.GPA)
	require.Len(t, gpa.Classes, 3)
	assert.Equal(t, 95.0, gpa.Classes[0].Percentage)
	assert.Empty(t, gpa.Classes[2].LetterGrade)
}

func TestStudentGPA_CompletedUsesFinalGrade(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	st := fx.Student()
	e := fx.Enrollment(st.ID, class.ID)
	_, err := svc.Record(ctx, "t", nil, gradeReq(st.ID, class.ID, 50, 100, 1))
	require.NoError(t, err)

	final := 91.0
	e.Status = enrollmentModel.StatusCompleted
	e.FinalGrade = &final
	u := fx.F.New()
	uow.Use[enrollmentModel.EnrollmentModel, uint](u).Update(e)
	_, err = u.Complete(ctx, "t")
	require.NoError(t, err)

	gpa, err := svc.StudentGPA(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, gpa.GPA)
}

func TestClassStatistics(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 10)
	a, b := fx.Student(), fx.Student()
	fx.Enrollment(a.ID, class.ID)
	fx.Enrollment(b.ID, class.ID)
	for _, r := range []dto.CreateGradeRequest{
		gradeReq(a.ID, class.ID, 90, 100, 1),
		gradeReq(a.ID, class.ID, 70, 100, 1),
		gradeReq(b.ID, class.ID, 50, 100, 1),
	} {
		_, err := svc.Record(ctx, "t", nil, r)
		require.NoError(t, err)
	}

	stats, err := svc.ClassStatistics(ctx, class.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.GradeCount)
	assert.EqualValues(t, 2, stats.StudentCount)
	assert.Equal(t, 70.0, stats.Average)
	assert.Equal(t, 90.0, stats.Highest)
	assert.Equal(t, 50.0, stats.Lowest)
	assert.Equal(t, 1, stats.Distribution["A"])
	assert.Equal(t, 1, stats.Distribution["F"])
	assert.Zero(t, stats.Distribution["B"])

	_, err = svc.ClassStatistics(ctx, 999)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
