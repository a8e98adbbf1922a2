package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/enrollments/dto"
	"schoolku_backend/internals/features/school/enrollments/model"
	"schoolku_backend/internals/features/school/enrollments/service"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

func newService(t *testing.T) (*service.EnrollmentService, *testkit.Fixture) {
	t.Helper()
	fx := testkit.NewFixture(t)
	return service.NewEnrollmentService(fx.F, zerolog.Nop()), fx
}

func TestEnroll_CapacityAndDuplicate(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 1)
	first, second := fx.Student(), fx.Student()

	got, err := svc.Enroll(ctx, "admin", dto.EnrollRequest{StudentID: first.ID, ClassID: class.ID})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnrolled, got.Status)
	assert.Equal(t, first.StudentNumber, got.StudentNumber)
	assert.Equal(t, class.Name, got.ClassName)

	_, err = svc.Enroll(ctx, "admin", dto.EnrollRequest{StudentID: first.ID, ClassID: class.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = svc.Enroll(ctx, "admin", dto.EnrollRequest{StudentID: second.ID, ClassID: class.ID})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "full")

	n, err := uow.Use[model.EnrollmentModel, uint](fx.F.New()).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnroll_UnknownStudentOrClass(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 5)
	st := fx.Student()

	_, err := svc.Enroll(ctx, "admin", dto.EnrollRequest{StudentID: 999, ClassID: class.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	_, err = svc.Enroll(ctx, "admin", dto.EnrollRequest{StudentID: st.ID, ClassID: 999})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDrop_FreesSeatAndAllowsReEnroll(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 1)
	st := fx.Student()

	e, err := svc.Enroll(ctx, "admin", dto.EnrollRequest{StudentID: st.ID, ClassID: class.ID})
	require.NoError(t, err)

	dropped, err := svc.Drop(ctx, "admin", e.ID, dto.DropRequest{Reason: "pindah sekolah"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDropped, dropped.Status)
	require.NotNil(t, dropped.DroppedDate)
	assert.Equal(t, "pindah sekolah", dropped.Remarks)

	_, err = svc.Drop(ctx, "admin", e.ID, dto.DropRequest{})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	other := fx.Student()
	_, err = svc.Enroll(ctx, "admin", dto.EnrollRequest{StudentID: other.ID, ClassID: class.ID})
	require.NoError(t, err)
}

func TestComplete_SetsLetterGrade(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 3).ID, nil, 5)
	e := fx.Enrollment(fx.Student().ID, class.ID)

	done, err := svc.Complete(ctx, "teacher", e.ID, dto.CompleteRequest{FinalGrade: 84.456})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)
	require.NotNil(t, done.FinalGrade)
	assert.Equal(t, 84.46, *done.FinalGrade)
	assert.Equal(t, "B", *done.LetterGrade)
	assert.NotNil(t, done.CompletedDate)

	byClass, err := svc.ByClass(ctx, class.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, byClass, 1)
	byClass, err = svc.ByClass(ctx, class.ID, model.StatusEnrolled)
	require.NoError(t, err)
	assert.Empty(t, byClass)
}
