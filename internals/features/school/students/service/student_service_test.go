package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/cache"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	"schoolku_backend/internals/features/school/students/dto"
	"schoolku_backend/internals/features/school/students/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

func newService(t *testing.T) (*service.StudentService, *testkit.Fixture) {
	t.Helper()
	fx := testkit.NewFixture(t)
	files, _ := testkit.Uploader(t)
	return service.NewStudentService(fx.F, files, zerolog.Nop()), fx
}

func createReq(number, email string) dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		StudentNumber:  number,
		FirstName:      "Rina",
		LastName:       "Wijaya",
		Email:          email,
		DateOfBirth:    time.Date(2009, 5, 2, 0, 0, 0, 0, time.UTC),
		EnrollmentDate: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		GradeLevel:     9,
	}
}

func TestCreate_AndLookupByNumber(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin", createReq("stu-100", "Rina@School.test"))
	require.NoError(t, err)
	assert.Equal(t, "STU-100", created.StudentNumber)
	assert.Equal(t, "Rina Wijaya", created.FullName)

	got, err := svc.GetByStudentNumber(ctx, " stu-100 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByStudentNumber(ctx, "nope")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = svc.Create(ctx, "admin", createReq("STU-100", "x@school.test"))
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestBulkCreate_PartialSuccess(t *testing.T) {
	svc, _ := newService(t)
	res, err := svc.BulkCreate(context.Background(), "admin", []dto.CreateStudentRequest{
		createReq("A1", "a1@school.test"),
		createReq("A2", "a1@school.test"),
		createReq("A3", "a3@school.test"),
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Contains(t, res.Failed[0].Message, "email")
}

func TestEnrollments_ListsClassHistory(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	d := fx.Department()
	course := fx.Course(d.ID, 4)
	class := fx.Class(course.ID, nil, 30)
	st := fx.Student()
	fx.Enrollment(st.ID, class.ID)

	rows, err := svc.Enrollments(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, class.Name, rows[0].ClassName)
	assert.Equal(t, course.Code, rows[0].CourseCode)
	assert.Equal(t, 4, rows[0].Credits)
	assert.Equal(t, enrollmentModel.StatusEnrolled, rows[0].Status)

	_, err = svc.Enrollments(ctx, 999)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDelete_BlockedWhileEnrolled(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	class := fx.Class(fx.Course(fx.Department().ID, 2).ID, nil, 10)
	st := fx.Student()
	e := fx.Enrollment(st.ID, class.ID)

	err := svc.Delete(ctx, "admin", st.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	u := fx.F.New()
	e.Status = enrollmentModel.StatusDropped
	uow.Use[enrollmentModel.EnrollmentModel, uint](u).Update(e)
	_, err = u.Complete(ctx, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "admin", st.ID))
}

func TestDocuments_UploadListDelete(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	st := fx.Student()

	doc, err := svc.UploadDocument(ctx, "admin", st.ID, "Akta Kelahiran", testkit.FileHeader(t, "akta.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, "Akta Kelahiran", doc.Title)
	assert.Equal(t, "akta.pdf", doc.FileName)

	_, err = svc.UploadDocument(ctx, "admin", st.ID, "", testkit.FileHeader(t, "photo.png", []byte("png")))
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	docs, err := svc.Documents(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	require.NoError(t, svc.DeleteDocument(ctx, "admin", st.ID, doc.ID))
	docs, err = svc.Documents(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)

	err = svc.DeleteDocument(ctx, "admin", st.ID, doc.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestCachedService_InvalidatesOnWrite(t *testing.T) {
	base, fx := newService(t)
	store := cache.New(0, time.Minute, zerolog.Nop())
	svc := service.WithCache(base, store, time.Minute)
	ctx := context.Background()
	st := fx.Student()

	_, err := svc.GetByID(ctx, st.ID)
	require.NoError(t, err)
	_, _, err = svc.List(ctx, helper.Paging{Page: 1, PerPage: 20, Limit: 20}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	level := 10
	updated, err := svc.Update(ctx, "admin", st.ID, dto.UpdateStudentRequest{GradeLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.GradeLevel)
	assert.Zero(t, store.Len())

	got, err := svc.GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.GradeLevel)
}
