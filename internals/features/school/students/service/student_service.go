package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	"schoolku_backend/internals/features/school/students/dto"
	"schoolku_backend/internals/features/school/students/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/storage"
)

// Service adalah kontrak yang juga dipenuhi CachedStudentService.
type Service interface {
	List(ctx context.Context, p helper.Paging, departmentID *uint) ([]dto.StudentResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*dto.StudentResponse, error)
	GetByStudentNumber(ctx context.Context, number string) (*dto.StudentResponse, error)
	Enrollments(ctx context.Context, id uint) ([]dto.StudentEnrollmentResponse, error)
	Documents(ctx context.Context, id uint) ([]dto.StudentDocumentResponse, error)

	Create(ctx context.Context, actor string, req dto.CreateStudentRequest) (*dto.StudentResponse, error)
	BulkCreate(ctx context.Context, actor string, reqs []dto.CreateStudentRequest) (*helper.BulkResult[dto.StudentResponse], error)
	Update(ctx context.Context, actor string, id uint, req dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, actor string, id uint) error
	UploadPhoto(ctx context.Context, actor string, id uint, fh *multipart.FileHeader) (*dto.StudentResponse, error)
	UploadDocument(ctx context.Context, actor string, id uint, title string, fh *multipart.FileHeader) (*dto.StudentDocumentResponse, error)
	DeleteDocument(ctx context.Context, actor string, id, documentID uint) error
}

type StudentService struct {
	uows  *uow.Factory
	files *storage.Uploader
	log   zerolog.Logger
}

func NewStudentService(uows *uow.Factory, files *storage.Uploader, logger zerolog.Logger) *StudentService {
	return &StudentService{
		uows:  uows,
		files: files,
		log:   logger.With().Str("component", "student_service").Logger(),
	}
}

func students(u *uow.UnitOfWork) *uow.Repository[model.StudentModel, uint] {
	return uow.Use[model.StudentModel, uint](u)
}

func documents(u *uow.UnitOfWork) *uow.Repository[model.StudentDocumentModel, uint] {
	return uow.Use[model.StudentDocumentModel, uint](u)
}

func withDepartment(db *gorm.DB) *gorm.DB {
	return db.Preload("Department")
}

/* ===============================
   Reads
=================================*/

func (s *StudentService) List(ctx context.Context, p helper.Paging, departmentID *uint) ([]dto.StudentResponse, int64, error) {
	q := students(s.uows.New()).Query(ctx)
	if p.Search != "" {
		like := "%" + strings.ToLower(p.Search) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(student_number) LIKE ?",
			like, like, like, like)
	}
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.StudentModel
	if err := q.Scopes(withDepartment).Order("student_number ASC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return dto.FromModels(rows), total, nil
}

func (s *StudentService) GetByID(ctx context.Context, id uint) (*dto.StudentResponse, error) {
	return s.first(ctx, apperror.NotFound("Student", id), uow.Where("students.id = ?", id))
}

func (s *StudentService) GetByStudentNumber(ctx context.Context, number string) (*dto.StudentResponse, error) {
	number = dto.NormalizeStudentNumber(number)
	return s.first(ctx, apperror.NotFoundMsg("Student with number "+number+" not found"),
		uow.Where("student_number = ?", number))
}

func (s *StudentService) first(ctx context.Context, notFound error, pred uow.Predicate) (*dto.StudentResponse, error) {
	m, err := students(s.uows.New()).FirstWhere(ctx, withDepartment, pred)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound
	}
	resp := dto.FromModel(m)
	return &resp, nil
}

// Enrollments: seluruh riwayat kelas siswa, terbaru dulu.
func (s *StudentService) Enrollments(ctx context.Context, id uint) ([]dto.StudentEnrollmentResponse, error) {
	u := s.uows.New()
	if err := s.mustExist(ctx, u, id); err != nil {
		return nil, err
	}
	rows, err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).Find(ctx,
		uow.Where("student_id = ?", id),
		func(db *gorm.DB) *gorm.DB {
			return db.Preload("Class").Preload("Class.Course").Order("enrollment_date DESC, id DESC")
		})
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudentEnrollmentResponse, 0, len(rows))
	for _, e := range rows {
		r := dto.StudentEnrollmentResponse{
			EnrollmentID:   e.ID,
			ClassID:        e.ClassID,
			Status:         e.Status,
			EnrollmentDate: e.EnrollmentDate,
			FinalGrade:     e.FinalGrade,
			LetterGrade:    e.LetterGrade,
		}
		if e.Class != nil {
			r.ClassName = e.Class.Name
			r.AcademicYear = e.Class.AcademicYear
			r.Semester = e.Class.Semester
			if e.Class.Course != nil {
				r.CourseCode = e.Class.Course.Code
				r.CourseName = e.Class.Course.Name
				r.Credits = e.Class.Course.Credits
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *StudentService) Documents(ctx context.Context, id uint) ([]dto.StudentDocumentResponse, error) {
	u := s.uows.New()
	if err := s.mustExist(ctx, u, id); err != nil {
		return nil, err
	}
	rows, err := documents(u).Find(ctx, uow.Where("student_id = ?", id),
		func(db *gorm.DB) *gorm.DB { return db.Order("created_date DESC") })
	if err != nil {
		return nil, err
	}
	out := make([]dto.StudentDocumentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromDocument(&rows[i]))
	}
	return out, nil
}

/* ===============================
   Writes
=================================*/

func (s *StudentService) Create(ctx context.Context, actor string, req dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	u := s.uows.New()
	m := req.ToModel()
	if err := s.validateNew(ctx, u, m); err != nil {
		return nil, err
	}
	students(u).Add(m)
	if m.UserID != nil {
		if err := authService.AssignRole(ctx, u, *m.UserID, constants.RoleStudent); err != nil {
			return nil, err
		}
	}
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Uint("student_id", m.ID).Str("student_number", m.StudentNumber).Msg("✅ Student dibuat")
	return s.GetByID(ctx, m.ID)
}

func (s *StudentService) BulkCreate(ctx context.Context, actor string, reqs []dto.CreateStudentRequest) (*helper.BulkResult[dto.StudentResponse], error) {
	res := helper.NewBulkResult[dto.StudentResponse](len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := helper.ValidateStruct(req); err != nil {
			res.Fail(i, req.StudentNumber, err)
			continue
		}
		created, err := s.Create(ctx, actor, req)
		if err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("⚠️ Bulk student item gagal")
			res.Fail(i, req.StudentNumber, err)
			continue
		}
		res.Created = append(res.Created, *created)
	}
	s.log.Info().Int("created", len(res.Created)).Int("failed", len(res.Failed)).Msg("📥 Bulk student selesai")
	return res, nil
}

func (s *StudentService) Update(ctx context.Context, actor string, id uint, req dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	u := s.uows.New()
	m, err := students(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Student", id)
	}
	req.ApplyToModel(m)
	if req.Email != nil {
		if err := checkUnique(ctx, u, "email", m.Email, m.ID); err != nil {
			return nil, err
		}
	}
	if req.DepartmentID != nil {
		if err := checkDepartment(ctx, u, *req.DepartmentID); err != nil {
			return nil, err
		}
	}
	students(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete ditolak selama siswa masih terdaftar aktif di suatu kelas.
func (s *StudentService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := students(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Student", id)
	}
	enrolled, err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).Any(ctx,
		uow.Where("student_id = ? AND status = ?", id, enrollmentModel.StatusEnrolled))
	if err != nil {
		return err
	}
	if enrolled {
		return apperror.Conflict("Student %s still has active enrollments", m.StudentNumber)
	}
	students(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

func (s *StudentService) UploadPhoto(ctx context.Context, actor string, id uint, fh *multipart.FileHeader) (*dto.StudentResponse, error) {
	u := s.uows.New()
	m, err := students(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Student", id)
	}

	saved, err := s.files.Save(ctx, fh, constants.UploadImage, "students")
	if err != nil {
		return nil, err
	}
	old := m.PhotoURL
	m.PhotoURL = &saved.URL
	students(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		s.files.Remove(ctx, saved.URL)
		return nil, err
	}
	if old != nil {
		s.files.Remove(ctx, *old)
	}
	return s.GetByID(ctx, id)
}

func (s *StudentService) UploadDocument(ctx context.Context, actor string, id uint, title string, fh *multipart.FileHeader) (*dto.StudentDocumentResponse, error) {
	u := s.uows.New()
	if err := s.mustExist(ctx, u, id); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" && fh != nil {
		title = fh.Filename
	}

	saved, err := s.files.Save(ctx, fh, constants.UploadDocument, "students/documents")
	if err != nil {
		return nil, err
	}
	doc := &model.StudentDocumentModel{
		StudentID:   id,
		Title:       title,
		FileURL:     saved.URL,
		FileName:    saved.FileName,
		ContentType: saved.ContentType,
		Size:        saved.Size,
	}
	documents(u).Add(doc)
	if _, err := u.Complete(ctx, actor); err != nil {
		s.files.Remove(ctx, saved.URL)
		return nil, err
	}
	resp := dto.FromDocument(doc)
	return &resp, nil
}

// DeleteDocument men-soft-delete metadata; file fisik ikut dihapus.
func (s *StudentService) DeleteDocument(ctx context.Context, actor string, id, documentID uint) error {
	u := s.uows.New()
	doc, err := documents(u).FirstWhere(ctx, uow.Where("id = ? AND student_id = ?", documentID, id))
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.NotFound("Document", documentID)
	}
	documents(u).Remove(doc)
	if _, err := u.Complete(ctx, actor); err != nil {
		return err
	}
	s.files.Remove(ctx, doc.FileURL)
	return nil
}

/* ===============================
   Guards
=================================*/

func (s *StudentService) mustExist(ctx context.Context, u *uow.UnitOfWork, id uint) error {
	ok, err := students(u).Any(ctx, uow.Where("id = ?", id))
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Student", id)
	}
	return nil
}

func (s *StudentService) validateNew(ctx context.Context, u *uow.UnitOfWork, m *model.StudentModel) error {
	if err := checkUnique(ctx, u, "student_number", m.StudentNumber, 0); err != nil {
		return err
	}
	if err := checkUnique(ctx, u, "email", m.Email, 0); err != nil {
		return err
	}
	if m.DepartmentID != nil {
		if err := checkDepartment(ctx, u, *m.DepartmentID); err != nil {
			return err
		}
	}
	if m.UserID == nil {
		return nil
	}
	ok, err := uow.Use[authModel.UserModel, string](u).Any(ctx, uow.Where("id = ?", *m.UserID))
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("User", *m.UserID)
	}
	linked, err := students(u).Any(ctx, uow.Where("user_id = ?", *m.UserID))
	if err != nil {
		return err
	}
	if linked {
		return apperror.ValidationField("user_id", "User is already linked to another student")
	}
	return nil
}

func checkUnique(ctx context.Context, u *uow.UnitOfWork, column, value string, selfID uint) error {
	taken, err := students(u).Any(ctx, uow.Where(column+" = ? AND id <> ?", value, selfID))
	if err != nil {
		return err
	}
	if taken {
		return apperror.ValidationField(column, "A student with this "+strings.ReplaceAll(column, "_", " ")+" already exists")
	}
	return nil
}

func checkDepartment(ctx context.Context, u *uow.UnitOfWork, id uint) error {
	ok, err := uow.Use[deptModel.DepartmentModel, uint](u).Any(ctx, uow.Where("id = ?", id))
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Department", id)
	}
	return nil
}
