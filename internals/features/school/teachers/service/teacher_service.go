package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	classModel "schoolku_backend/internals/features/school/classes/model"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	"schoolku_backend/internals/features/school/teachers/dto"
	"schoolku_backend/internals/features/school/teachers/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/storage"
)

type TeacherService struct {
	uows  *uow.Factory
	files *storage.Uploader
	log   zerolog.Logger
}

func NewTeacherService(uows *uow.Factory, files *storage.Uploader, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		uows:  uows,
		files: files,
		log:   logger.With().Str("component", "teacher_service").Logger(),
	}
}

func teachers(u *uow.UnitOfWork) *uow.Repository[model.TeacherModel, uint] {
	return uow.Use[model.TeacherModel, uint](u)
}

func withDepartment(db *gorm.DB) *gorm.DB {
	return db.Preload("Department")
}

// List dengan paging; search mencocokkan nama, email, dan nomor pegawai.
func (s *TeacherService) List(ctx context.Context, p helper.Paging, departmentID *uint) ([]dto.TeacherResponse, int64, error) {
	q := teachers(s.uows.New()).Query(ctx)
	if p.Search != "" {
		like := "%" + strings.ToLower(p.Search) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_number) LIKE ?",
			like, like, like, like)
	}
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.TeacherModel
	if err := q.Scopes(withDepartment).Order("first_name ASC, last_name ASC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return dto.FromModels(rows), total, nil
}

func (s *TeacherService) ByDepartment(ctx context.Context, departmentID uint) ([]dto.TeacherResponse, error) {
	rows, err := teachers(s.uows.New()).Find(ctx, withDepartment,
		uow.Where("department_id = ?", departmentID),
		func(db *gorm.DB) *gorm.DB { return db.Order("first_name ASC") })
	if err != nil {
		return nil, err
	}
	return dto.FromModels(rows), nil
}

func (s *TeacherService) GetByID(ctx context.Context, id uint) (*dto.TeacherResponse, error) {
	m, err := teachers(s.uows.New()).FirstWhere(ctx, withDepartment, uow.Where("teachers.id = ?", id))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Teacher", id)
	}
	resp := dto.FromModel(m)
	return &resp, nil
}

// Classes: kelas aktif yang diajar teacher beserta jumlah siswa terdaftar.
func (s *TeacherService) Classes(ctx context.Context, teacherID uint) ([]dto.TeacherClassResponse, error) {
	u := s.uows.New()
	exists, err := teachers(u).Any(ctx, uow.Where("id = ?", teacherID))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("Teacher", teacherID)
	}

	classes, err := uow.Use[classModel.ClassModel, uint](u).Find(ctx,
		uow.Where("teacher_id = ?", teacherID),
		func(db *gorm.DB) *gorm.DB { return db.Preload("Course").Order("academic_year DESC, name ASC") })
	if err != nil {
		return nil, err
	}
	out := make([]dto.TeacherClassResponse, 0, len(classes))
	if len(classes) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	counts, err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).CountGrouped(ctx, "class_id",
		uow.Where("class_id IN ? AND status = ?", ids, enrollmentModel.StatusEnrolled))
	if err != nil {
		return nil, err
	}

	for _, c := range classes {
		r := dto.TeacherClassResponse{
			ID:            c.ID,
			Name:          c.Name,
			AcademicYear:  c.AcademicYear,
			Semester:      c.Semester,
			Room:          c.Room,
			MaxStudents:   c.MaxStudents,
			EnrolledCount: counts[c.ID],
		}
		if c.Course != nil {
			r.CourseCode = c.Course.Code
			r.CourseName = c.Course.Name
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *TeacherService) Create(ctx context.Context, actor string, req dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	u := s.uows.New()
	m := req.ToModel()
	if err := s.validateNew(ctx, u, m); err != nil {
		return nil, err
	}
	teachers(u).Add(m)
	if m.UserID != nil {
		if err := authService.AssignRole(ctx, u, *m.UserID, constants.RoleTeacher); err != nil {
			return nil, err
		}
	}
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Uint("teacher_id", m.ID).Str("employee_number", m.EmployeeNumber).Msg("✅ Teacher dibuat")
	return s.GetByID(ctx, m.ID)
}

// BulkCreate: setiap item disimpan sendiri; kegagalan dicatat per item.
func (s *TeacherService) BulkCreate(ctx context.Context, actor string, reqs []dto.CreateTeacherRequest) (*helper.BulkResult[dto.TeacherResponse], error) {
	res := helper.NewBulkResult[dto.TeacherResponse](len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := helper.ValidateStruct(req); err != nil {
			res.Fail(i, req.EmployeeNumber, err)
			continue
		}
		created, err := s.Create(ctx, actor, req)
		if err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("⚠️ Bulk teacher item gagal")
			res.Fail(i, req.EmployeeNumber, err)
			continue
		}
		res.Created = append(res.Created, *created)
	}
	return res, nil
}

func (s *TeacherService) Update(ctx context.Context, actor string, id uint, req dto.UpdateTeacherRequest) (*dto.TeacherResponse, error) {
	u := s.uows.New()
	m, err := teachers(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Teacher", id)
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
	teachers(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete ditolak bila teacher masih memegang kelas aktif.
func (s *TeacherService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := teachers(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Teacher", id)
	}
	busy, err := uow.Use[classModel.ClassModel, uint](u).Any(ctx, uow.Where("teacher_id = ?", id))
	if err != nil {
		return err
	}
	if busy {
		return apperror.Conflict("Teacher %s is still assigned to active classes", m.EmployeeNumber)
	}
	teachers(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

// UploadPhoto menyimpan foto (webp) dan menghapus foto lama setelah commit.
func (s *TeacherService) UploadPhoto(ctx context.Context, actor string, id uint, fh *multipart.FileHeader) (*dto.TeacherResponse, error) {
	u := s.uows.New()
	m, err := teachers(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Teacher", id)
	}

	saved, err := s.files.Save(ctx, fh, constants.UploadImage, "teachers")
	if err != nil {
		return nil, err
	}
	old := m.PhotoURL
	m.PhotoURL = &saved.URL
	teachers(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		s.files.Remove(ctx, saved.URL)
		return nil, err
	}
	if old != nil {
		s.files.Remove(ctx, *old)
	}
	return s.GetByID(ctx, id)
}

func (s *TeacherService) validateNew(ctx context.Context, u *uow.UnitOfWork, m *model.TeacherModel) error {
	if err := checkUnique(ctx, u, "employee_number", m.EmployeeNumber, 0); err != nil {
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
	if m.UserID != nil {
		ok, err := uow.Use[authModel.UserModel, string](u).Any(ctx, uow.Where("id = ?", *m.UserID))
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound("User", *m.UserID)
		}
		linked, err := teachers(u).Any(ctx, uow.Where("user_id = ?", *m.UserID))
		if err != nil {
			return err
		}
		if linked {
			return apperror.ValidationField("user_id", "User is already linked to another teacher")
		}
	}
	return nil
}

func checkUnique(ctx context.Context, u *uow.UnitOfWork, column, value string, selfID uint) error {
	taken, err := teachers(u).Any(ctx, uow.Where(column+" = ? AND id <> ?", value, selfID))
	if err != nil {
		return err
	}
	if taken {
		return apperror.ValidationField(column, "A teacher with this "+strings.ReplaceAll(column, "_", " ")+" already exists")
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
