package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	classModel "schoolku_backend/internals/features/school/classes/model"
	"schoolku_backend/internals/features/school/courses/dto"
	"schoolku_backend/internals/features/school/courses/model"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

type Service interface {
	List(ctx context.Context, p helper.Paging) ([]dto.CourseResponse, int64, error)
	ByDepartment(ctx context.Context, departmentID uint) ([]dto.CourseResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.CourseResponse, error)
	Create(ctx context.Context, actor string, req dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, actor string, id uint, req dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, actor string, id uint) error
}

type CourseService struct {
	uows *uow.Factory
	log  zerolog.Logger
}

func NewCourseService(uows *uow.Factory, logger zerolog.Logger) *CourseService {
	return &CourseService{
		uows: uows,
		log:  logger.With().Str("component", "course_service").Logger(),
	}
}

func courses(u *uow.UnitOfWork) *uow.Repository[model.CourseModel, uint] {
	return uow.Use[model.CourseModel, uint](u)
}

func withDepartment(db *gorm.DB) *gorm.DB {
	return db.Preload("Department")
}

func (s *CourseService) List(ctx context.Context, p helper.Paging) ([]dto.CourseResponse, int64, error) {
	u := s.uows.New()
	q := courses(u).Query(ctx)
	if p.Search != "" {
		like := "%" + strings.ToLower(p.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.CourseModel
	if err := q.Scopes(withDepartment).Order("code ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.toResponses(ctx, u, rows)
	return out, total, err
}

func (s *CourseService) ByDepartment(ctx context.Context, departmentID uint) ([]dto.CourseResponse, error) {
	u := s.uows.New()
	rows, err := courses(u).Find(ctx, withDepartment,
		uow.Where("department_id = ?", departmentID),
		func(db *gorm.DB) *gorm.DB { return db.Order("code ASC") })
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, u, rows)
}

func (s *CourseService) GetByID(ctx context.Context, id uint) (*dto.CourseResponse, error) {
	u := s.uows.New()
	m, err := courses(u).FirstWhere(ctx, withDepartment, uow.Where("courses.id = ?", id))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Course", id)
	}
	out, err := s.toResponses(ctx, u, []model.CourseModel{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *CourseService) Create(ctx context.Context, actor string, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	u := s.uows.New()
	m := req.ToModel()
	if err := checkCodeFree(ctx, u, m.Code); err != nil {
		return nil, err
	}
	if err := checkDepartment(ctx, u, m.DepartmentID); err != nil {
		return nil, err
	}
	courses(u).Add(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Uint("course_id", m.ID).Str("code", m.Code).Msg("✅ Course dibuat")
	return s.GetByID(ctx, m.ID)
}

func (s *CourseService) Update(ctx context.Context, actor string, id uint, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	u := s.uows.New()
	m, err := courses(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Course", id)
	}
	if req.DepartmentID != nil {
		if err := checkDepartment(ctx, u, *req.DepartmentID); err != nil {
			return nil, err
		}
	}
	req.ApplyToModel(m)
	courses(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete ditolak bila course masih punya kelas aktif.
func (s *CourseService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := courses(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Course", id)
	}
	inUse, err := uow.Use[classModel.ClassModel, uint](u).Any(ctx, uow.Where("course_id = ?", id))
	if err != nil {
		return err
	}
	if inUse {
		return apperror.Conflict("Course %s still has active classes", m.Code)
	}
	courses(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

func (s *CourseService) toResponses(ctx context.Context, u *uow.UnitOfWork, rows []model.CourseModel) ([]dto.CourseResponse, error) {
	out := make([]dto.CourseResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	counts, err := uow.Use[classModel.ClassModel, uint](u).CountGrouped(ctx, "course_id", uow.Where("course_id IN ?", ids))
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], counts[rows[i].ID]))
	}
	return out, nil
}

func checkCodeFree(ctx context.Context, u *uow.UnitOfWork, code string) error {
	taken, err := courses(u).Any(ctx, uow.Where("code = ?", code))
	if err != nil {
		return err
	}
	if taken {
		return apperror.ValidationField("code", "Course code "+code+" already exists")
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
