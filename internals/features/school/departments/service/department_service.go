package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	courseModel "schoolku_backend/internals/features/school/courses/model"
	"schoolku_backend/internals/features/school/departments/dto"
	"schoolku_backend/internals/features/school/departments/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

// Service adalah kontrak yang juga dipenuhi versi ber-cache.
type Service interface {
	List(ctx context.Context, p helper.Paging) ([]dto.DepartmentResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*dto.DepartmentResponse, error)
	Create(ctx context.Context, actor string, req dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	Update(ctx context.Context, actor string, id uint, req dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, actor string, id uint) error
}

type DepartmentService struct {
	uows *uow.Factory
	log  zerolog.Logger
}

func NewDepartmentService(uows *uow.Factory, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		uows: uows,
		log:  logger.With().Str("component", "department_service").Logger(),
	}
}

func departments(u *uow.UnitOfWork) *uow.Repository[model.DepartmentModel, uint] {
	return uow.Use[model.DepartmentModel, uint](u)
}

func (s *DepartmentService) List(ctx context.Context, p helper.Paging) ([]dto.DepartmentResponse, int64, error) {
	u := s.uows.New()
	q := departments(u).Query(ctx)
	if p.Search != "" {
		like := "%" + strings.ToLower(p.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.DepartmentModel
	if err := q.Order("name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out, err := s.toResponses(ctx, u, rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *DepartmentService) GetByID(ctx context.Context, id uint) (*dto.DepartmentResponse, error) {
	u := s.uows.New()
	m, err := departments(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Department", id)
	}
	out, err := s.toResponses(ctx, u, []model.DepartmentModel{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *DepartmentService) Create(ctx context.Context, actor string, req dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	u := s.uows.New()
	m := req.ToModel()
	if err := s.checkCodeFree(ctx, u, m.Code, 0); err != nil {
		return nil, err
	}
	if err := checkHeadTeacher(ctx, u, m.HeadTeacherID); err != nil {
		return nil, err
	}

	departments(u).Add(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Uint("department_id", m.ID).Str("code", m.Code).Msg("✅ Department dibuat")

	resp := dto.FromModel(m)
	return &resp, nil
}

func (s *DepartmentService) Update(ctx context.Context, actor string, id uint, req dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	u := s.uows.New()
	m, err := departments(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Department", id)
	}

	req.ApplyToModel(m)
	if err := s.checkCodeFree(ctx, u, m.Code, m.ID); err != nil {
		return nil, err
	}
	if req.HeadTeacherID != nil {
		if err := checkHeadTeacher(ctx, u, m.HeadTeacherID); err != nil {
			return nil, err
		}
	}

	departments(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete ditolak selama masih ada course aktif di department.
func (s *DepartmentService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := departments(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Department", id)
	}
	inUse, err := uow.Use[courseModel.CourseModel, uint](u).Any(ctx, uow.Where("department_id = ?", id))
	if err != nil {
		return err
	}
	if inUse {
		return apperror.Conflict("Department %s still has active courses", m.Code)
	}

	departments(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

func (s *DepartmentService) checkCodeFree(ctx context.Context, u *uow.UnitOfWork, code string, selfID uint) error {
	taken, err := departments(u).Any(ctx, uow.Where("code = ? AND id <> ?", code, selfID))
	if err != nil {
		return err
	}
	if taken {
		return apperror.ValidationField("code", "Department code "+code+" already exists")
	}
	return nil
}

func checkHeadTeacher(ctx context.Context, u *uow.UnitOfWork, teacherID *uint) error {
	if teacherID == nil {
		return nil
	}
	ok, err := uow.Use[teacherModel.TeacherModel, uint](u).Any(ctx, uow.Where("id = ?", *teacherID))
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Teacher", *teacherID)
	}
	return nil
}

// toResponses melengkapi nama kepala department dan jumlah teacher/course.
func (s *DepartmentService) toResponses(ctx context.Context, u *uow.UnitOfWork, rows []model.DepartmentModel) ([]dto.DepartmentResponse, error) {
	out := make([]dto.DepartmentResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(rows))
	var headIDs []uint
	for i := range rows {
		ids = append(ids, rows[i].ID)
		if rows[i].HeadTeacherID != nil {
			headIDs = append(headIDs, *rows[i].HeadTeacherID)
		}
	}

	teacherRepo := uow.Use[teacherModel.TeacherModel, uint](u)
	teacherCounts, err := teacherRepo.CountGrouped(ctx, "department_id", uow.Where("department_id IN ?", ids))
	if err != nil {
		return nil, err
	}
	courseCounts, err := uow.Use[courseModel.CourseModel, uint](u).CountGrouped(ctx, "department_id", uow.Where("department_id IN ?", ids))
	if err != nil {
		return nil, err
	}

	heads := map[uint]string{}
	if len(headIDs) > 0 {
		teachers, err := teacherRepo.Find(ctx, uow.Where("id IN ?", headIDs))
		if err != nil {
			return nil, err
		}
		for i := range teachers {
			heads[teachers[i].ID] = teachers[i].FullName()
		}
	}

	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.TeacherCount = teacherCounts[r.ID]
		r.CourseCount = courseCounts[r.ID]
		if r.HeadTeacherID != nil {
			r.HeadTeacherName = heads[*r.HeadTeacherID]
		}
		out = append(out, r)
	}
	return out, nil
}
