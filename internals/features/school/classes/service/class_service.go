package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/classes/dto"
	"schoolku_backend/internals/features/school/classes/model"
	courseModel "schoolku_backend/internals/features/school/courses/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

// ClassFilter: parameter list opsional.
type ClassFilter struct {
	CourseID     *uint
	TeacherID    *uint
	AcademicYear string
	Semester     string
}

type ClassService struct {
	uows *uow.Factory
	log  zerolog.Logger
}

func NewClassService(uows *uow.Factory, logger zerolog.Logger) *ClassService {
	return &ClassService{
		uows: uows,
		log:  logger.With().Str("component", "class_service").Logger(),
	}
}

func classes(u *uow.UnitOfWork) *uow.Repository[model.ClassModel, uint] {
	return uow.Use[model.ClassModel, uint](u)
}

func enrollments(u *uow.UnitOfWork) *uow.Repository[enrollmentModel.EnrollmentModel, uint] {
	return uow.Use[enrollmentModel.EnrollmentModel, uint](u)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Course").Preload("Teacher")
}

func (s *ClassService) List(ctx context.Context, p helper.Paging, f ClassFilter) ([]dto.ClassResponse, int64, error) {
	u := s.uows.New()
	q := classes(u).Query(ctx)
	if p.Search != "" {
		like := "%" + strings.ToLower(p.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(room) LIKE ?", like, like)
	}
	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	if f.TeacherID != nil {
		q = q.Where("teacher_id = ?", *f.TeacherID)
	}
	if f.AcademicYear != "" {
		q = q.Where("academic_year = ?", f.AcademicYear)
	}
	if f.Semester != "" {
		q = q.Where("semester = ?", f.Semester)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ClassModel
	if err := q.Scopes(withRelations).Order("academic_year DESC, name ASC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.toResponses(ctx, u, rows)
	return out, total, err
}

func (s *ClassService) ByCourse(ctx context.Context, courseID uint) ([]dto.ClassResponse, error) {
	return s.findBy(ctx, uow.Where("course_id = ?", courseID))
}

func (s *ClassService) ByTeacher(ctx context.Context, teacherID uint) ([]dto.ClassResponse, error) {
	return s.findBy(ctx, uow.Where("teacher_id = ?", teacherID))
}

func (s *ClassService) findBy(ctx context.Context, pred uow.Predicate) ([]dto.ClassResponse, error) {
	u := s.uows.New()
	rows, err := classes(u).Find(ctx, withRelations, pred,
		func(db *gorm.DB) *gorm.DB { return db.Order("academic_year DESC, name ASC") })
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, u, rows)
}

func (s *ClassService) GetByID(ctx context.Context, id uint) (*dto.ClassResponse, error) {
	u := s.uows.New()
	m, err := classes(u).FirstWhere(ctx, withRelations, uow.Where("classes.id = ?", id))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Class", id)
	}
	out, err := s.toResponses(ctx, u, []model.ClassModel{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Roster: siswa berstatus Enrolled, urut nomor induk.
func (s *ClassService) Roster(ctx context.Context, id uint) ([]dto.RosterEntry, error) {
	u := s.uows.New()
	if err := mustExist(ctx, u, id); err != nil {
		return nil, err
	}
	rows, err := enrollments(u).Find(ctx,
		uow.Where("class_id = ? AND status = ?", id, enrollmentModel.StatusEnrolled),
		func(db *gorm.DB) *gorm.DB { return db.Preload("Student") })
	if err != nil {
		return nil, err
	}
	out := make([]dto.RosterEntry, 0, len(rows))
	for _, e := range rows {
		if e.Student == nil {
			continue
		}
		out = append(out, dto.RosterEntry{
			EnrollmentID:   e.ID,
			StudentID:      e.StudentID,
			StudentNumber:  e.Student.StudentNumber,
			FullName:       e.Student.FullName(),
			Email:          e.Student.Email,
			EnrollmentDate: e.EnrollmentDate,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentNumber < out[j].StudentNumber })
	return out, nil
}

func (s *ClassService) Schedule(ctx context.Context, id uint) ([]model.ScheduleSlot, error) {
	m, err := classes(s.uows.New()).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Class", id)
	}
	slots := m.Schedule.Data()
	if slots == nil {
		slots = []model.ScheduleSlot{}
	}
	return slots, nil
}

func (s *ClassService) Create(ctx context.Context, actor string, req dto.CreateClassRequest) (*dto.ClassResponse, error) {
	u := s.uows.New()
	m := req.ToModel()
	if err := validateDates(m.StartDate, m.EndDate); err != nil {
		return nil, err
	}
	if err := validateSchedule(req.Schedule); err != nil {
		return nil, err
	}
	if err := checkCourse(ctx, u, m.CourseID); err != nil {
		return nil, err
	}
	if m.TeacherID != nil {
		if err := checkTeacher(ctx, u, *m.TeacherID); err != nil {
			return nil, err
		}
	}
	classes(u).Add(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Uint("class_id", m.ID).Str("name", m.Name).Msg("✅ Class dibuat")
	return s.GetByID(ctx, m.ID)
}

// Update menolak kapasitas di bawah jumlah siswa terdaftar.
func (s *ClassService) Update(ctx context.Context, actor string, id uint, req dto.UpdateClassRequest) (*dto.ClassResponse, error) {
	u := s.uows.New()
	m, err := classes(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Class", id)
	}
	req.ApplyToModel(m)
	if err := validateDates(m.StartDate, m.EndDate); err != nil {
		return nil, err
	}
	if req.MaxStudents != nil {
		enrolled, err := enrollments(u).Count(ctx, uow.Where("class_id = ? AND status = ?", id, enrollmentModel.StatusEnrolled))
		if err != nil {
			return nil, err
		}
		if int64(m.MaxStudents) < enrolled {
			return nil, apperror.ValidationField("max_students",
				fmt.Sprintf("Capacity cannot be lower than the %d enrolled students", enrolled))
		}
	}
	if req.TeacherID != nil {
		if err := checkTeacher(ctx, u, *req.TeacherID); err != nil {
			return nil, err
		}
	}
	classes(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// UpdateSchedule mengganti seluruh jadwal mingguan.
func (s *ClassService) UpdateSchedule(ctx context.Context, actor string, id uint, slots []model.ScheduleSlot) ([]model.ScheduleSlot, error) {
	if err := validateSchedule(slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []model.ScheduleSlot{}
	}
	u := s.uows.New()
	m, err := classes(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Class", id)
	}
	m.Schedule = datatypes.NewJSONType(slots)
	classes(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return slots, nil
}

// Delete ditolak selama masih ada siswa Enrolled.
func (s *ClassService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := classes(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Class", id)
	}
	busy, err := enrollments(u).Any(ctx, uow.Where("class_id = ? AND status = ?", id, enrollmentModel.StatusEnrolled))
	if err != nil {
		return err
	}
	if busy {
		return apperror.Conflict("Class %s still has enrolled students", m.Name)
	}
	classes(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

func (s *ClassService) toResponses(ctx context.Context, u *uow.UnitOfWork, rows []model.ClassModel) ([]dto.ClassResponse, error) {
	out := make([]dto.ClassResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	counts, err := enrollments(u).CountGrouped(ctx, "class_id",
		uow.Where("class_id IN ? AND status = ?", ids, enrollmentModel.StatusEnrolled))
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], counts[rows[i].ID]))
	}
	return out, nil
}

/* ===============================
   Guards
=================================*/

func mustExist(ctx context.Context, u *uow.UnitOfWork, id uint) error {
	ok, err := classes(u).Any(ctx, uow.Where("id = ?", id))
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Class", id)
	}
	return nil
}

func checkCourse(ctx context.Context, u *uow.UnitOfWork, id uint) error {
	ok, err := uow.Use[courseModel.CourseModel, uint](u).Any(ctx, uow.Where("id = ?", id))
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Course", id)
	}
	return nil
}

func checkTeacher(ctx context.Context, u *uow.UnitOfWork, id uint) error {
	ok, err := uow.Use[teacherModel.TeacherModel, uint](u).Any(ctx, uow.Where("id = ?", id))
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Teacher", id)
	}
	return nil
}

func validateDates(start, end time.Time) error {
	if !end.After(start) {
		return apperror.ValidationField("end_date", "End date must be after start date")
	}
	return nil
}

// validateSchedule: format slot + jam selesai harus setelah jam mulai.
func validateSchedule(slots []model.ScheduleSlot) error {
	fields := map[string][]string{}
	for i, slot := range slots {
		key := fmt.Sprintf("schedule[%d]", i)
		if err := helper.ValidateStruct(slot); err != nil {
			fields[key] = append(fields[key], "Day must be Monday..Sunday and times must be HH:MM")
			continue
		}
		start, _ := time.Parse("15:04", slot.StartTime)
		end, _ := time.Parse("15:04", slot.EndTime)
		if !end.After(start) {
			fields[key] = append(fields[key], "End time must be after start time")
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}
