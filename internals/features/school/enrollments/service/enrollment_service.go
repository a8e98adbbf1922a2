package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	classModel "schoolku_backend/internals/features/school/classes/model"
	"schoolku_backend/internals/features/school/enrollments/dto"
	"schoolku_backend/internals/features/school/enrollments/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

type EnrollmentService struct {
	uows *uow.Factory
	log  zerolog.Logger
	now  func() time.Time
}

func NewEnrollmentService(uows *uow.Factory, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		uows: uows,
		log:  logger.With().Str("component", "enrollment_service").Logger(),
		now:  time.Now,
	}
}

func enrollments(u *uow.UnitOfWork) *uow.Repository[model.EnrollmentModel, uint] {
	return uow.Use[model.EnrollmentModel, uint](u)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Class")
}

func (s *EnrollmentService) GetByID(ctx context.Context, id uint) (*dto.EnrollmentResponse, error) {
	m, err := enrollments(s.uows.New()).FirstWhere(ctx, withRelations, uow.Where("enrollments.id = ?", id))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Enrollment", id)
	}
	resp := dto.FromModel(m)
	return &resp, nil
}

func (s *EnrollmentService) ByStudent(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error) {
	rows, err := enrollments(s.uows.New()).Find(ctx, withRelations,
		uow.Where("student_id = ?", studentID),
		func(db *gorm.DB) *gorm.DB { return db.Order("enrollment_date DESC, id DESC") })
	if err != nil {
		return nil, err
	}
	return dto.FromModels(rows), nil
}

// ByClass; status kosong = semua status.
func (s *EnrollmentService) ByClass(ctx context.Context, classID uint, status string) ([]dto.EnrollmentResponse, error) {
	preds := []uow.Predicate{withRelations, uow.Where("class_id = ?", classID)}
	if status = strings.TrimSpace(status); status != "" {
		preds = append(preds, uow.Where("status = ?", status))
	}
	rows, err := enrollments(s.uows.New()).Find(ctx, preds...)
	if err != nil {
		return nil, err
	}
	return dto.FromModels(rows), nil
}

// Enroll mengecek kapasitas & duplikat di dalam satu transaksi read-committed.
// Baris class dikunci (FOR UPDATE di postgres) supaya enroll paralel ke kelas
// yang sama antre dan hitungan kapasitas tidak terlewati.
func (s *EnrollmentService) Enroll(ctx context.Context, actor string, req dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	u := s.uows.New()
	if err := u.BeginTransaction(ctx, sql.LevelReadCommitted); err != nil {
		return nil, err
	}

	m, err := s.stageEnrollment(ctx, u, req)
	if err != nil {
		if rbErr := u.RollbackTransaction(); rbErr != nil {
			s.log.Error().Err(rbErr).Msg("❌ Rollback enrollment gagal")
		}
		return nil, err
	}
	if _, err := u.CommitTransaction(ctx, actor); err != nil {
		return nil, err
	}

	s.log.Info().Uint("student_id", req.StudentID).Uint("class_id", req.ClassID).Msg("✅ Student enrolled")
	return s.GetByID(ctx, m.ID)
}

func (s *EnrollmentService) stageEnrollment(ctx context.Context, u *uow.UnitOfWork, req dto.EnrollRequest) (*model.EnrollmentModel, error) {
	okStudent, err := uow.Use[studentModel.StudentModel, uint](u).Any(ctx, uow.Where("id = ?", req.StudentID))
	if err != nil {
		return nil, err
	}
	if !okStudent {
		return nil, apperror.NotFound("Student", req.StudentID)
	}
	class, err := uow.Use[classModel.ClassModel, uint](u).FirstWhere(ctx, uow.ForUpdate, uow.Where("id = ?", req.ClassID))
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, apperror.NotFound("Class", req.ClassID)
	}

	repo := enrollments(u)
	dup, err := repo.Any(ctx, uow.Where("student_id = ? AND class_id = ? AND status = ?",
		req.StudentID, req.ClassID, model.StatusEnrolled))
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, apperror.Conflict("Student is already enrolled in this class")
	}

	enrolled, err := repo.Count(ctx, uow.Where("class_id = ? AND status = ?", req.ClassID, model.StatusEnrolled))
	if err != nil {
		return nil, err
	}
	if enrolled >= int64(class.MaxStudents) {
		return nil, apperror.Conflict("Class %s is full (%d/%d)", class.Name, enrolled, class.MaxStudents)
	}

	date := s.now().UTC()
	if req.EnrollmentDate != nil {
		date = *req.EnrollmentDate
	}
	m := &model.EnrollmentModel{
		StudentID:      req.StudentID,
		ClassID:        req.ClassID,
		EnrollmentDate: date,
		Status:         model.StatusEnrolled,
		Remarks:        strings.TrimSpace(req.Remarks),
	}
	repo.Add(m)
	return m, nil
}

// Drop: hanya enrollment berstatus Enrolled.
func (s *EnrollmentService) Drop(ctx context.Context, actor string, id uint, req dto.DropRequest) (*dto.EnrollmentResponse, error) {
	return s.transition(ctx, actor, id, func(m *model.EnrollmentModel, now time.Time) {
		m.Status = model.StatusDropped
		m.DroppedDate = &now
		if r := strings.TrimSpace(req.Reason); r != "" {
			m.Remarks = r
		}
	})
}

// Complete menutup enrollment dengan nilai akhir + huruf.
func (s *EnrollmentService) Complete(ctx context.Context, actor string, id uint, req dto.CompleteRequest) (*dto.EnrollmentResponse, error) {
	return s.transition(ctx, actor, id, func(m *model.EnrollmentModel, now time.Time) {
		grade := gradeModel.Round2(req.FinalGrade)
		letter := gradeModel.LetterFor(grade)
		m.Status = model.StatusCompleted
		m.FinalGrade = &grade
		m.LetterGrade = &letter
		m.CompletedDate = &now
		if r := strings.TrimSpace(req.Remarks); r != "" {
			m.Remarks = r
		}
	})
}

func (s *EnrollmentService) transition(ctx context.Context, actor string, id uint, apply func(*model.EnrollmentModel, time.Time)) (*dto.EnrollmentResponse, error) {
	u := s.uows.New()
	m, err := enrollments(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Enrollment", id)
	}
	if m.Status != model.StatusEnrolled {
		return nil, apperror.BadRequest("Enrollment is already %s", strings.ToLower(m.Status))
	}
	apply(m, s.now().UTC())
	enrollments(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *EnrollmentService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := enrollments(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Enrollment", id)
	}
	enrollments(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}
