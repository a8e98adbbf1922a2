package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/attendance/dto"
	"schoolku_backend/internals/features/school/attendance/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

type AttendanceService struct {
	uows *uow.Factory
	log  zerolog.Logger
}

func NewAttendanceService(uows *uow.Factory, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		uows: uows,
		log:  logger.With().Str("component", "attendance_service").Logger(),
	}
}

func attendances(u *uow.UnitOfWork) *uow.Repository[model.AttendanceModel, uint] {
	return uow.Use[model.AttendanceModel, uint](u)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Class")
}

// Day memotong waktu ke tengah malam UTC; satu baris per siswa/kelas/hari.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

/* ===============================
   Writes
=================================*/

// Mark membuat atau menimpa kehadiran siswa pada hari tsb.
func (s *AttendanceService) Mark(ctx context.Context, actor string, markedBy *uint, req dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error) {
	u := s.uows.New()
	day := Day(req.Date)
	if err := s.checkEnrolled(ctx, u, req.ClassID, []uint{req.StudentID}); err != nil {
		return nil, err
	}
	m, err := s.upsert(ctx, u, req.ClassID, day, markedBy, dto.BulkAttendanceEntry{
		StudentID: req.StudentID, Status: req.Status, Remarks: req.Remarks,
	})
	if err != nil {
		return nil, err
	}
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, m.ID)
}

// BulkMark: satu flush untuk seluruh kelas; satu siswa gagal = semua batal.
func (s *AttendanceService) BulkMark(ctx context.Context, actor string, markedBy *uint, req dto.BulkMarkAttendanceRequest) ([]dto.AttendanceResponse, error) {
	u := s.uows.New()
	day := Day(req.Date)

	seen := map[uint]bool{}
	ids := make([]uint, 0, len(req.Entries))
	for i, e := range req.Entries {
		if seen[e.StudentID] {
			return nil, apperror.ValidationField(fmt.Sprintf("entries[%d].student_id", i), "Student listed more than once")
		}
		seen[e.StudentID] = true
		ids = append(ids, e.StudentID)
	}
	if err := s.checkEnrolled(ctx, u, req.ClassID, ids); err != nil {
		return nil, err
	}

	for _, e := range req.Entries {
		if _, err := s.upsert(ctx, u, req.ClassID, day, markedBy, e); err != nil {
			return nil, err
		}
	}
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Uint("class_id", req.ClassID).Time("date", day).Int("count", len(req.Entries)).Msg("🗓️ Absensi kelas disimpan")
	return s.ByClassDate(ctx, req.ClassID, day)
}

func (s *AttendanceService) upsert(ctx context.Context, u *uow.UnitOfWork, classID uint, day time.Time, markedBy *uint, e dto.BulkAttendanceEntry) (*model.AttendanceModel, error) {
	repo := attendances(u)
	m, err := repo.FirstWhere(ctx, uow.Where("student_id = ? AND class_id = ? AND date = ?", e.StudentID, classID, day))
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &model.AttendanceModel{StudentID: e.StudentID, ClassID: classID, Date: day}
		repo.Add(m)
	} else {
		repo.Update(m)
	}
	m.Status = e.Status
	m.Remarks = e.Remarks
	m.MarkedBy = markedBy
	return m, nil
}

func (s *AttendanceService) checkEnrolled(ctx context.Context, u *uow.UnitOfWork, classID uint, studentIDs []uint) error {
	var enrolled []uint
	err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).Query(ctx).
		Where("class_id = ? AND status = ? AND student_id IN ?", classID, enrollmentModel.StatusEnrolled, studentIDs).
		Pluck("student_id", &enrolled).Error
	if err != nil {
		return err
	}
	ok := make(map[uint]bool, len(enrolled))
	for _, id := range enrolled {
		ok[id] = true
	}
	fields := map[string][]string{}
	for _, id := range studentIDs {
		if !ok[id] {
			fields["student_id"] = append(fields["student_id"], fmt.Sprintf("Student %d is not enrolled in class %d", id, classID))
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

func (s *AttendanceService) Update(ctx context.Context, actor string, id uint, req dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error) {
	u := s.uows.New()
	m, err := attendances(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Attendance", id)
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.Remarks != nil {
		m.Remarks = *req.Remarks
	}
	attendances(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *AttendanceService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := attendances(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Attendance", id)
	}
	attendances(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

/* ===============================
   Reads
=================================*/

func (s *AttendanceService) GetByID(ctx context.Context, id uint) (*dto.AttendanceResponse, error) {
	m, err := attendances(s.uows.New()).FirstWhere(ctx, withRelations, uow.Where("attendances.id = ?", id))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Attendance", id)
	}
	resp := dto.FromModel(m)
	return &resp, nil
}

func (s *AttendanceService) ByClassDate(ctx context.Context, classID uint, date time.Time) ([]dto.AttendanceResponse, error) {
	rows, err := attendances(s.uows.New()).Find(ctx, withRelations,
		uow.Where("class_id = ? AND date = ?", classID, Day(date)),
		func(db *gorm.DB) *gorm.DB { return db.Order("student_id ASC") })
	if err != nil {
		return nil, err
	}
	return dto.FromModels(rows), nil
}

// ByStudent dengan filter kelas & rentang tanggal opsional (inklusif).
func (s *AttendanceService) ByStudent(ctx context.Context, studentID uint, classID *uint, from, to *time.Time) ([]dto.AttendanceResponse, error) {
	preds := append(studentScope(studentID, classID, from, to), withRelations,
		func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") })
	rows, err := attendances(s.uows.New()).Find(ctx, preds...)
	if err != nil {
		return nil, err
	}
	return dto.FromModels(rows), nil
}

func (s *AttendanceService) StudentSummary(ctx context.Context, studentID uint, classID *uint, from, to *time.Time) (*dto.AttendanceSummary, error) {
	return s.summarize(ctx, studentScope(studentID, classID, from, to)...)
}

func (s *AttendanceService) ClassSummary(ctx context.Context, classID uint) (*dto.AttendanceSummary, error) {
	return s.summarize(ctx, uow.Where("class_id = ?", classID))
}

type statusCount struct {
	Status string
	N      int
}

func (s *AttendanceService) summarize(ctx context.Context, preds ...uow.Predicate) (*dto.AttendanceSummary, error) {
	var counts []statusCount
	err := attendances(s.uows.New()).Query(ctx).Scopes(preds...).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	sum := &dto.AttendanceSummary{}
	for _, c := range counts {
		sum.Add(c.Status, c.N)
	}
	sum.Finish()
	return sum, nil
}

func studentScope(studentID uint, classID *uint, from, to *time.Time) []uow.Predicate {
	preds := []uow.Predicate{uow.Where("student_id = ?", studentID)}
	if classID != nil {
		preds = append(preds, uow.Where("class_id = ?", *classID))
	}
	if from != nil {
		preds = append(preds, uow.Where("date >= ?", Day(*from)))
	}
	if to != nil {
		preds = append(preds, uow.Where("date <= ?", Day(*to)))
	}
	return preds
}
