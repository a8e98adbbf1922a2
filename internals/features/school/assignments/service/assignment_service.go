package service

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	notifDto "schoolku_backend/internals/features/notifications/notifications/dto"
	notifModel "schoolku_backend/internals/features/notifications/notifications/model"
	"schoolku_backend/internals/features/school/assignments/dto"
	"schoolku_backend/internals/features/school/assignments/model"
	classModel "schoolku_backend/internals/features/school/classes/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/storage"
)

// Notifier dipakai untuk memberi tahu siswa; boleh nil.
type Notifier interface {
	Send(ctx context.Context, actor string, req notifDto.SendNotificationRequest) (*notifDto.NotificationResponse, error)
}

type AssignmentService struct {
	uows   *uow.Factory
	files  *storage.Uploader
	notify Notifier
	log    zerolog.Logger
	now    func() time.Time
}

func NewAssignmentService(uows *uow.Factory, files *storage.Uploader, notify Notifier, logger zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		uows:   uows,
		files:  files,
		notify: notify,
		log:    logger.With().Str("component", "assignment_service").Logger(),
		now:    time.Now,
	}
}

func assignments(u *uow.UnitOfWork) *uow.Repository[model.AssignmentModel, uint] {
	return uow.Use[model.AssignmentModel, uint](u)
}

func submissions(u *uow.UnitOfWork) *uow.Repository[model.SubmissionModel, uint] {
	return uow.Use[model.SubmissionModel, uint](u)
}

func withClass(db *gorm.DB) *gorm.DB {
	return db.Preload("Class")
}

func withSubmissionRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Assignment").Preload("Student")
}

func (s *AssignmentService) toResponses(ctx context.Context, u *uow.UnitOfWork, rows []model.AssignmentModel) ([]dto.AssignmentResponse, error) {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	counts := map[uint]int64{}
	if len(ids) > 0 {
		var err error
		counts, err = submissions(u).CountGrouped(ctx, "assignment_id", uow.Where("assignment_id IN ?", ids))
		if err != nil {
			return nil, err
		}
	}
	out := make([]dto.AssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], counts[rows[i].ID]))
	}
	return out, nil
}

/* =========================================================
   ASSIGNMENT
========================================================= */

// List dengan paging; search mencocokkan judul.
func (s *AssignmentService) List(ctx context.Context, p helper.Paging, classID *uint) ([]dto.AssignmentResponse, int64, error) {
	u := s.uows.New()
	q := assignments(u).Query(ctx)
	if p.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(p.Search)+"%")
	}
	if classID != nil {
		q = q.Where("class_id = ?", *classID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.AssignmentModel
	if err := q.Scopes(withClass).Order("due_date ASC, id ASC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.toResponses(ctx, u, rows)
	return out, total, err
}

func (s *AssignmentService) ByClass(ctx context.Context, classID uint) ([]dto.AssignmentResponse, error) {
	u := s.uows.New()
	rows, err := assignments(u).Find(ctx, withClass, uow.Where("class_id = ?", classID),
		func(db *gorm.DB) *gorm.DB { return db.Order("due_date ASC, id ASC") })
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, u, rows)
}

func (s *AssignmentService) GetByID(ctx context.Context, id uint) (*dto.AssignmentResponse, error) {
	u := s.uows.New()
	m, err := assignments(u).FirstWhere(ctx, withClass, uow.Where("assignments.id = ?", id))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Assignment", id)
	}
	n, err := submissions(u).Count(ctx, uow.Where("assignment_id = ?", id))
	if err != nil {
		return nil, err
	}
	resp := dto.FromModel(m, n)
	return &resp, nil
}

// Create lalu memberi tahu siswa yang terdaftar di kelas.
func (s *AssignmentService) Create(ctx context.Context, actor string, req dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	u := s.uows.New()
	class, err := uow.Use[classModel.ClassModel, uint](u).GetByID(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, apperror.NotFound("Class", req.ClassID)
	}

	m := req.ToModel()
	assignments(u).Add(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}

	s.notifyClass(ctx, actor, m.ClassID,
		"Tugas baru: "+m.Title,
		fmt.Sprintf("%s, tenggat %s", class.Name, m.DueDate.Format("2006-01-02 15:04")),
		map[string]any{"assignment_id": m.ID})
	return s.GetByID(ctx, m.ID)
}

func (s *AssignmentService) Update(ctx context.Context, actor string, id uint, req dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	u := s.uows.New()
	m, err := assignments(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Assignment", id)
	}
	req.ApplyToModel(m)

	// Nilai yang sudah diberikan tidak boleh melebihi skor maksimum baru.
	var highest sql.NullFloat64
	if err := submissions(u).Query(ctx).
		Where("assignment_id = ? AND score IS NOT NULL", id).
		Select("MAX(score)").Row().Scan(&highest); err != nil {
		return nil, err
	}
	if highest.Valid && highest.Float64 > m.MaxScore {
		return nil, apperror.ValidationField("max_score",
			fmt.Sprintf("Max score cannot be lower than an existing score (%.2f)", highest.Float64))
	}

	assignments(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete ditolak bila sudah ada submission.
func (s *AssignmentService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := assignments(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Assignment", id)
	}
	n, err := submissions(u).Count(ctx, uow.Where("assignment_id = ?", id))
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict("Assignment %s already has %d submission(s)", m.Title, n)
	}
	assignments(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

// UploadAttachment mengganti lampiran soal.
func (s *AssignmentService) UploadAttachment(ctx context.Context, actor string, id uint, fh *multipart.FileHeader) (*dto.AssignmentResponse, error) {
	u := s.uows.New()
	m, err := assignments(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Assignment", id)
	}
	saved, err := s.files.Save(ctx, fh, constants.UploadDocument, "assignments")
	if err != nil {
		return nil, err
	}
	old := m.AttachmentURL
	m.AttachmentURL = &saved.URL
	assignments(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		s.files.Remove(ctx, saved.URL)
		return nil, err
	}
	if old != nil {
		s.files.Remove(ctx, *old)
	}
	return s.GetByID(ctx, id)
}

/* =========================================================
   SUBMISSION
========================================================= */

// Submit menyimpan jawaban siswa. Satu submission hidup per siswa per tugas:
// submission yang belum dinilai diganti, yang sudah dinilai dikunci.
func (s *AssignmentService) Submit(ctx context.Context, actor string, studentID, assignmentID uint, content string, fh *multipart.FileHeader) (*dto.SubmissionResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" && fh == nil {
		return nil, apperror.ValidationField("content", "Content or file is required")
	}

	u := s.uows.New()
	a, err := assignments(u).GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("Assignment", assignmentID)
	}
	enrolled, err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).Any(ctx,
		uow.Where("student_id = ? AND class_id = ? AND status = ?", studentID, a.ClassID, enrollmentModel.StatusEnrolled))
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperror.BadRequest("Student is not enrolled in this class")
	}

	existing, err := submissions(u).FirstWhere(ctx, uow.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID))
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == model.SubmissionGraded {
		return nil, apperror.Conflict("Submission has already been graded")
	}

	var saved *storage.Uploaded
	if fh != nil {
		if saved, err = s.files.Save(ctx, fh, constants.UploadAssignment, "assignments/submissions"); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	sub := existing
	var oldFile *string
	if sub == nil {
		sub = &model.SubmissionModel{AssignmentID: assignmentID, StudentID: studentID}
		submissions(u).Add(sub)
	} else {
		oldFile = sub.FileURL
		submissions(u).Update(sub)
	}
	sub.Content = content
	sub.SubmittedAt = now
	sub.IsLate = now.After(a.DueDate)
	sub.Status = model.SubmissionSubmitted
	if saved != nil {
		sub.FileURL = &saved.URL
		sub.FileName = &saved.FileName
	} else {
		sub.FileURL, sub.FileName = nil, nil
	}

	if _, err := u.Complete(ctx, actor); err != nil {
		if saved != nil {
			s.files.Remove(ctx, saved.URL)
		}
		return nil, err
	}
	if oldFile != nil {
		s.files.Remove(ctx, *oldFile)
	}
	if sub.IsLate {
		s.log.Info().Uint("assignment_id", assignmentID).Uint("student_id", studentID).Msg("⏰ Submission terlambat")
	}
	return s.GetSubmission(ctx, sub.ID)
}

// Grade menilai submission dan mengabari siswa.
func (s *AssignmentService) Grade(ctx context.Context, actor string, id uint, req dto.GradeSubmissionRequest) (*dto.SubmissionResponse, error) {
	u := s.uows.New()
	sub, err := submissions(u).FirstWhere(ctx, withSubmissionRelations, uow.Where("submissions.id = ?", id))
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.Assignment == nil {
		return nil, apperror.NotFound("Submission", id)
	}
	if req.Score > sub.Assignment.MaxScore {
		return nil, apperror.ValidationField("score",
			fmt.Sprintf("Score cannot exceed max score %.2f", sub.Assignment.MaxScore))
	}

	now := s.now().UTC()
	score := gradeModel.Round2(req.Score)
	sub.Score = &score
	sub.Feedback = req.Feedback
	sub.Status = model.SubmissionGraded
	sub.GradedAt = &now
	if actor != "" {
		sub.GradedByID = &actor
	}
	submissions(u).Update(sub)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}

	if sub.Student != nil && sub.Student.UserID != nil {
		s.send(ctx, actor, *sub.Student.UserID,
			"Nilai tugas: "+sub.Assignment.Title,
			fmt.Sprintf("Nilai kamu %.2f dari %.2f", score, sub.Assignment.MaxScore),
			notifModel.TypeGrade,
			map[string]any{"assignment_id": sub.AssignmentID, "submission_id": sub.ID})
	}
	resp := dto.FromSubmission(sub)
	return &resp, nil
}

func (s *AssignmentService) GetSubmission(ctx context.Context, id uint) (*dto.SubmissionResponse, error) {
	sub, err := submissions(s.uows.New()).FirstWhere(ctx, withSubmissionRelations, uow.Where("submissions.id = ?", id))
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("Submission", id)
	}
	resp := dto.FromSubmission(sub)
	return &resp, nil
}

func (s *AssignmentService) SubmissionsByAssignment(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error) {
	rows, err := submissions(s.uows.New()).Find(ctx, withSubmissionRelations,
		uow.Where("assignment_id = ?", assignmentID),
		func(db *gorm.DB) *gorm.DB { return db.Order("submitted_at ASC") })
	if err != nil {
		return nil, err
	}
	return dto.FromSubmissions(rows), nil
}

// SubmissionsByStudent; classID opsional.
func (s *AssignmentService) SubmissionsByStudent(ctx context.Context, studentID uint, classID *uint) ([]dto.SubmissionResponse, error) {
	preds := []uow.Predicate{withSubmissionRelations, uow.Where("submissions.student_id = ?", studentID)}
	if classID != nil {
		preds = append(preds, func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
				Where("assignments.class_id = ?", *classID)
		})
	}
	preds = append(preds, func(db *gorm.DB) *gorm.DB { return db.Order("submissions.submitted_at DESC") })
	rows, err := submissions(s.uows.New()).Find(ctx, preds...)
	if err != nil {
		return nil, err
	}
	return dto.FromSubmissions(rows), nil
}

/* =========================================================
   NOTIFIKASI
========================================================= */

// notifyClass mengabari siswa aktif di kelas yang punya akun.
func (s *AssignmentService) notifyClass(ctx context.Context, actor string, classID uint, title, message string, data map[string]any) {
	if s.notify == nil {
		return
	}
	var userIDs []string
	err := uow.Use[studentModel.StudentModel, uint](s.uows.New()).Query(ctx).
		Joins("JOIN enrollments ON enrollments.student_id = students.id").
		Where("enrollments.class_id = ? AND enrollments.status = ?", classID, enrollmentModel.StatusEnrolled).
		Where("students.user_id IS NOT NULL").
		Pluck("students.user_id", &userIDs).Error
	if err != nil {
		s.log.Warn().Err(err).Uint("class_id", classID).Msg("⚠️ Gagal mengambil penerima notifikasi")
		return
	}
	for _, id := range userIDs {
		s.send(ctx, actor, id, title, message, notifModel.TypeAssignment, data)
	}
}

// send: kegagalan notifikasi tidak menggagalkan operasi utama.
func (s *AssignmentService) send(ctx context.Context, actor, userID, title, message, typ string, data map[string]any) {
	if s.notify == nil {
		return
	}
	_, err := s.notify.Send(ctx, actor, notifDto.SendNotificationRequest{
		UserID: userID, Title: title, Message: message, Type: typ, Data: data,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Notifikasi gagal dikirim")
	}
}
