package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	classModel "schoolku_backend/internals/features/school/classes/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	"schoolku_backend/internals/features/school/grades/dto"
	"schoolku_backend/internals/features/school/grades/model"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

type GradeService struct {
	uows *uow.Factory
	log  zerolog.Logger
	now  func() time.Time
}

func NewGradeService(uows *uow.Factory, logger zerolog.Logger) *GradeService {
	return &GradeService{
		uows: uows,
		log:  logger.With().Str("component", "grade_service").Logger(),
		now:  time.Now,
	}
}

func grades(u *uow.UnitOfWork) *uow.Repository[model.GradeModel, uint] {
	return uow.Use[model.GradeModel, uint](u)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Class")
}

func byDate(db *gorm.DB) *gorm.DB {
	return db.Order("graded_date ASC, id ASC")
}

// score dihitung ulang setiap kali nilai berubah.
func score(m *model.GradeModel) error {
	if m.Score > m.MaxScore {
		return apperror.ValidationField("score", "Score cannot exceed max score")
	}
	m.Percentage = model.Percentage(m.Score, m.MaxScore)
	m.LetterGrade = model.LetterFor(m.Percentage)
	return nil
}

/* ===============================
   Reads
=================================*/

func (s *GradeService) GetByID(ctx context.Context, id uint) (*dto.GradeResponse, error) {
	m, err := grades(s.uows.New()).FirstWhere(ctx, withRelations, uow.Where("grades.id = ?", id))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Grade", id)
	}
	resp := dto.FromModel(m)
	return &resp, nil
}

// ByStudent; classID opsional untuk menyaring satu kelas.
func (s *GradeService) ByStudent(ctx context.Context, studentID uint, classID *uint) ([]dto.GradeResponse, error) {
	preds := []uow.Predicate{withRelations, byDate, uow.Where("student_id = ?", studentID)}
	if classID != nil {
		preds = append(preds, uow.Where("class_id = ?", *classID))
	}
	rows, err := grades(s.uows.New()).Find(ctx, preds...)
	if err != nil {
		return nil, err
	}
	return dto.FromModels(rows), nil
}

func (s *GradeService) ByClass(ctx context.Context, classID uint) ([]dto.GradeResponse, error) {
	rows, err := grades(s.uows.New()).Find(ctx, withRelations, byDate, uow.Where("class_id = ?", classID))
	if err != nil {
		return nil, err
	}
	return dto.FromModels(rows), nil
}

/* ===============================
   Writes
=================================*/

// Record mensyaratkan siswa pernah terdaftar (bukan Dropped) di kelas tsb.
func (s *GradeService) Record(ctx context.Context, actor string, gradedBy *uint, req dto.CreateGradeRequest) (*dto.GradeResponse, error) {
	u := s.uows.New()
	enrolled, err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).Any(ctx,
		uow.Where("student_id = ? AND class_id = ? AND status <> ?", req.StudentID, req.ClassID, enrollmentModel.StatusDropped))
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperror.BadRequest("Student is not enrolled in this class")
	}

	m := &model.GradeModel{
		StudentID:      req.StudentID,
		ClassID:        req.ClassID,
		AssessmentType: req.AssessmentType,
		Title:          req.Title,
		Score:          req.Score,
		MaxScore:       req.MaxScore,
		Weight:         req.Weight,
		GradedDate:     s.now().UTC(),
		Comments:       req.Comments,
		GradedByID:     gradedBy,
	}
	if req.GradedDate != nil {
		m.GradedDate = *req.GradedDate
	}
	if err := score(m); err != nil {
		return nil, err
	}
	grades(u).Add(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Uint("student_id", m.StudentID).Uint("class_id", m.ClassID).Str("letter", m.LetterGrade).Msg("📝 Grade dicatat")
	return s.GetByID(ctx, m.ID)
}

func (s *GradeService) Update(ctx context.Context, actor string, id uint, req dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	u := s.uows.New()
	m, err := grades(u).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Grade", id)
	}
	req.ApplyToModel(m)
	if err := score(m); err != nil {
		return nil, err
	}
	grades(u).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *GradeService) Delete(ctx context.Context, actor string, id uint) error {
	u := s.uows.New()
	m, err := grades(u).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("Grade", id)
	}
	grades(u).Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

/* ===============================
   GPA & statistik
=================================*/

// StudentGPA: IPK skala 4.0 berbobot SKS. Kelas Completed memakai nilai
// akhir enrollment; kelas berjalan memakai rata-rata berbobot nilai yang ada.
// Kelas tanpa nilai sama sekali tidak dihitung.
func (s *GradeService) StudentGPA(ctx context.Context, studentID uint) (*dto.GPAResponse, error) {
	u := s.uows.New()
	rows, err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).Find(ctx,
		uow.Where("student_id = ? AND status <> ?", studentID, enrollmentModel.StatusDropped),
		func(db *gorm.DB) *gorm.DB { return db.Preload("Class").Preload("Class.Course").Order("id ASC") })
	if err != nil {
		return nil, err
	}
	all, err := grades(u).Find(ctx, uow.Where("student_id = ?", studentID))
	if err != nil {
		return nil, err
	}
	perClass := map[uint][]model.GradeModel{}
	for _, g := range all {
		perClass[g.ClassID] = append(perClass[g.ClassID], g)
	}

	res := &dto.GPAResponse{StudentID: studentID, Classes: []dto.ClassGrade{}}
	var points float64
	for _, e := range rows {
		cg := dto.ClassGrade{ClassID: e.ClassID, Status: e.Status, GradeCount: len(perClass[e.ClassID])}
		describeClass(&cg, e.Class)

		switch {
		case e.Status == enrollmentModel.StatusCompleted && e.FinalGrade != nil:
			cg.Percentage = *e.FinalGrade
		case cg.GradeCount > 0:
			cg.Percentage = WeightedPercentage(perClass[e.ClassID])
		default:
			res.Classes = append(res.Classes, cg)
			continue
		}
		cg.LetterGrade = model.LetterFor(cg.Percentage)
		cg.GradePoint = model.GradePoint(cg.LetterGrade)
		res.Classes = append(res.Classes, cg)

		points += cg.GradePoint * float64(cg.Credits)
		res.TotalCredits += cg.Credits
	}
	if res.TotalCredits > 0 {
		res.GPA = model.Round2(points / float64(res.TotalCredits))
	}
	return res, nil
}

func describeClass(cg *dto.ClassGrade, c *classModel.ClassModel) {
	if c == nil {
		return
	}
	cg.ClassName = c.Name
	if c.Course != nil {
		cg.CourseCode = c.Course.Code
		cg.CourseName = c.Course.Name
		cg.Credits = c.Course.Credits
	}
}

// WeightedPercentage: rata-rata persentase berbobot Weight; bila semua
// bobot nol dipakai rata-rata biasa.
func WeightedPercentage(rows []model.GradeModel) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum, weights, plain float64
	for _, g := range rows {
		sum += g.Percentage * g.Weight
		weights += g.Weight
		plain += g.Percentage
	}
	if weights == 0 {
		return model.Round2(plain / float64(len(rows)))
	}
	return model.Round2(sum / weights)
}

type classAggregate struct {
	GradeCount   int64
	StudentCount int64
	Average      float64
	Highest      float64
	Lowest       float64
}

type letterCount struct {
	LetterGrade string
	N           int
}

func (s *GradeService) ClassStatistics(ctx context.Context, classID uint) (*dto.ClassStatistics, error) {
	u := s.uows.New()
	ok, err := uow.Use[classModel.ClassModel, uint](u).Any(ctx, uow.Where("id = ?", classID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("Class", classID)
	}

	var agg classAggregate
	if err := grades(u).Query(ctx).
		Select("COUNT(*) AS grade_count, COUNT(DISTINCT student_id) AS student_count, "+
			"COALESCE(AVG(percentage), 0) AS average, COALESCE(MAX(percentage), 0) AS highest, COALESCE(MIN(percentage), 0) AS lowest").
		Where("class_id = ?", classID).
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	var letters []letterCount
	if err := grades(u).Query(ctx).
		Select("letter_grade, COUNT(*) AS n").
		Where("class_id = ?", classID).
		Group("letter_grade").
		Scan(&letters).Error; err != nil {
		return nil, err
	}
	dist := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0}
	for _, l := range letters {
		dist[l.LetterGrade] = l.N
	}

	return &dto.ClassStatistics{
		ClassID:      classID,
		GradeCount:   agg.GradeCount,
		StudentCount: agg.StudentCount,
		Average:      model.Round2(agg.Average),
		Highest:      agg.Highest,
		Lowest:       agg.Lowest,
		Distribution: dist,
	}, nil
}
