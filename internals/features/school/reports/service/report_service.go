package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	assignmentModel "schoolku_backend/internals/features/school/assignments/model"
	attendanceDto "schoolku_backend/internals/features/school/attendance/dto"
	classModel "schoolku_backend/internals/features/school/classes/model"
	courseModel "schoolku_backend/internals/features/school/courses/model"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	gradeDto "schoolku_backend/internals/features/school/grades/dto"
	"schoolku_backend/internals/features/school/reports/dto"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

type GradeSource interface {
	StudentGPA(ctx context.Context, studentID uint) (*gradeDto.GPAResponse, error)
	ClassStatistics(ctx context.Context, classID uint) (*gradeDto.ClassStatistics, error)
}

type AttendanceSource interface {
	StudentSummary(ctx context.Context, studentID uint, classID *uint, from, to *time.Time) (*attendanceDto.AttendanceSummary, error)
	ClassSummary(ctx context.Context, classID uint) (*attendanceDto.AttendanceSummary, error)
}

// ReportService merangkai nilai dan kehadiran; tidak menulis apa pun.
type ReportService struct {
	uows       *uow.Factory
	grades     GradeSource
	attendance AttendanceSource
	log        zerolog.Logger
	now        func() time.Time
}

func NewReportService(uows *uow.Factory, grades GradeSource, attendance AttendanceSource, logger zerolog.Logger) *ReportService {
	return &ReportService{
		uows:       uows,
		grades:     grades,
		attendance: attendance,
		log:        logger.With().Str("component", "report_service").Logger(),
		now:        time.Now,
	}
}

// ReportCard: semua kelas non-drop siswa beserta IPK dan kehadiran.
func (s *ReportService) ReportCard(ctx context.Context, studentID uint) (*dto.ReportCard, error) {
	st, err := uow.Use[studentModel.StudentModel, uint](s.uows.New()).FirstWhere(ctx,
		func(db *gorm.DB) *gorm.DB { return db.Preload("Department") },
		uow.Where("students.id = ?", studentID))
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperror.NotFound("Student", studentID)
	}

	gpa, err := s.grades.StudentGPA(ctx, studentID)
	if err != nil {
		return nil, err
	}
	overall, err := s.attendance.StudentSummary(ctx, studentID, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	card := &dto.ReportCard{
		Student: dto.ReportStudent{
			ID:            st.ID,
			StudentNumber: st.StudentNumber,
			Name:          st.FullName(),
			GradeLevel:    st.GradeLevel,
		},
		GPA:          gpa.GPA,
		TotalCredits: gpa.TotalCredits,
		Classes:      make([]dto.ReportCardClass, 0, len(gpa.Classes)),
		Attendance:   *overall,
		GeneratedAt:  s.now().UTC(),
	}
	if st.Department != nil {
		card.Student.DepartmentName = st.Department.Name
	}
	for _, cg := range gpa.Classes {
		classID := cg.ClassID
		att, err := s.attendance.StudentSummary(ctx, studentID, &classID, nil, nil)
		if err != nil {
			return nil, err
		}
		card.Classes = append(card.Classes, dto.ReportCardClass{ClassGrade: cg, Attendance: *att})
	}
	return card, nil
}

func (s *ReportService) ClassReport(ctx context.Context, classID uint) (*dto.ClassReport, error) {
	u := s.uows.New()
	class, err := uow.Use[classModel.ClassModel, uint](u).FirstWhere(ctx,
		func(db *gorm.DB) *gorm.DB { return db.Preload("Course").Preload("Teacher") },
		uow.Where("classes.id = ?", classID))
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, apperror.NotFound("Class", classID)
	}

	rep := &dto.ClassReport{
		ClassID:      class.ID,
		ClassName:    class.Name,
		AcademicYear: class.AcademicYear,
		Semester:     class.Semester,
		MaxStudents:  class.MaxStudents,
		GeneratedAt:  s.now().UTC(),
	}
	if class.Course != nil {
		rep.CourseCode = class.Course.Code
		rep.CourseName = class.Course.Name
	}
	if class.Teacher != nil {
		rep.TeacherName = class.Teacher.FullName()
	}

	var byStatus []struct {
		Status string
		N      int64
	}
	if err := uow.Use[enrollmentModel.EnrollmentModel, uint](u).Query(ctx).
		Select("status, COUNT(*) AS n").
		Where("class_id = ?", classID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		switch row.Status {
		case enrollmentModel.StatusEnrolled:
			rep.EnrolledCount = row.N
		case enrollmentModel.StatusCompleted:
			rep.CompletedCount = row.N
		case enrollmentModel.StatusDropped:
			rep.DroppedCount = row.N
		}
	}

	if rep.AssignmentCount, err = uow.Use[assignmentModel.AssignmentModel, uint](u).Count(ctx, uow.Where("class_id = ?", classID)); err != nil {
		return nil, err
	}

	stats, err := s.grades.ClassStatistics(ctx, classID)
	if err != nil {
		return nil, err
	}
	rep.Grades = *stats
	att, err := s.attendance.ClassSummary(ctx, classID)
	if err != nil {
		return nil, err
	}
	rep.Attendance = *att
	return rep, nil
}

// Dashboard menghitung data aktif per entitas.
func (s *ReportService) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	u := s.uows.New()
	d := &dto.Dashboard{GeneratedAt: s.now().UTC()}

	counts := []struct {
		dst  *int64
		load func() (int64, error)
	}{
		{&d.Students, func() (int64, error) { return uow.Use[studentModel.StudentModel, uint](u).Count(ctx) }},
		{&d.Teachers, func() (int64, error) { return uow.Use[teacherModel.TeacherModel, uint](u).Count(ctx) }},
		{&d.Departments, func() (int64, error) { return uow.Use[deptModel.DepartmentModel, uint](u).Count(ctx) }},
		{&d.Courses, func() (int64, error) { return uow.Use[courseModel.CourseModel, uint](u).Count(ctx) }},
		{&d.Classes, func() (int64, error) { return uow.Use[classModel.ClassModel, uint](u).Count(ctx) }},
		{&d.ActiveEnrollments, func() (int64, error) {
			return uow.Use[enrollmentModel.EnrollmentModel, uint](u).Count(ctx, uow.Where("status = ?", enrollmentModel.StatusEnrolled))
		}},
		{&d.Assignments, func() (int64, error) { return uow.Use[assignmentModel.AssignmentModel, uint](u).Count(ctx) }},
		{&d.PendingSubmissions, func() (int64, error) {
			return uow.Use[assignmentModel.SubmissionModel, uint](u).Count(ctx, uow.Where("status = ?", assignmentModel.SubmissionSubmitted))
		}},
	}
	for _, c := range counts {
		n, err := c.load()
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return d, nil
}
