package dto

import (
	"time"

	attendanceDto "schoolku_backend/internals/features/school/attendance/dto"
	gradeDto "schoolku_backend/internals/features/school/grades/dto"
)

type ReportStudent struct {
	ID             uint   `json:"id"`
	StudentNumber  string `json:"student_number"`
	Name           string `json:"name"`
	GradeLevel     int    `json:"grade_level,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`
}

// ReportCardClass: nilai dan kehadiran siswa di satu kelas.
type ReportCardClass struct {
	gradeDto.ClassGrade
	Attendance attendanceDto.AttendanceSummary `json:"attendance"`
}

// ReportCard: rapor siswa.
type ReportCard struct {
	Student      ReportStudent                   `json:"student"`
	GPA          float64                         `json:"gpa"`
	TotalCredits int                             `json:"total_credits"`
	Classes      []ReportCardClass               `json:"classes"`
	Attendance   attendanceDto.AttendanceSummary `json:"attendance"`
	GeneratedAt  time.Time                       `json:"generated_at"`
}

type ClassReport struct {
	ClassID         uint                            `json:"class_id"`
	ClassName       string                          `json:"class_name"`
	CourseCode      string                          `json:"course_code,omitempty"`
	CourseName      string                          `json:"course_name,omitempty"`
	TeacherName     string                          `json:"teacher_name,omitempty"`
	AcademicYear    string                          `json:"academic_year"`
	Semester        string                          `json:"semester"`
	MaxStudents     int                             `json:"max_students"`
	EnrolledCount   int64                           `json:"enrolled_count"`
	CompletedCount  int64                           `json:"completed_count"`
	DroppedCount    int64                           `json:"dropped_count"`
	AssignmentCount int64                           `json:"assignment_count"`
	Grades          gradeDto.ClassStatistics        `json:"grades"`
	Attendance      attendanceDto.AttendanceSummary `json:"attendance"`
	GeneratedAt     time.Time                       `json:"generated_at"`
}

// Dashboard: ringkasan jumlah data aktif.
type Dashboard struct {
	Students           int64     `json:"students"`
	Teachers           int64     `json:"teachers"`
	Departments        int64     `json:"departments"`
	Courses            int64     `json:"courses"`
	Classes            int64     `json:"classes"`
	ActiveEnrollments  int64     `json:"active_enrollments"`
	Assignments        int64     `json:"assignments"`
	PendingSubmissions int64     `json:"pending_submissions"`
	GeneratedAt        time.Time `json:"generated_at"`
}
