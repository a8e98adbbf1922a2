package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"schoolku_backend/internals/features/school/classes/model"
)

type CreateClassRequest struct {
	Name         string               `json:"name" validate:"required,max=100"`
	Section      string               `json:"section" validate:"omitempty,max=20"`
	AcademicYear string               `json:"academic_year" validate:"required,max=20"`
	Semester     string               `json:"semester" validate:"required,max=20"`
	Room         string               `json:"room" validate:"omitempty,max=50"`
	MaxStudents  int                  `json:"max_students" validate:"required,min=1,max=500"`
	StartDate    time.Time            `json:"start_date" validate:"required"`
	EndDate      time.Time            `json:"end_date" validate:"required"`
	Schedule     []model.ScheduleSlot `json:"schedule" validate:"omitempty,dive"`
	CourseID     uint                 `json:"course_id" validate:"required,gt=0"`
	TeacherID    *uint                `json:"teacher_id" validate:"omitempty,gt=0"`
}

type UpdateClassRequest struct {
	Name         *string    `json:"name" validate:"omitempty,max=100"`
	Section      *string    `json:"section" validate:"omitempty,max=20"`
	AcademicYear *string    `json:"academic_year" validate:"omitempty,max=20"`
	Semester     *string    `json:"semester" validate:"omitempty,max=20"`
	Room         *string    `json:"room" validate:"omitempty,max=50"`
	MaxStudents  *int       `json:"max_students" validate:"omitempty,min=1,max=500"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	TeacherID    *uint      `json:"teacher_id" validate:"omitempty,gt=0"`
}

type UpdateScheduleRequest struct {
	Schedule []model.ScheduleSlot `json:"schedule" validate:"dive"`
}

func (r CreateClassRequest) ToModel() *model.ClassModel {
	slots := r.Schedule
	if slots == nil {
		slots = []model.ScheduleSlot{}
	}
	return &model.ClassModel{
		Name:         strings.TrimSpace(r.Name),
		Section:      strings.TrimSpace(r.Section),
		AcademicYear: strings.TrimSpace(r.AcademicYear),
		Semester:     strings.TrimSpace(r.Semester),
		Room:         strings.TrimSpace(r.Room),
		MaxStudents:  r.MaxStudents,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Schedule:     datatypes.NewJSONType(slots),
		CourseID:     r.CourseID,
		TeacherID:    r.TeacherID,
	}
}

func (r UpdateClassRequest) ApplyToModel(m *model.ClassModel) {
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&m.Name, r.Name},
		{&m.Section, r.Section},
		{&m.AcademicYear, r.AcademicYear},
		{&m.Semester, r.Semester},
		{&m.Room, r.Room},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
	if r.MaxStudents != nil {
		m.MaxStudents = *r.MaxStudents
	}
	if r.StartDate != nil {
		m.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		m.EndDate = *r.EndDate
	}
	if r.TeacherID != nil {
		m.TeacherID = r.TeacherID
	}
}

type ClassResponse struct {
	ID             uint                 `json:"id"`
	Name           string               `json:"name"`
	Section        string               `json:"section,omitempty"`
	AcademicYear   string               `json:"academic_year"`
	Semester       string               `json:"semester"`
	Room           string               `json:"room,omitempty"`
	MaxStudents    int                  `json:"max_students"`
	EnrolledCount  int64                `json:"enrolled_count"`
	AvailableSeats int64                `json:"available_seats"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        time.Time            `json:"end_date"`
	Schedule       []model.ScheduleSlot `json:"schedule"`
	CourseID       uint                 `json:"course_id"`
	CourseCode     string               `json:"course_code,omitempty"`
	CourseName     string               `json:"course_name,omitempty"`
	Credits        int                  `json:"credits,omitempty"`
	TeacherID      *uint                `json:"teacher_id,omitempty"`
	TeacherName    string               `json:"teacher_name,omitempty"`
	IsActive       bool                 `json:"is_active"`
	CreatedDate    time.Time            `json:"created_date"`
}

func FromModel(m *model.ClassModel, enrolled int64) ClassResponse {
	slots := m.Schedule.Data()
	if slots == nil {
		slots = []model.ScheduleSlot{}
	}
	free := int64(m.MaxStudents) - enrolled
	if free < 0 {
		free = 0
	}
	r := ClassResponse{
		ID:             m.ID,
		Name:           m.Name,
		Section:        m.Section,
		AcademicYear:   m.AcademicYear,
		Semester:       m.Semester,
		Room:           m.Room,
		MaxStudents:    m.MaxStudents,
		EnrolledCount:  enrolled,
		AvailableSeats: free,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		Schedule:       slots,
		CourseID:       m.CourseID,
		TeacherID:      m.TeacherID,
		IsActive:       m.IsActive,
		CreatedDate:    m.CreatedDate,
	}
	if m.Course != nil {
		r.CourseCode = m.Course.Code
		r.CourseName = m.Course.Name
		r.Credits = m.Course.Credits
	}
	if m.Teacher != nil {
		r.TeacherName = m.Teacher.FullName()
	}
	return r
}

// RosterEntry satu siswa terdaftar di kelas.
type RosterEntry struct {
	EnrollmentID   uint      `json:"enrollment_id"`
	StudentID      uint      `json:"student_id"`
	StudentNumber  string    `json:"student_number"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}
