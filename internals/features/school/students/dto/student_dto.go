package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/school/students/model"
)

/* ===============================
   Requests
=================================*/

type CreateStudentRequest struct {
	UserID         *string   `json:"user_id" validate:"omitempty,uuid"`
	StudentNumber  string    `json:"student_number" validate:"required,max=30"`
	FirstName      string    `json:"first_name" validate:"required,max=100"`
	LastName       string    `json:"last_name" validate:"omitempty,max=100"`
	Email          string    `json:"email" validate:"required,email,max=255"`
	Phone          string    `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth    time.Time `json:"date_of_birth" validate:"required"`
	Gender         string    `json:"gender" validate:"omitempty,oneof=Male Female"`
	Address        string    `json:"address" validate:"omitempty,max=500"`
	EnrollmentDate time.Time `json:"enrollment_date" validate:"required"`
	GradeLevel     int       `json:"grade_level" validate:"omitempty,min=1,max=12"`
	GuardianName   string    `json:"guardian_name" validate:"omitempty,max=150"`
	GuardianPhone  string    `json:"guardian_phone" validate:"omitempty,max=30"`
	DepartmentID   *uint     `json:"department_id" validate:"omitempty,gt=0"`
}

type UpdateStudentRequest struct {
	FirstName     *string    `json:"first_name" validate:"omitempty,max=100"`
	LastName      *string    `json:"last_name" validate:"omitempty,max=100"`
	Email         *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string    `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        *string    `json:"gender" validate:"omitempty,oneof=Male Female"`
	Address       *string    `json:"address" validate:"omitempty,max=500"`
	GradeLevel    *int       `json:"grade_level" validate:"omitempty,min=1,max=12"`
	GuardianName  *string    `json:"guardian_name" validate:"omitempty,max=150"`
	GuardianPhone *string    `json:"guardian_phone" validate:"omitempty,max=30"`
	DepartmentID  *uint      `json:"department_id" validate:"omitempty,gt=0"`
	GraduatedAt   *time.Time `json:"graduated_at"`
}

type BulkCreateStudentRequest struct {
	Students []CreateStudentRequest `json:"students" validate:"required,min=1,max=500"`
}

func NormalizeStudentNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (r CreateStudentRequest) ToModel() *model.StudentModel {
	return &model.StudentModel{
		UserID:         r.UserID,
		StudentNumber:  NormalizeStudentNumber(r.StudentNumber),
		FirstName:      strings.TrimSpace(r.FirstName),
		LastName:       strings.TrimSpace(r.LastName),
		Email:          strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:          strings.TrimSpace(r.Phone),
		DateOfBirth:    r.DateOfBirth,
		Gender:         r.Gender,
		Address:        strings.TrimSpace(r.Address),
		EnrollmentDate: r.EnrollmentDate,
		GradeLevel:     r.GradeLevel,
		GuardianName:   strings.TrimSpace(r.GuardianName),
		GuardianPhone:  strings.TrimSpace(r.GuardianPhone),
		DepartmentID:   r.DepartmentID,
	}
}

func (r UpdateStudentRequest) ApplyToModel(m *model.StudentModel) {
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&m.FirstName, r.FirstName},
		{&m.LastName, r.LastName},
		{&m.Phone, r.Phone},
		{&m.Gender, r.Gender},
		{&m.Address, r.Address},
		{&m.GuardianName, r.GuardianName},
		{&m.GuardianPhone, r.GuardianPhone},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
	if r.Email != nil {
		m.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.DateOfBirth != nil {
		m.DateOfBirth = *r.DateOfBirth
	}
	if r.GradeLevel != nil {
		m.GradeLevel = *r.GradeLevel
	}
	if r.DepartmentID != nil {
		m.DepartmentID = r.DepartmentID
	}
	if r.GraduatedAt != nil {
		m.GraduatedAt = r.GraduatedAt
	}
}

/* ===============================
   Responses
=================================*/

type StudentResponse struct {
	ID             uint       `json:"id"`
	UserID         *string    `json:"user_id,omitempty"`
	StudentNumber  string     `json:"student_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	DateOfBirth    time.Time  `json:"date_of_birth"`
	Gender         string     `json:"gender,omitempty"`
	Address        string     `json:"address,omitempty"`
	EnrollmentDate time.Time  `json:"enrollment_date"`
	GradeLevel     int        `json:"grade_level,omitempty"`
	GuardianName   string     `json:"guardian_name,omitempty"`
	GuardianPhone  string     `json:"guardian_phone,omitempty"`
	PhotoURL       *string    `json:"photo_url,omitempty"`
	GraduatedAt    *time.Time `json:"graduated_at,omitempty"`
	DepartmentID   *uint      `json:"department_id,omitempty"`
	DepartmentName string     `json:"department_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedDate    time.Time  `json:"created_date"`
}

func FromModel(m *model.StudentModel) StudentResponse {
	r := StudentResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		StudentNumber:  m.StudentNumber,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		FullName:       m.FullName(),
		Email:          m.Email,
		Phone:          m.Phone,
		DateOfBirth:    m.DateOfBirth,
		Gender:         m.Gender,
		Address:        m.Address,
		EnrollmentDate: m.EnrollmentDate,
		GradeLevel:     m.GradeLevel,
		GuardianName:   m.GuardianName,
		GuardianPhone:  m.GuardianPhone,
		PhotoURL:       m.PhotoURL,
		GraduatedAt:    m.GraduatedAt,
		DepartmentID:   m.DepartmentID,
		IsActive:       m.IsActive,
		CreatedDate:    m.CreatedDate,
	}
	if m.Department != nil {
		r.DepartmentName = m.Department.Name
	}
	return r
}

func FromModels(rows []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type StudentDocumentResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	Title       string    `json:"title"`
	FileURL     string    `json:"file_url"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedDate time.Time `json:"created_date"`
}

func FromDocument(d *model.StudentDocumentModel) StudentDocumentResponse {
	return StudentDocumentResponse{
		ID:          d.ID,
		StudentID:   d.StudentID,
		Title:       d.Title,
		FileURL:     d.FileURL,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedDate: d.CreatedDate,
	}
}

// StudentEnrollmentResponse: satu baris riwayat kelas siswa.
type StudentEnrollmentResponse struct {
	EnrollmentID   uint      `json:"enrollment_id"`
	ClassID        uint      `json:"class_id"`
	ClassName      string    `json:"class_name"`
	CourseCode     string    `json:"course_code"`
	CourseName     string    `json:"course_name"`
	Credits        int       `json:"credits"`
	AcademicYear   string    `json:"academic_year"`
	Semester       string    `json:"semester"`
	Status         string    `json:"status"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	FinalGrade     *float64  `json:"final_grade,omitempty"`
	LetterGrade    *string   `json:"letter_grade,omitempty"`
}
