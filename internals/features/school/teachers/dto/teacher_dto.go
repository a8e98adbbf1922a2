package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/school/teachers/model"
)

// ============================
// Request DTO
// ============================

type CreateTeacherRequest struct {
	UserID         *string    `json:"user_id" validate:"omitempty,uuid"`
	EmployeeNumber string     `json:"employee_number" validate:"required,max=30"`
	FirstName      string     `json:"first_name" validate:"required,max=100"`
	LastName       string     `json:"last_name" validate:"omitempty,max=100"`
	Email          string     `json:"email" validate:"required,email,max=255"`
	Phone          string     `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         string     `json:"gender" validate:"omitempty,oneof=Male Female"`
	Address        string     `json:"address" validate:"omitempty,max=500"`
	Qualification  string     `json:"qualification" validate:"omitempty,max=150"`
	Specialization string     `json:"specialization" validate:"omitempty,max=150"`
	HireDate       time.Time  `json:"hire_date" validate:"required"`
	DepartmentID   *uint      `json:"department_id" validate:"omitempty,gt=0"`
}

type UpdateTeacherRequest struct {
	FirstName      *string    `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string    `json:"last_name" validate:"omitempty,max=100"`
	Email          *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone          *string    `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         *string    `json:"gender" validate:"omitempty,oneof=Male Female"`
	Address        *string    `json:"address" validate:"omitempty,max=500"`
	Qualification  *string    `json:"qualification" validate:"omitempty,max=150"`
	Specialization *string    `json:"specialization" validate:"omitempty,max=150"`
	DepartmentID   *uint      `json:"department_id" validate:"omitempty,gt=0"`
}

type BulkCreateTeacherRequest struct {
	Teachers []CreateTeacherRequest `json:"teachers" validate:"required,min=1,max=500"`
}

func (r CreateTeacherRequest) ToModel() *model.TeacherModel {
	return &model.TeacherModel{
		UserID:         r.UserID,
		EmployeeNumber: strings.ToUpper(strings.TrimSpace(r.EmployeeNumber)),
		FirstName:      strings.TrimSpace(r.FirstName),
		LastName:       strings.TrimSpace(r.LastName),
		Email:          strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:          strings.TrimSpace(r.Phone),
		DateOfBirth:    r.DateOfBirth,
		Gender:         r.Gender,
		Address:        strings.TrimSpace(r.Address),
		Qualification:  strings.TrimSpace(r.Qualification),
		Specialization: strings.TrimSpace(r.Specialization),
		HireDate:       r.HireDate,
		DepartmentID:   r.DepartmentID,
	}
}

// ApplyToModel hanya menimpa field yang dikirim.
func (r UpdateTeacherRequest) ApplyToModel(m *model.TeacherModel) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setStr(&m.FirstName, r.FirstName)
	setStr(&m.LastName, r.LastName)
	setStr(&m.Phone, r.Phone)
	setStr(&m.Gender, r.Gender)
	setStr(&m.Address, r.Address)
	setStr(&m.Qualification, r.Qualification)
	setStr(&m.Specialization, r.Specialization)
	if r.Email != nil {
		m.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.DateOfBirth != nil {
		m.DateOfBirth = r.DateOfBirth
	}
	if r.DepartmentID != nil {
		m.DepartmentID = r.DepartmentID
	}
}

// ============================
// Response DTO
// ============================

type TeacherResponse struct {
	ID             uint       `json:"id"`
	UserID         *string    `json:"user_id,omitempty"`
	EmployeeNumber string     `json:"employee_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Address        string     `json:"address,omitempty"`
	Qualification  string     `json:"qualification,omitempty"`
	Specialization string     `json:"specialization,omitempty"`
	HireDate       time.Time  `json:"hire_date"`
	PhotoURL       *string    `json:"photo_url,omitempty"`
	DepartmentID   *uint      `json:"department_id,omitempty"`
	DepartmentName string     `json:"department_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedDate    time.Time  `json:"created_date"`
}

func FromModel(m *model.TeacherModel) TeacherResponse {
	r := TeacherResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		EmployeeNumber: m.EmployeeNumber,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		FullName:       m.FullName(),
		Email:          m.Email,
		Phone:          m.Phone,
		DateOfBirth:    m.DateOfBirth,
		Gender:         m.Gender,
		Address:        m.Address,
		Qualification:  m.Qualification,
		Specialization: m.Specialization,
		HireDate:       m.HireDate,
		PhotoURL:       m.PhotoURL,
		DepartmentID:   m.DepartmentID,
		IsActive:       m.IsActive,
		CreatedDate:    m.CreatedDate,
	}
	if m.Department != nil {
		r.DepartmentName = m.Department.Name
	}
	return r
}

func FromModels(rows []model.TeacherModel) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// TeacherClassResponse ringkasan kelas yang diajar.
type TeacherClassResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	CourseCode    string `json:"course_code"`
	CourseName    string `json:"course_name"`
	AcademicYear  string `json:"academic_year"`
	Semester      string `json:"semester"`
	Room          string `json:"room,omitempty"`
	MaxStudents   int    `json:"max_students"`
	EnrolledCount int64  `json:"enrolled_count"`
}
