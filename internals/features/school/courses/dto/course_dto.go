package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/school/courses/model"
)

type CreateCourseRequest struct {
	Code         string `json:"code" validate:"required,max=20"`
	Name         string `json:"name" validate:"required,max=150"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	Credits      int    `json:"credits" validate:"required,min=1,max=10"`
	GradeLevel   int    `json:"grade_level" validate:"omitempty,min=1,max=12"`
	DepartmentID uint   `json:"department_id" validate:"required,gt=0"`
}

type UpdateCourseRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=150"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	Credits      *int    `json:"credits" validate:"omitempty,min=1,max=10"`
	GradeLevel   *int    `json:"grade_level" validate:"omitempty,min=1,max=12"`
	DepartmentID *uint   `json:"department_id" validate:"omitempty,gt=0"`
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r CreateCourseRequest) ToModel() *model.CourseModel {
	return &model.CourseModel{
		Code:         NormalizeCode(r.Code),
		Name:         strings.TrimSpace(r.Name),
		Description:  strings.TrimSpace(r.Description),
		Credits:      r.Credits,
		GradeLevel:   r.GradeLevel,
		DepartmentID: r.DepartmentID,
	}
}

func (r UpdateCourseRequest) ApplyToModel(m *model.CourseModel) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		m.Description = strings.TrimSpace(*r.Description)
	}
	if r.Credits != nil {
		m.Credits = *r.Credits
	}
	if r.GradeLevel != nil {
		m.GradeLevel = *r.GradeLevel
	}
	if r.DepartmentID != nil {
		m.DepartmentID = *r.DepartmentID
	}
}

type CourseResponse struct {
	ID             uint      `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Credits        int       `json:"credits"`
	GradeLevel     int       `json:"grade_level,omitempty"`
	DepartmentID   uint      `json:"department_id"`
	DepartmentName string    `json:"department_name,omitempty"`
	ClassCount     int64     `json:"class_count"`
	IsActive       bool      `json:"is_active"`
	CreatedDate    time.Time `json:"created_date"`
}

func FromModel(m *model.CourseModel, classCount int64) CourseResponse {
	r := CourseResponse{
		ID:           m.ID,
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		Credits:      m.Credits,
		GradeLevel:   m.GradeLevel,
		DepartmentID: m.DepartmentID,
		ClassCount:   classCount,
		IsActive:     m.IsActive,
		CreatedDate:  m.CreatedDate,
	}
	if m.Department != nil {
		r.DepartmentName = m.Department.Name
	}
	return r
}
