package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/school/departments/model"
)

// ============================
// Request DTO
// ============================

type CreateDepartmentRequest struct {
	Code          string `json:"code" validate:"required,max=20"`
	Name          string `json:"name" validate:"required,max=150"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	HeadTeacherID *uint  `json:"head_teacher_id" validate:"omitempty,gt=0"`
}

type UpdateDepartmentRequest struct {
	Code          *string `json:"code" validate:"omitempty,max=20"`
	Name          *string `json:"name" validate:"omitempty,max=150"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	HeadTeacherID *uint   `json:"head_teacher_id" validate:"omitempty,gt=0"`
}

func (r CreateDepartmentRequest) ToModel() *model.DepartmentModel {
	return &model.DepartmentModel{
		Code:          NormalizeCode(r.Code),
		Name:          strings.TrimSpace(r.Name),
		Description:   strings.TrimSpace(r.Description),
		HeadTeacherID: r.HeadTeacherID,
	}
}

// ApplyToModel hanya menimpa field yang dikirim.
func (r UpdateDepartmentRequest) ApplyToModel(m *model.DepartmentModel) {
	if r.Code != nil {
		m.Code = NormalizeCode(*r.Code)
	}
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		m.Description = strings.TrimSpace(*r.Description)
	}
	if r.HeadTeacherID != nil {
		m.HeadTeacherID = r.HeadTeacherID
	}
}

// NormalizeCode: kode selalu uppercase tanpa spasi tepi.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ============================
// Response DTO
// ============================

type DepartmentResponse struct {
	ID              uint       `json:"id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	HeadTeacherID   *uint      `json:"head_teacher_id,omitempty"`
	HeadTeacherName string     `json:"head_teacher_name,omitempty"`
	TeacherCount    int64      `json:"teacher_count"`
	CourseCount     int64      `json:"course_count"`
	IsActive        bool       `json:"is_active"`
	CreatedDate     time.Time  `json:"created_date"`
	UpdatedDate     *time.Time `json:"updated_date,omitempty"`
}

func FromModel(m *model.DepartmentModel) DepartmentResponse {
	return DepartmentResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		HeadTeacherID: m.HeadTeacherID,
		IsActive:      m.IsActive,
		CreatedDate:   m.CreatedDate,
		UpdatedDate:   m.UpdatedDate,
	}
}
