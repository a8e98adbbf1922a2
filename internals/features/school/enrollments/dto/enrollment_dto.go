package dto

import (
	"time"

	"schoolku_backend/internals/features/school/enrollments/model"
)

type EnrollRequest struct {
	StudentID      uint       `json:"student_id" validate:"required,gt=0"`
	ClassID        uint       `json:"class_id" validate:"required,gt=0"`
	EnrollmentDate *time.Time `json:"enrollment_date"`
	Remarks        string     `json:"remarks" validate:"omitempty,max=500"`
}

type DropRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CompleteRequest struct {
	FinalGrade float64 `json:"final_grade" validate:"min=0,max=100"`
	Remarks    string  `json:"remarks" validate:"omitempty,max=500"`
}

type EnrollmentResponse struct {
	ID             uint       `json:"id"`
	StudentID      uint       `json:"student_id"`
	StudentNumber  string     `json:"student_number,omitempty"`
	StudentName    string     `json:"student_name,omitempty"`
	ClassID        uint       `json:"class_id"`
	ClassName      string     `json:"class_name,omitempty"`
	AcademicYear   string     `json:"academic_year,omitempty"`
	Semester       string     `json:"semester,omitempty"`
	Status         string     `json:"status"`
	EnrollmentDate time.Time  `json:"enrollment_date"`
	FinalGrade     *float64   `json:"final_grade,omitempty"`
	LetterGrade    *string    `json:"letter_grade,omitempty"`
	DroppedDate    *time.Time `json:"dropped_date,omitempty"`
	CompletedDate  *time.Time `json:"completed_date,omitempty"`
	Remarks        string     `json:"remarks,omitempty"`
}

func FromModel(m *model.EnrollmentModel) EnrollmentResponse {
	r := EnrollmentResponse{
		ID:             m.ID,
		StudentID:      m.StudentID,
		ClassID:        m.ClassID,
		Status:         m.Status,
		EnrollmentDate: m.EnrollmentDate,
		FinalGrade:     m.FinalGrade,
		LetterGrade:    m.LetterGrade,
		DroppedDate:    m.DroppedDate,
		CompletedDate:  m.CompletedDate,
		Remarks:        m.Remarks,
	}
	if m.Student != nil {
		r.StudentNumber = m.Student.StudentNumber
		r.StudentName = m.Student.FullName()
	}
	if m.Class != nil {
		r.ClassName = m.Class.Name
		r.AcademicYear = m.Class.AcademicYear
		r.Semester = m.Class.Semester
	}
	return r
}

func FromModels(rows []model.EnrollmentModel) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
