package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/school/grades/model"
)

type CreateGradeRequest struct {
	StudentID      uint       `json:"student_id" validate:"required,gt=0"`
	ClassID        uint       `json:"class_id" validate:"required,gt=0"`
	AssessmentType string     `json:"assessment_type" validate:"required,oneof=Quiz Assignment Midterm Final Project Exam"`
	Title          string     `json:"title" validate:"omitempty,max=150"`
	Score          float64    `json:"score" validate:"min=0"`
	MaxScore       float64    `json:"max_score" validate:"required,gt=0"`
	Weight         float64    `json:"weight" validate:"min=0,max=100"`
	GradedDate     *time.Time `json:"graded_date"`
	Comments       string     `json:"comments" validate:"omitempty,max=2000"`
}

type UpdateGradeRequest struct {
	AssessmentType *string    `json:"assessment_type" validate:"omitempty,oneof=Quiz Assignment Midterm Final Project Exam"`
	Title          *string    `json:"title" validate:"omitempty,max=150"`
	Score          *float64   `json:"score" validate:"omitempty,min=0"`
	MaxScore       *float64   `json:"max_score" validate:"omitempty,gt=0"`
	Weight         *float64   `json:"weight" validate:"omitempty,min=0,max=100"`
	GradedDate     *time.Time `json:"graded_date"`
	Comments       *string    `json:"comments" validate:"omitempty,max=2000"`
}

func (r UpdateGradeRequest) ApplyToModel(m *model.GradeModel) {
	if r.AssessmentType != nil {
		m.AssessmentType = *r.AssessmentType
	}
	if r.Title != nil {
		m.Title = strings.TrimSpace(*r.Title)
	}
	if r.Score != nil {
		m.Score = *r.Score
	}
	if r.MaxScore != nil {
		m.MaxScore = *r.MaxScore
	}
	if r.Weight != nil {
		m.Weight = *r.Weight
	}
	if r.GradedDate != nil {
		m.GradedDate = *r.GradedDate
	}
	if r.Comments != nil {
		m.Comments = strings.TrimSpace(*r.Comments)
	}
}

type GradeResponse struct {
	ID             uint      `json:"id"`
	StudentID      uint      `json:"student_id"`
	StudentName    string    `json:"student_name,omitempty"`
	ClassID        uint      `json:"class_id"`
	ClassName      string    `json:"class_name,omitempty"`
	AssessmentType string    `json:"assessment_type"`
	Title          string    `json:"title,omitempty"`
	Score          float64   `json:"score"`
	MaxScore       float64   `json:"max_score"`
	Percentage     float64   `json:"percentage"`
	LetterGrade    string    `json:"letter_grade"`
	Weight         float64   `json:"weight"`
	GradedDate     time.Time `json:"graded_date"`
	Comments       string    `json:"comments,omitempty"`
	GradedByID     *uint     `json:"graded_by_id,omitempty"`
}

func FromModel(m *model.GradeModel) GradeResponse {
	r := GradeResponse{
		ID:             m.ID,
		StudentID:      m.StudentID,
		ClassID:        m.ClassID,
		AssessmentType: m.AssessmentType,
		Title:          m.Title,
		Score:          m.Score,
		MaxScore:       m.MaxScore,
		Percentage:     m.Percentage,
		LetterGrade:    m.LetterGrade,
		Weight:         m.Weight,
		GradedDate:     m.GradedDate,
		Comments:       m.Comments,
		GradedByID:     m.GradedByID,
	}
	if m.Student != nil {
		r.StudentName = m.Student.FullName()
	}
	if m.Class != nil {
		r.ClassName = m.Class.Name
	}
	return r
}

func FromModels(rows []model.GradeModel) []GradeResponse {
	out := make([]GradeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// ClassGrade: nilai akhir siswa pada satu kelas.
type ClassGrade struct {
	ClassID     uint    `json:"class_id"`
	ClassName   string  `json:"class_name"`
	CourseCode  string  `json:"course_code"`
	CourseName  string  `json:"course_name"`
	Credits     int     `json:"credits"`
	Status      string  `json:"status"`
	GradeCount  int     `json:"grade_count"`
	Percentage  float64 `json:"percentage"`
	LetterGrade string  `json:"letter_grade"`
	GradePoint  float64 `json:"grade_point"`
}

type GPAResponse struct {
	StudentID    uint         `json:"student_id"`
	GPA          float64      `json:"gpa"`
	TotalCredits int          `json:"total_credits"`
	Classes      []ClassGrade `json:"classes"`
}

type ClassStatistics struct {
	ClassID      uint           `json:"class_id"`
	GradeCount   int64          `json:"grade_count"`
	StudentCount int64          `json:"student_count"`
	Average      float64        `json:"average"`
	Highest      float64        `json:"highest"`
	Lowest       float64        `json:"lowest"`
	Distribution map[string]int `json:"distribution"`
}
