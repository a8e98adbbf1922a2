package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/school/assignments/model"
)

/* =========================================================
   ASSIGNMENT
========================================================= */

type CreateAssignmentRequest struct {
	ClassID     uint      `json:"class_id" validate:"required,gt=0"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	MaxScore    float64   `json:"max_score" validate:"required,gt=0,lte=1000"`
}

func (r CreateAssignmentRequest) ToModel() *model.AssignmentModel {
	return &model.AssignmentModel{
		ClassID:     r.ClassID,
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		DueDate:     r.DueDate.UTC(),
		MaxScore:    r.MaxScore,
	}
}

type UpdateAssignmentRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    *float64   `json:"max_score" validate:"omitempty,gt=0,lte=1000"`
}

func (r UpdateAssignmentRequest) ApplyToModel(m *model.AssignmentModel) {
	if r.Title != nil {
		m.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		m.Description = strings.TrimSpace(*r.Description)
	}
	if r.DueDate != nil {
		m.DueDate = r.DueDate.UTC()
	}
	if r.MaxScore != nil {
		m.MaxScore = *r.MaxScore
	}
}

type AssignmentResponse struct {
	ID              uint      `json:"id"`
	ClassID         uint      `json:"class_id"`
	ClassName       string    `json:"class_name,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DueDate         time.Time `json:"due_date"`
	MaxScore        float64   `json:"max_score"`
	AttachmentURL   *string   `json:"attachment_url,omitempty"`
	SubmissionCount int64     `json:"submission_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromModel(m *model.AssignmentModel, submissions int64) AssignmentResponse {
	r := AssignmentResponse{
		ID:              m.ID,
		ClassID:         m.ClassID,
		Title:           m.Title,
		Description:     m.Description,
		DueDate:         m.DueDate,
		MaxScore:        m.MaxScore,
		AttachmentURL:   m.AttachmentURL,
		SubmissionCount: submissions,
		CreatedAt:       m.CreatedDate,
	}
	if m.Class != nil {
		r.ClassName = m.Class.Name
	}
	return r
}

/* =========================================================
   SUBMISSION
========================================================= */

type GradeSubmissionRequest struct {
	Score    float64 `json:"score" validate:"min=0"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}

type SubmissionResponse struct {
	ID              uint       `json:"id"`
	AssignmentID    uint       `json:"assignment_id"`
	AssignmentTitle string     `json:"assignment_title,omitempty"`
	MaxScore        float64    `json:"max_score,omitempty"`
	StudentID       uint       `json:"student_id"`
	StudentNumber   string     `json:"student_number,omitempty"`
	StudentName     string     `json:"student_name,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	Content         string     `json:"content,omitempty"`
	FileURL         *string    `json:"file_url,omitempty"`
	FileName        *string    `json:"file_name,omitempty"`
	IsLate          bool       `json:"is_late"`
	Status          string     `json:"status"`
	Score           *float64   `json:"score,omitempty"`
	Feedback        *string    `json:"feedback,omitempty"`
	GradedAt        *time.Time `json:"graded_at,omitempty"`
}

func FromSubmission(m *model.SubmissionModel) SubmissionResponse {
	r := SubmissionResponse{
		ID:           m.ID,
		AssignmentID: m.AssignmentID,
		StudentID:    m.StudentID,
		SubmittedAt:  m.SubmittedAt,
		Content:      m.Content,
		FileURL:      m.FileURL,
		FileName:     m.FileName,
		IsLate:       m.IsLate,
		Status:       m.Status,
		Score:        m.Score,
		Feedback:     m.Feedback,
		GradedAt:     m.GradedAt,
	}
	if m.Assignment != nil {
		r.AssignmentTitle = m.Assignment.Title
		r.MaxScore = m.Assignment.MaxScore
	}
	if m.Student != nil {
		r.StudentNumber = m.Student.StudentNumber
		r.StudentName = m.Student.FullName()
	}
	return r
}

func FromSubmissions(rows []model.SubmissionModel) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromSubmission(&rows[i]))
	}
	return out
}
