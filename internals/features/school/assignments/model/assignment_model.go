package model

import (
	"time"

	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/persistence"
)

type AssignmentModel struct {
	persistence.BaseEntity
	Title         string    `gorm:"column:title;size:200;not null" json:"title"`
	Description   string    `gorm:"column:description;type:text" json:"description,omitempty"`
	DueDate       time.Time `gorm:"column:due_date;not null;index" json:"due_date"`
	MaxScore      float64   `gorm:"column:max_score;not null" json:"max_score"`
	AttachmentURL *string   `gorm:"column:attachment_url" json:"attachment_url,omitempty"`

	ClassID uint                   `gorm:"column:class_id;not null;index" json:"class_id"`
	Class   *classModel.ClassModel `gorm:"foreignKey:ClassID" json:"class,omitempty"`

	Submissions []SubmissionModel `gorm:"foreignKey:AssignmentID" json:"submissions,omitempty"`
}

func (AssignmentModel) TableName() string {
	return "assignments"
}

func (AssignmentModel) SoftDelete() bool { return true }

// Status submission
const (
	SubmissionSubmitted = "Submitted"
	SubmissionGraded    = "Graded"
)

type SubmissionModel struct {
	persistence.BaseEntity
	SubmittedAt time.Time  `gorm:"column:submitted_at;not null" json:"submitted_at"`
	Content     string     `gorm:"column:content;type:text" json:"content,omitempty"`
	FileURL     *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	FileName    *string    `gorm:"column:file_name;size:255" json:"file_name,omitempty"`
	IsLate      bool       `gorm:"column:is_late;not null" json:"is_late"`
	Status      string     `gorm:"column:status;size:20;not null" json:"status"`
	Score       *float64   `gorm:"column:score" json:"score,omitempty"`
	Feedback    *string    `gorm:"column:feedback;type:text" json:"feedback,omitempty"`
	GradedAt    *time.Time `gorm:"column:graded_at" json:"graded_at,omitempty"`
	GradedByID  *string    `gorm:"column:graded_by_id;size:36" json:"graded_by_id,omitempty"`

	AssignmentID uint                       `gorm:"column:assignment_id;not null;index" json:"assignment_id"`
	Assignment   *AssignmentModel           `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	StudentID    uint                       `gorm:"column:student_id;not null;index" json:"student_id"`
	Student      *studentModel.StudentModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (SubmissionModel) TableName() string {
	return "submissions"
}

func (SubmissionModel) SoftDelete() bool { return true }
