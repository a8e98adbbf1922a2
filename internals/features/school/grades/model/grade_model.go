package model

import (
	"time"

	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/persistence"
)

// Jenis penilaian
const (
	AssessmentQuiz       = "Quiz"
	AssessmentAssignment = "Assignment"
	AssessmentMidterm    = "Midterm"
	AssessmentFinal      = "Final"
	AssessmentProject    = "Project"
	AssessmentExam       = "Exam"
)

type GradeModel struct {
	persistence.BaseEntity
	AssessmentType string    `gorm:"column:assessment_type;size:20;not null" json:"assessment_type"`
	Title          string    `gorm:"column:title;size:150" json:"title,omitempty"`
	Score          float64   `gorm:"column:score;not null" json:"score"`
	MaxScore       float64   `gorm:"column:max_score;not null" json:"max_score"`
	Percentage     float64   `gorm:"column:percentage;not null" json:"percentage"`
	LetterGrade    string    `gorm:"column:letter_grade;size:2;not null" json:"letter_grade"`
	Weight         float64   `gorm:"column:weight;not null" json:"weight"`
	GradedDate     time.Time `gorm:"column:graded_date;not null" json:"graded_date"`
	Comments       string    `gorm:"column:comments;type:text" json:"comments,omitempty"`
	GradedByID     *uint     `gorm:"column:graded_by_id" json:"graded_by_id,omitempty"`

	StudentID uint                       `gorm:"column:student_id;not null;index" json:"student_id"`
	Student   *studentModel.StudentModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ClassID   uint                       `gorm:"column:class_id;not null;index" json:"class_id"`
	Class     *classModel.ClassModel     `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (GradeModel) TableName() string {
	return "grades"
}

func (GradeModel) SoftDelete() bool { return true }
