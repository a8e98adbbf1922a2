package model

import (
	"time"

	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/persistence"
)

// Status enrollment
const (
	StatusEnrolled  = "Enrolled"
	StatusDropped   = "Dropped"
	StatusCompleted = "Completed"
)

type EnrollmentModel struct {
	persistence.BaseEntity
	EnrollmentDate time.Time  `gorm:"column:enrollment_date;not null" json:"enrollment_date"`
	Status         string     `gorm:"column:status;size:20;not null;index" json:"status"`
	FinalGrade     *float64   `gorm:"column:final_grade" json:"final_grade,omitempty"`
	LetterGrade    *string    `gorm:"column:letter_grade;size:2" json:"letter_grade,omitempty"`
	DroppedDate    *time.Time `gorm:"column:dropped_date" json:"dropped_date,omitempty"`
	CompletedDate  *time.Time `gorm:"column:completed_date" json:"completed_date,omitempty"`
	Remarks        string     `gorm:"column:remarks;type:text" json:"remarks,omitempty"`

	StudentID uint                       `gorm:"column:student_id;not null;index" json:"student_id"`
	Student   *studentModel.StudentModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ClassID   uint                       `gorm:"column:class_id;not null;index" json:"class_id"`
	Class     *classModel.ClassModel     `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (EnrollmentModel) TableName() string {
	return "enrollments"
}

func (EnrollmentModel) SoftDelete() bool { return true }
