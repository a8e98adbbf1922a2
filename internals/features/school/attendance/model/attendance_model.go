package model

import (
	"time"

	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/persistence"
)

// Status kehadiran
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
	StatusExcused = "Excused"
)

type AttendanceModel struct {
	persistence.BaseEntity
	Date     time.Time `gorm:"column:date;not null;index" json:"date"`
	Status   string    `gorm:"column:status;size:10;not null" json:"status"`
	Remarks  string    `gorm:"column:remarks;size:255" json:"remarks,omitempty"`
	MarkedBy *uint     `gorm:"column:marked_by" json:"marked_by,omitempty"`

	StudentID uint                       `gorm:"column:student_id;not null;index" json:"student_id"`
	Student   *studentModel.StudentModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ClassID   uint                       `gorm:"column:class_id;not null;index" json:"class_id"`
	Class     *classModel.ClassModel     `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (AttendanceModel) TableName() string {
	return "attendances"
}

func (AttendanceModel) SoftDelete() bool { return true }
