package model

import (
	"time"

	"gorm.io/datatypes"

	courseModel "schoolku_backend/internals/features/school/courses/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	"schoolku_backend/internals/persistence"
)

// ScheduleSlot satu sesi mingguan. Day: Monday..Sunday, jam "HH:MM".
type ScheduleSlot struct {
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Room      string `json:"room,omitempty"`
}

type ClassModel struct {
	persistence.BaseEntity
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	Section      string    `gorm:"column:section;size:20" json:"section,omitempty"`
	AcademicYear string    `gorm:"column:academic_year;size:20;not null;index" json:"academic_year"`
	Semester     string    `gorm:"column:semester;size:20;not null" json:"semester"`
	Room         string    `gorm:"column:room;size:50" json:"room,omitempty"`
	MaxStudents  int       `gorm:"column:max_students;not null" json:"max_students"`
	StartDate    time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      time.Time `gorm:"column:end_date;not null" json:"end_date"`

	Schedule datatypes.JSONType[[]ScheduleSlot] `gorm:"column:schedule" json:"schedule"`

	CourseID  uint                       `gorm:"column:course_id;not null;index" json:"course_id"`
	Course    *courseModel.CourseModel   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	TeacherID *uint                      `gorm:"column:teacher_id;index" json:"teacher_id,omitempty"`
	Teacher   *teacherModel.TeacherModel `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (ClassModel) TableName() string {
	return "classes"
}

func (ClassModel) SoftDelete() bool { return true }
