package model

import (
	deptModel "schoolku_backend/internals/features/school/departments/model"
	"schoolku_backend/internals/persistence"
)

type CourseModel struct {
	persistence.BaseEntity
	Code        string `gorm:"column:code;size:20;not null;index" json:"code"`
	Name        string `gorm:"column:name;size:150;not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	Credits     int    `gorm:"column:credits;not null" json:"credits"`
	GradeLevel  int    `gorm:"column:grade_level" json:"grade_level,omitempty"`

	DepartmentID uint                       `gorm:"column:department_id;not null;index" json:"department_id"`
	Department   *deptModel.DepartmentModel `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (CourseModel) TableName() string {
	return "courses"
}

func (CourseModel) SoftDelete() bool { return true }
