package model

import (
	"schoolku_backend/internals/persistence"
)

type DepartmentModel struct {
	persistence.BaseEntity
	Code          string `gorm:"column:code;size:20;not null;index" json:"code"`
	Name          string `gorm:"column:name;size:150;not null" json:"name"`
	Description   string `gorm:"column:description;type:text" json:"description,omitempty"`
	HeadTeacherID *uint  `gorm:"column:head_teacher_id;index" json:"head_teacher_id,omitempty"`
}

func (DepartmentModel) TableName() string {
	return "departments"
}

func (DepartmentModel) SoftDelete() bool { return true }
