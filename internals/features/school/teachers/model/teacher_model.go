package model

import (
	"strings"
	"time"

	deptModel "schoolku_backend/internals/features/school/departments/model"
	"schoolku_backend/internals/persistence"
)

type TeacherModel struct {
	persistence.BaseEntity
	UserID         *string    `gorm:"column:user_id;size:36;index" json:"user_id,omitempty"`
	EmployeeNumber string     `gorm:"column:employee_number;size:30;not null;index" json:"employee_number"`
	FirstName      string     `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName       string     `gorm:"column:last_name;size:100" json:"last_name"`
	Email          string     `gorm:"column:email;size:255;not null;index" json:"email"`
	Phone          string     `gorm:"column:phone;size:30" json:"phone,omitempty"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender         string     `gorm:"column:gender;size:10" json:"gender,omitempty"`
	Address        string     `gorm:"column:address;type:text" json:"address,omitempty"`
	Qualification  string     `gorm:"column:qualification;size:150" json:"qualification,omitempty"`
	Specialization string     `gorm:"column:specialization;size:150" json:"specialization,omitempty"`
	HireDate       time.Time  `gorm:"column:hire_date;not null" json:"hire_date"`
	PhotoURL       *string    `gorm:"column:photo_url" json:"photo_url,omitempty"`

	DepartmentID *uint                      `gorm:"column:department_id;index" json:"department_id,omitempty"`
	Department   *deptModel.DepartmentModel `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (TeacherModel) TableName() string {
	return "teachers"
}

func (TeacherModel) SoftDelete() bool { return true }

func (t *TeacherModel) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}
