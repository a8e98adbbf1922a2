package model

import (
	"strings"
	"time"

	deptModel "schoolku_backend/internals/features/school/departments/model"
	"schoolku_backend/internals/persistence"
)

type StudentModel struct {
	persistence.BaseEntity
	UserID         *string    `gorm:"column:user_id;size:36;index" json:"user_id,omitempty"`
	StudentNumber  string     `gorm:"column:student_number;size:30;not null;index" json:"student_number"`
	FirstName      string     `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName       string     `gorm:"column:last_name;size:100" json:"last_name"`
	Email          string     `gorm:"column:email;size:255;not null;index" json:"email"`
	Phone          string     `gorm:"column:phone;size:30" json:"phone,omitempty"`
	DateOfBirth    time.Time  `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender         string     `gorm:"column:gender;size:10" json:"gender,omitempty"`
	Address        string     `gorm:"column:address;type:text" json:"address,omitempty"`
	EnrollmentDate time.Time  `gorm:"column:enrollment_date;not null" json:"enrollment_date"`
	GradeLevel     int        `gorm:"column:grade_level" json:"grade_level,omitempty"`
	GuardianName   string     `gorm:"column:guardian_name;size:150" json:"guardian_name,omitempty"`
	GuardianPhone  string     `gorm:"column:guardian_phone;size:30" json:"guardian_phone,omitempty"`
	PhotoURL       *string    `gorm:"column:photo_url" json:"photo_url,omitempty"`
	GraduatedAt    *time.Time `gorm:"column:graduated_at" json:"graduated_at,omitempty"`

	DepartmentID *uint                      `gorm:"column:department_id;index" json:"department_id,omitempty"`
	Department   *deptModel.DepartmentModel `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	Documents []StudentDocumentModel `gorm:"foreignKey:StudentID" json:"documents,omitempty"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (StudentModel) SoftDelete() bool { return true }

func (s *StudentModel) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// StudentDocumentModel: dokumen pendukung (akta, rapor lama, dst)
type StudentDocumentModel struct {
	persistence.BaseEntity
	StudentID   uint   `gorm:"column:student_id;not null;index" json:"student_id"`
	Title       string `gorm:"column:title;size:150;not null" json:"title"`
	FileURL     string `gorm:"column:file_url;not null" json:"file_url"`
	FileName    string `gorm:"column:file_name;size:255" json:"file_name"`
	ContentType string `gorm:"column:content_type;size:100" json:"content_type"`
	Size        int64  `gorm:"column:size" json:"size"`
}

func (StudentDocumentModel) TableName() string {
	return "student_documents"
}

func (StudentDocumentModel) SoftDelete() bool { return true }
