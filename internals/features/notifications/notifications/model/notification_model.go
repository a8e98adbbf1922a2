package model

import (
	"time"

	"gorm.io/datatypes"

	"schoolku_backend/internals/persistence"
)

// Tipe notifikasi
const (
	TypeInfo         = "Info"
	TypeWarning      = "Warning"
	TypeSuccess      = "Success"
	TypeAnnouncement = "Announcement"
	TypeGrade        = "Grade"
	TypeAssignment   = "Assignment"
	TypeAttendance   = "Attendance"
)

// NotificationModel tidak soft-delete: hapus = hapus fisik.
type NotificationModel struct {
	persistence.BaseEntity
	UserID  string         `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	Title   string         `gorm:"column:title;size:200;not null" json:"title"`
	Message string         `gorm:"column:message;type:text;not null" json:"message"`
	Type    string         `gorm:"column:type;size:20;not null" json:"type"`
	Link    *string        `gorm:"column:link" json:"link,omitempty"`
	Data    datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	IsRead  bool           `gorm:"column:is_read;not null;index" json:"is_read"`
	ReadAt  *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
