package model

import (
	"schoolku_backend/internals/persistence"
)

type RoleModel struct {
	persistence.BaseEntity
	Name           string `gorm:"column:name;size:50;not null" json:"name"`
	NormalizedName string `gorm:"column:normalized_name;size:50;not null;index" json:"-"`
	Description    string `gorm:"column:description;size:255" json:"description,omitempty"`
}

func (RoleModel) TableName() string {
	return "roles"
}

func (RoleModel) SoftDelete() bool { return true }

// UserRoleModel adalah join table users <-> roles (hapus fisik)
type UserRoleModel struct {
	UserID string `gorm:"column:user_id;size:36;primaryKey" json:"user_id"`
	RoleID uint   `gorm:"column:role_id;primaryKey" json:"role_id"`
}

func (UserRoleModel) TableName() string {
	return "user_roles"
}
