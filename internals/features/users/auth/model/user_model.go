package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/persistence"
)

// UserModel merepresentasikan tabel users (akun login)
type UserModel struct {
	ID                 string  `gorm:"column:id;size:36;primaryKey" json:"id"`
	UserName           string  `gorm:"column:user_name;size:100;not null" json:"user_name"`
	NormalizedUserName string  `gorm:"column:normalized_user_name;size:100;not null;index" json:"-"`
	Email              string  `gorm:"column:email;size:255;not null" json:"email"`
	NormalizedEmail    string  `gorm:"column:normalized_email;size:255;not null;index" json:"-"`
	EmailConfirmed     bool    `gorm:"column:email_confirmed;not null" json:"email_confirmed"`
	PasswordHash       string  `gorm:"column:password_hash;not null" json:"-"`
	SecurityStamp      string  `gorm:"column:security_stamp;size:64" json:"-"`
	FirstName          string  `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName           string  `gorm:"column:last_name;size:100" json:"last_name"`
	PhoneNumber        string  `gorm:"column:phone_number;size:30" json:"phone_number,omitempty"`
	GoogleID           *string `gorm:"column:google_id;size:255" json:"-"`

	// Refresh token disimpan sebagai hash + expiry
	RefreshTokenHash       *string    `gorm:"column:refresh_token_hash;size:128" json:"-"`
	RefreshTokenExpiryTime *time.Time `gorm:"column:refresh_token_expiry_time" json:"-"`
	LastLoginAt            *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`

	persistence.AuditFields
}

func (UserModel) TableName() string {
	return "users"
}

func (UserModel) SoftDelete() bool { return true }

// BeforeCreate memastikan ID uuid terisi
func (u *UserModel) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	if u.SecurityStamp == "" {
		u.SecurityStamp = uuid.NewString()
	}
	return nil
}

func (u *UserModel) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Normalize mengisi kolom normalized_* (lookup case-insensitive)
func (u *UserModel) Normalize() {
	u.Email = strings.TrimSpace(u.Email)
	u.UserName = strings.TrimSpace(u.UserName)
	if u.UserName == "" {
		u.UserName = u.Email
	}
	u.NormalizedEmail = NormalizeKey(u.Email)
	u.NormalizedUserName = NormalizeKey(u.UserName)
}

func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// HasValidRefreshToken membandingkan hash + expiry
func (u *UserModel) HasValidRefreshToken(hash string, now time.Time) bool {
	return u.RefreshTokenHash != nil &&
		*u.RefreshTokenHash == hash &&
		u.RefreshTokenExpiryTime != nil &&
		u.RefreshTokenExpiryTime.After(now)
}

func (u *UserModel) ClearRefreshToken() {
	u.RefreshTokenHash = nil
	u.RefreshTokenExpiryTime = nil
}
