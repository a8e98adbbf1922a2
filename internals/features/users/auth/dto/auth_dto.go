package dto

import (
	"time"

	authModel "schoolku_backend/internals/features/users/auth/model"
)

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	UserName        string `json:"user_name" validate:"omitempty,min=3,max=100"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=6,max=100,nefield=CurrentPassword"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required,eqfield=NewPassword"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	UserName    string     `json:"user_name"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Roles       []string   `json:"roles"`
	StudentID   *uint      `json:"student_id,omitempty"`
	TeacherID   *uint      `json:"teacher_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedDate time.Time  `json:"created_date"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

func NewUserResponse(u *authModel.UserModel, roles []string, studentID, teacherID *uint) UserResponse {
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		PhoneNumber: u.PhoneNumber,
		Roles:       roles,
		StudentID:   studentID,
		TeacherID:   teacherID,
		LastLoginAt: u.LastLoginAt,
		CreatedDate: u.CreatedDate,
	}
}
