package dto

import (
	"time"

	authDto "schoolku_backend/internals/features/users/auth/dto"
	authModel "schoolku_backend/internals/features/users/auth/model"
)

// UserAdminResponse adalah UserResponse plus status akun untuk layar admin.
type UserAdminResponse struct {
	authDto.UserResponse
	IsActive    bool       `json:"is_active"`
	DeletedDate *time.Time `json:"deleted_date,omitempty"`
}

func FromModel(u *authModel.UserModel, roles []string) UserAdminResponse {
	return UserAdminResponse{
		UserResponse: authDto.NewUserResponse(u, roles, nil, nil),
		IsActive:     u.IsActive,
		DeletedDate:  u.DeletedDate,
	}
}

// RoleRequest: POST/DELETE /users/:id/roles
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Admin Teacher Student"`
}
