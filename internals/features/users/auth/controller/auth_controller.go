package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/users/auth/dto"
	"schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
)

type AuthController struct {
	svc *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

// POST /api/v1/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	user, err := ac.svc.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Registration successful", user)
}

// POST /api/v1/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	resp, err := ac.svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login successful", resp)
}

// POST /api/v1/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	resp, err := ac.svc.LoginGoogle(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login successful", resp)
}

// POST /api/v1/auth/refresh-token
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	resp, err := ac.svc.RefreshToken(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Token diperbarui", resp)
}

// POST /api/v1/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	if err := ac.svc.Logout(c.UserContext(), userID); err != nil {
		return err
	}
	return helper.JsonOK(c, "Logout successful", nil)
}

// POST /api/v1/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	if err := ac.svc.ChangePassword(c.UserContext(), userID, req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Password changed successfully", nil)
}

// GET /api/v1/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	user, err := ac.svc.Me(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "", user)
}
