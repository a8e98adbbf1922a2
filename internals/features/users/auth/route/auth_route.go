package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/users/auth/controller"
	"schoolku_backend/internals/features/users/auth/service"
	rateLimiter "schoolku_backend/internals/middlewares"
)

// AuthRoutes: /api/v1/auth. authMw melindungi endpoint yang butuh login.
func AuthRoutes(api fiber.Router, svc *service.AuthService, authMw fiber.Handler) {
	authController := controller.NewAuthController(svc)

	// 🔓 Public
	baseAuth := api.Group("/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/refresh-token", authController.RefreshToken)

	// 🔒 Protected
	baseAuth.Post("/logout", authMw, authController.Logout)
	baseAuth.Post("/change-password", authMw, authController.ChangePassword)
	baseAuth.Get("/me", authMw, authController.Me)
}
