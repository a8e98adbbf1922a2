package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	authService "schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

// AuthMiddleware memvalidasi bearer token lalu menyimpan klaim ke Locals.
func AuthMiddleware(tokens *authService.TokenService, logger zerolog.Logger) fiber.Handler {
	log := logger.With().Str("component", "auth_middleware").Logger()

	return func(c *fiber.Ctx) error {
		raw := helper.ExtractBearer(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return apperror.Unauthorized("Unauthorized - Missing bearer token")
		}

		claims, err := tokens.ParseAccessToken(raw)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("❌ Token ditolak")
			return apperror.Unauthorized("Unauthorized - Invalid or expired token")
		}

		storeClaimsToLocals(c, raw, claims)
		return c.Next()
	}
}

func storeClaimsToLocals(c *fiber.Ctx, raw string, claims *authService.Claims) {
	c.Locals(helper.LocRawToken, raw)
	c.Locals(helper.LocUserID, claims.Subject)
	c.Locals(helper.LocEmail, claims.Email)
	c.Locals(helper.LocUserName, claims.UserName)
	c.Locals(helper.LocRoles, claims.Roles)
	if claims.StudentID != nil {
		c.Locals(helper.LocStudentID, *claims.StudentID)
	}
	if claims.TeacherID != nil {
		c.Locals(helper.LocTeacherID, *claims.TeacherID)
	}
}
