package middlewares

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// RecoveryMiddleware mengubah panic menjadi error 500 dan mencatat stack-nya.
func RecoveryMiddleware(logger zerolog.Logger) fiber.Handler {
	log := logger.With().Str("component", "recover").Logger()
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error().
				Str("panic", fmt.Sprint(e)).
				Str("path", c.Path()).
				Interface("reqid", c.Locals("reqid")).
				Bytes("stack", debug.Stack()).
				Msg("💥 Panic")
		},
	})
}
