package helper

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/helpers/apperror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrorHandler is the single place errors become responses. Stack detail is
// attached only outside production.
func ErrorHandler(production bool, logger zerolog.Logger) fiber.ErrorHandler {
	log := logger.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx, err error) error {
		if ae, ok := apperror.As(err); ok {
			switch ae.Kind {
			case apperror.KindValidation:
				return JsonValidationError(c, ae.Fields)
			case apperror.KindNotFound:
				return JsonError(c, fiber.StatusNotFound, ae.Message)
			case apperror.KindBadRequest, apperror.KindConflict:
				return JsonError(c, fiber.StatusBadRequest, ae.Message)
			case apperror.KindUnauthorized:
				return JsonError(c, fiber.StatusUnauthorized, ae.Message)
			case apperror.KindForbidden:
				return JsonError(c, fiber.StatusForbidden, ae.Message)
			}
		}

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return JsonValidationError(c, FieldErrors(ve))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JsonError(c, fe.Code, fe.Message)
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonError(c, fiber.StatusNotFound, "Resource not found")
		}

		if msg, ok := constraintMessage(err); ok {
			return JsonError(c, fiber.StatusBadRequest, msg)
		}

		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("reqid", c.Locals("reqid")).
			Msg("❌ Unhandled error")

		if production {
			return JsonError(c, fiber.StatusInternalServerError, "An unexpected error occurred")
		}
		return JsonErrorDetail(c, fiber.StatusInternalServerError, err.Error(), fmt.Sprintf("%+v", err))
	}
}

// constraintMessage recognises store-level constraint violations.
func constraintMessage(err error) (string, bool) {
	code := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code = pgUniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		code = pgForeignKeyViolation
	}
	switch code {
	case pgUniqueViolation:
		return "A record with the same unique value already exists", true
	case pgForeignKeyViolation:
		return "The referenced record does not exist or is still in use", true
	}
	return "", false
}
