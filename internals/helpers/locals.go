package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/helpers/apperror"
)

// ActorID is the authenticated user id, or "" for anonymous requests.
// It is what services stamp into the audit columns.
func ActorID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocUserID).(string)
	return v
}

// CurrentUserID returns 401 when no user is attached to the request.
func CurrentUserID(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(ActorID(c))
	if id == "" {
		return "", apperror.Unauthorized("User belum login")
	}
	return id, nil
}

func CurrentRoles(c *fiber.Ctx) []string {
	roles, _ := c.Locals(LocRoles).([]string)
	return roles
}

func HasAnyRole(c *fiber.Ctx, roles ...string) bool {
	for _, have := range CurrentRoles(c) {
		for _, want := range roles {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// CurrentStudentID is the student profile linked to the caller, if any.
func CurrentStudentID(c *fiber.Ctx) (uint, bool) {
	v, ok := c.Locals(LocStudentID).(uint)
	return v, ok && v > 0
}

func CurrentTeacherID(c *fiber.Ctx) (uint, bool) {
	v, ok := c.Locals(LocTeacherID).(uint)
	return v, ok && v > 0
}

// ParamUint parses a positive integer route parameter.
func ParamUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperror.BadRequest("%s tidak valid", name)
	}
	return uint(n), nil
}

// QueryUint parses an optional positive integer query parameter.
func QueryUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil, apperror.BadRequest("%s tidak valid", name)
	}
	v := uint(n)
	return &v, nil
}
