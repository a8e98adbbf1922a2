package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/users/users/controller"
	"schoolku_backend/internals/features/users/users/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

// UserAdminRoutes: /users, khusus admin.
func UserAdminRoutes(api fiber.Router, svc *service.UserAdminService) {
	ctrl := controller.NewUserAdminController(svc)

	users := api.Group("/users",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("User Management"), constants.AdminOnly...),
	)
	users.Get("/", ctrl.List)
	users.Get("/:id", ctrl.GetByID)
	users.Post("/:id/roles", ctrl.GrantRole)
	users.Delete("/:id/roles/:role", ctrl.RevokeRole)
	users.Delete("/:id", ctrl.Deactivate)
	users.Post("/:id/restore", ctrl.Restore)
}
