package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/departments/controller"
	"schoolku_backend/internals/features/school/departments/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

// DepartmentRoutes: baca untuk semua user login, tulis khusus admin.
func DepartmentRoutes(api fiber.Router, svc service.Service) {
	ctrl := controller.NewDepartmentController(svc)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("department"), constants.AdminOnly...)

	r := api.Group("/departments")
	r.Get("/", ctrl.List)
	r.Get("/:id", ctrl.GetByID)
	r.Post("/", onlyAdmin, ctrl.Create)
	r.Put("/:id", onlyAdmin, ctrl.Update)
	r.Delete("/:id", onlyAdmin, ctrl.Delete)
}
