package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/courses/controller"
	"schoolku_backend/internals/features/school/courses/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func CourseRoutes(api fiber.Router, svc service.Service) {
	ctrl := controller.NewCourseController(svc)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("course"), constants.AdminOnly...)

	r := api.Group("/courses")
	r.Get("/", ctrl.List)
	r.Get("/department/:departmentId", ctrl.ByDepartment)
	r.Get("/:id", ctrl.GetByID)
	r.Post("/", onlyAdmin, ctrl.Create)
	r.Put("/:id", onlyAdmin, ctrl.Update)
	r.Delete("/:id", onlyAdmin, ctrl.Delete)
}
