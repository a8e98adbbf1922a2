package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/teachers/controller"
	"schoolku_backend/internals/features/school/teachers/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func TeacherRoutes(api fiber.Router, svc *service.TeacherService) {
	ctrl := controller.NewTeacherController(svc)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("teacher"), constants.AdminOnly...)

	r := api.Group("/teachers")
	r.Get("/", ctrl.List)
	r.Get("/department/:departmentId", ctrl.ByDepartment)
	r.Get("/:id", ctrl.GetByID)
	r.Get("/:id/classes", ctrl.Classes)

	r.Post("/", onlyAdmin, ctrl.Create)
	r.Post("/bulk", onlyAdmin, ctrl.BulkCreate)
	r.Put("/:id", onlyAdmin, ctrl.Update)
	r.Post("/:id/photo", onlyAdmin, ctrl.UploadPhoto)
	r.Delete("/:id", onlyAdmin, ctrl.Delete)
}
