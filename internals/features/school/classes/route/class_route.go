package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/classes/controller"
	"schoolku_backend/internals/features/school/classes/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

// ClassRoutes: roster untuk guru & admin, jadwal boleh diubah guru.
func ClassRoutes(api fiber.Router, svc *service.ClassService) {
	ctrl := controller.NewClassController(svc)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("class"), constants.AdminOnly...)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("class"), constants.TeacherAndAbove...)

	r := api.Group("/classes")
	r.Get("/", ctrl.List)
	r.Get("/course/:courseId", ctrl.ByCourse)
	r.Get("/teacher/:teacherId", ctrl.ByTeacher)
	r.Get("/:id", ctrl.GetByID)
	r.Get("/:id/students", staff, ctrl.Roster)
	r.Get("/:id/schedule", ctrl.Schedule)

	r.Post("/", onlyAdmin, ctrl.Create)
	r.Put("/:id", onlyAdmin, ctrl.Update)
	r.Put("/:id/schedule", staff, ctrl.UpdateSchedule)
	r.Delete("/:id", onlyAdmin, ctrl.Delete)
}
