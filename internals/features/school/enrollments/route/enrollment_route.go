package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/enrollments/controller"
	"schoolku_backend/internals/features/school/enrollments/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func EnrollmentRoutes(api fiber.Router, svc *service.EnrollmentService) {
	ctrl := controller.NewEnrollmentController(svc)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("enrollment"), constants.AdminOnly...)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("enrollment"), constants.TeacherAndAbove...)

	r := api.Group("/enrollments")
	r.Post("/", ctrl.Enroll)
	r.Get("/student/:studentId", ctrl.ByStudent)
	r.Get("/class/:classId", staff, ctrl.ByClass)
	r.Get("/:id", ctrl.GetByID)
	r.Post("/:id/drop", staff, ctrl.Drop)
	r.Post("/:id/complete", staff, ctrl.Complete)
	r.Delete("/:id", onlyAdmin, ctrl.Delete)
}
