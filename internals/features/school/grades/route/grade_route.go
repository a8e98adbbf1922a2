package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/grades/controller"
	"schoolku_backend/internals/features/school/grades/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func GradeRoutes(api fiber.Router, svc *service.GradeService) {
	ctrl := controller.NewGradeController(svc)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("grade"), constants.TeacherAndAbove...)

	r := api.Group("/grades")
	r.Get("/letter", ctrl.Letter)
	r.Get("/student/:studentId", ctrl.ByStudent)
	r.Get("/student/:studentId/gpa", ctrl.StudentGPA)
	r.Get("/class/:classId", staff, ctrl.ByClass)
	r.Get("/class/:classId/statistics", staff, ctrl.ClassStatistics)
	r.Get("/:id", ctrl.GetByID)

	r.Post("/", staff, ctrl.Record)
	r.Put("/:id", staff, ctrl.Update)
	r.Delete("/:id", staff, ctrl.Delete)
}
