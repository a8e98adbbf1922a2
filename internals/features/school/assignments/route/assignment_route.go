package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/assignments/controller"
	"schoolku_backend/internals/features/school/assignments/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func AssignmentRoutes(api fiber.Router, svc *service.AssignmentService) {
	ctrl := controller.NewAssignmentController(svc)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("tugas"), constants.TeacherAndAbove...)
	student := authMiddleware.OnlyRoles("❌ Hanya siswa yang bisa mengumpulkan tugas.", constants.RoleStudent)

	a := api.Group("/assignments")
	a.Get("/", ctrl.List)
	a.Get("/class/:classId", ctrl.ByClass)
	a.Get("/:id", ctrl.GetByID)
	a.Get("/:id/submissions", staff, ctrl.Submissions)
	a.Post("/", staff, ctrl.Create)
	a.Put("/:id", staff, ctrl.Update)
	a.Delete("/:id", staff, ctrl.Delete)
	a.Post("/:id/attachment", staff, ctrl.UploadAttachment)
	a.Post("/:id/submit", student, ctrl.Submit)

	s := api.Group("/submissions")
	s.Get("/student/:studentId", ctrl.SubmissionsByStudent)
	s.Get("/:id", ctrl.GetSubmission)
	s.Put("/:id/grade", staff, ctrl.Grade)
}
