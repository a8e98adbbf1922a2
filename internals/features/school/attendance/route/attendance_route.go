package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/attendance/controller"
	"schoolku_backend/internals/features/school/attendance/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func AttendanceRoutes(api fiber.Router, svc *service.AttendanceService) {
	ctrl := controller.NewAttendanceController(svc)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("attendance"), constants.TeacherAndAbove...)

	r := api.Group("/attendance")
	r.Get("/class/:classId", staff, ctrl.ByClassDate)
	r.Get("/student/:studentId", ctrl.ByStudent)
	r.Get("/student/:studentId/summary", ctrl.StudentSummary)

	r.Post("/", staff, ctrl.Mark)
	r.Post("/bulk", staff, ctrl.BulkMark)
	r.Put("/:id", staff, ctrl.Update)
	r.Delete("/:id", staff, ctrl.Delete)
}
