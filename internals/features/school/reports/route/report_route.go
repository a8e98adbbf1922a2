package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/reports/controller"
	"schoolku_backend/internals/features/school/reports/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func ReportRoutes(api fiber.Router, svc *service.ReportService) {
	ctrl := controller.NewReportController(svc)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("laporan"), constants.TeacherAndAbove...)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("dashboard"), constants.RoleAdmin)

	r := api.Group("/reports")
	r.Get("/students/:studentId/report-card", ctrl.ReportCard)
	r.Get("/classes/:classId", staff, ctrl.ClassReport)
	r.Get("/dashboard", onlyAdmin, ctrl.Dashboard)
}
