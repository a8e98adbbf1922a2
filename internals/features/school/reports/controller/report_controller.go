package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/reports/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

type ReportController struct {
	svc *service.ReportService
}

func NewReportController(svc *service.ReportService) *ReportController {
	return &ReportController{svc: svc}
}

// GET /reports/students/:studentId/report-card
func (ctrl *ReportController) ReportCard(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "studentId")
	if err != nil {
		return err
	}
	if !helper.HasAnyRole(c, constants.TeacherAndAbove...) {
		if own, ok := helper.CurrentStudentID(c); !ok || own != id {
			return apperror.Forbidden("Tidak boleh melihat rapor siswa lain")
		}
	}
	card, err := ctrl.svc.ReportCard(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", card)
}

// GET /reports/classes/:classId
func (ctrl *ReportController) ClassReport(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "classId")
	if err != nil {
		return err
	}
	rep, err := ctrl.svc.ClassReport(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", rep)
}

// GET /reports/dashboard
func (ctrl *ReportController) Dashboard(c *fiber.Ctx) error {
	d, err := ctrl.svc.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", d)
}
