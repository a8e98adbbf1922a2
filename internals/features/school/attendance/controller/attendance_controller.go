package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/attendance/dto"
	"schoolku_backend/internals/features/school/attendance/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

const dateLayout = "2006-01-02"

type AttendanceController struct {
	svc *service.AttendanceService
}

func NewAttendanceController(svc *service.AttendanceService) *AttendanceController {
	return &AttendanceController{svc: svc}
}

func markedBy(c *fiber.Ctx) *uint {
	if tid, ok := helper.CurrentTeacherID(c); ok {
		return &tid
	}
	return nil
}

func staffOrSelf(c *fiber.Ctx, studentID uint) error {
	if helper.HasAnyRole(c, constants.TeacherAndAbove...) {
		return nil
	}
	if own, ok := helper.CurrentStudentID(c); ok && own == studentID {
		return nil
	}
	return apperror.Forbidden("Tidak boleh melihat absensi siswa lain")
}

// parseDate: nilai kosong -> nil.
func parseDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperror.ValidationField(name, "Date must use YYYY-MM-DD")
	}
	return &t, nil
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseDate(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(c, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// POST /attendance
func (ctrl *AttendanceController) Mark(c *fiber.Ctx) error {
	var req dto.MarkAttendanceRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Mark(c.UserContext(), helper.ActorID(c), markedBy(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Attendance marked", item)
}

// POST /attendance/bulk
func (ctrl *AttendanceController) BulkMark(c *fiber.Ctx) error {
	var req dto.BulkMarkAttendanceRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	items, err := ctrl.svc.BulkMark(c.UserContext(), helper.ActorID(c), markedBy(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Attendance saved", items)
}

// GET /attendance/class/:classId?date=YYYY-MM-DD
func (ctrl *AttendanceController) ByClassDate(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "classId")
	if err != nil {
		return err
	}
	date, err := parseDate(c, "date")
	if err != nil {
		return err
	}
	if date == nil {
		return apperror.ValidationField("date", "Date is required")
	}
	items, err := ctrl.svc.ByClassDate(c.UserContext(), id, *date)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /attendance/student/:studentId?class_id=&from=&to=
func (ctrl *AttendanceController) ByStudent(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "studentId")
	if err != nil {
		return err
	}
	if err := staffOrSelf(c, id); err != nil {
		return err
	}
	classID, err := helper.QueryUint(c, "class_id")
	if err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	items, err := ctrl.svc.ByStudent(c.UserContext(), id, classID, from, to)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /attendance/student/:studentId/summary?class_id=&from=&to=
func (ctrl *AttendanceController) StudentSummary(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "studentId")
	if err != nil {
		return err
	}
	if err := staffOrSelf(c, id); err != nil {
		return err
	}
	classID, err := helper.QueryUint(c, "class_id")
	if err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	sum, err := ctrl.svc.StudentSummary(c.UserContext(), id, classID, from, to)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", sum)
}

func (ctrl *AttendanceController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAttendanceRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Attendance updated", item)
}

func (ctrl *AttendanceController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Attendance deleted", nil)
}
