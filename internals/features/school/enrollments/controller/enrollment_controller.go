package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/enrollments/dto"
	"schoolku_backend/internals/features/school/enrollments/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

type EnrollmentController struct {
	svc *service.EnrollmentService
}

func NewEnrollmentController(svc *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{svc: svc}
}

// staffOrSelf: siswa hanya boleh bertindak atas dirinya.
func staffOrSelf(c *fiber.Ctx, studentID uint) error {
	if helper.HasAnyRole(c, constants.TeacherAndAbove...) {
		return nil
	}
	if own, ok := helper.CurrentStudentID(c); ok && own == studentID {
		return nil
	}
	return apperror.Forbidden("Tidak boleh mengakses enrollment siswa lain")
}

// POST /enrollments
func (ctrl *EnrollmentController) Enroll(c *fiber.Ctx) error {
	var req dto.EnrollRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	if err := staffOrSelf(c, req.StudentID); err != nil {
		return err
	}
	item, err := ctrl.svc.Enroll(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Student enrolled", item)
}

func (ctrl *EnrollmentController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	item, err := ctrl.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := staffOrSelf(c, item.StudentID); err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", item)
}

// GET /enrollments/student/:studentId
func (ctrl *EnrollmentController) ByStudent(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "studentId")
	if err != nil {
		return err
	}
	if err := staffOrSelf(c, id); err != nil {
		return err
	}
	items, err := ctrl.svc.ByStudent(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /enrollments/class/:classId?status=
func (ctrl *EnrollmentController) ByClass(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "classId")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.ByClass(c.UserContext(), id, c.Query("status"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// POST /enrollments/:id/drop
func (ctrl *EnrollmentController) Drop(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.DropRequest
	if len(c.Body()) > 0 {
		if err := helper.ParseBody(c, &req); err != nil {
			return err
		}
	}
	item, err := ctrl.svc.Drop(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Enrollment dropped", item)
}

// POST /enrollments/:id/complete
func (ctrl *EnrollmentController) Complete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.CompleteRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Complete(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Enrollment completed", item)
}

func (ctrl *EnrollmentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Enrollment deleted", nil)
}
