package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/grades/dto"
	"schoolku_backend/internals/features/school/grades/model"
	"schoolku_backend/internals/features/school/grades/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

type GradeController struct {
	svc *service.GradeService
}

func NewGradeController(svc *service.GradeService) *GradeController {
	return &GradeController{svc: svc}
}

func staffOrSelf(c *fiber.Ctx, studentID uint) error {
	if helper.HasAnyRole(c, constants.TeacherAndAbove...) {
		return nil
	}
	if own, ok := helper.CurrentStudentID(c); ok && own == studentID {
		return nil
	}
	return apperror.Forbidden("Tidak boleh melihat nilai siswa lain")
}

// POST /grades
func (ctrl *GradeController) Record(c *fiber.Ctx) error {
	var req dto.CreateGradeRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	var gradedBy *uint
	if tid, ok := helper.CurrentTeacherID(c); ok {
		gradedBy = &tid
	}
	item, err := ctrl.svc.Record(c.UserContext(), helper.ActorID(c), gradedBy, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Grade recorded", item)
}

func (ctrl *GradeController) GetByID(c *fiber.Ctx) error {
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

// GET /grades/student/:studentId?class_id=
func (ctrl *GradeController) ByStudent(c *fiber.Ctx) error {
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
	items, err := ctrl.svc.ByStudent(c.UserContext(), id, classID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /grades/student/:studentId/gpa
func (ctrl *GradeController) StudentGPA(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "studentId")
	if err != nil {
		return err
	}
	if err := staffOrSelf(c, id); err != nil {
		return err
	}
	res, err := ctrl.svc.StudentGPA(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", res)
}

// GET /grades/class/:classId
func (ctrl *GradeController) ByClass(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "classId")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.ByClass(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /grades/class/:classId/statistics
func (ctrl *GradeController) ClassStatistics(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "classId")
	if err != nil {
		return err
	}
	res, err := ctrl.svc.ClassStatistics(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", res)
}

// GET /grades/letter?percentage=87.5
func (ctrl *GradeController) Letter(c *fiber.Ctx) error {
	pct, err := strconv.ParseFloat(c.Query("percentage"), 64)
	if err != nil || pct < 0 || pct > 100 {
		return apperror.ValidationField("percentage", "Percentage must be a number between 0 and 100")
	}
	letter := model.LetterFor(pct)
	return helper.JsonOK(c, "ok", fiber.Map{
		"percentage":   pct,
		"letter_grade": letter,
		"grade_point":  model.GradePoint(letter),
	})
}

func (ctrl *GradeController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateGradeRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Grade updated", item)
}

func (ctrl *GradeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Grade deleted", nil)
}
