package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/assignments/dto"
	"schoolku_backend/internals/features/school/assignments/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

type AssignmentController struct {
	svc *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{svc: svc}
}

func isStaff(c *fiber.Ctx) bool {
	return helper.HasAnyRole(c, constants.TeacherAndAbove...)
}

func staffOrSelf(c *fiber.Ctx, studentID uint) error {
	if isStaff(c) {
		return nil
	}
	if own, ok := helper.CurrentStudentID(c); ok && own == studentID {
		return nil
	}
	return apperror.Forbidden("Tidak boleh melihat submission siswa lain")
}

func (ctrl *AssignmentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)
	classID, err := helper.QueryUint(c, "class_id")
	if err != nil {
		return err
	}
	items, total, err := ctrl.svc.List(c.UserContext(), p, classID)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /assignments/class/:classId
func (ctrl *AssignmentController) ByClass(c *fiber.Ctx) error {
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

func (ctrl *AssignmentController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	item, err := ctrl.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", item)
}

func (ctrl *AssignmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateAssignmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Create(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Assignment created", item)
}

func (ctrl *AssignmentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAssignmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Assignment updated", item)
}

func (ctrl *AssignmentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Assignment deleted", nil)
}

// POST /assignments/:id/attachment (multipart: file)
func (ctrl *AssignmentController) UploadAttachment(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.ValidationField("file", "File is required")
	}
	item, err := ctrl.svc.UploadAttachment(c.UserContext(), helper.ActorID(c), id, fh)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Attachment uploaded", item)
}

// POST /assignments/:id/submit (multipart: content, file opsional)
func (ctrl *AssignmentController) Submit(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	studentID, ok := helper.CurrentStudentID(c)
	if !ok {
		return apperror.Forbidden("Hanya siswa yang bisa mengumpulkan tugas")
	}
	fh, _ := c.FormFile("file")
	item, err := ctrl.svc.Submit(c.UserContext(), helper.ActorID(c), studentID, id, c.FormValue("content"), fh)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Submission saved", item)
}

// GET /assignments/:id/submissions
func (ctrl *AssignmentController) Submissions(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.SubmissionsByAssignment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /submissions/:id
func (ctrl *AssignmentController) GetSubmission(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	item, err := ctrl.svc.GetSubmission(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := staffOrSelf(c, item.StudentID); err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", item)
}

// GET /submissions/student/:studentId?class_id=
func (ctrl *AssignmentController) SubmissionsByStudent(c *fiber.Ctx) error {
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
	items, err := ctrl.svc.SubmissionsByStudent(c.UserContext(), id, classID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// PUT /submissions/:id/grade
func (ctrl *AssignmentController) Grade(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.GradeSubmissionRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Grade(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Submission graded", item)
}
