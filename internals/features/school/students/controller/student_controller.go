package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/students/dto"
	"schoolku_backend/internals/features/school/students/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

type StudentController struct {
	svc service.Service
}

func NewStudentController(svc service.Service) *StudentController {
	return &StudentController{svc: svc}
}

// ownStudent: staff boleh semua, siswa hanya dirinya sendiri.
func ownStudent(c *fiber.Ctx) (uint, error) {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return 0, err
	}
	if helper.HasAnyRole(c, constants.TeacherAndAbove...) {
		return id, nil
	}
	if own, ok := helper.CurrentStudentID(c); ok && own == id {
		return id, nil
	}
	return 0, apperror.Forbidden("Tidak boleh mengakses data siswa lain")
}

// GET /students?page=&per_page=&q=&department_id=
func (ctrl *StudentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)
	deptID, err := helper.QueryUint(c, "department_id")
	if err != nil {
		return err
	}
	items, total, err := ctrl.svc.List(c.UserContext(), p, deptID)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

func (ctrl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := ownStudent(c)
	if err != nil {
		return err
	}
	item, err := ctrl.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", item)
}

// GET /students/number/:number
func (ctrl *StudentController) GetByStudentNumber(c *fiber.Ctx) error {
	item, err := ctrl.svc.GetByStudentNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", item)
}

// GET /students/:id/enrollments
func (ctrl *StudentController) Enrollments(c *fiber.Ctx) error {
	id, err := ownStudent(c)
	if err != nil {
		return err
	}
	items, err := ctrl.svc.Enrollments(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /students/:id/documents
func (ctrl *StudentController) Documents(c *fiber.Ctx) error {
	id, err := ownStudent(c)
	if err != nil {
		return err
	}
	items, err := ctrl.svc.Documents(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

func (ctrl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Create(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Student created", item)
}

// POST /students/bulk
func (ctrl *StudentController) BulkCreate(c *fiber.Ctx) error {
	var req dto.BulkCreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Body tidak valid")
	}
	if len(req.Students) == 0 || len(req.Students) > 500 {
		return apperror.ValidationField("students", "Between 1 and 500 students are required")
	}
	res, err := ctrl.svc.BulkCreate(c.UserContext(), helper.ActorID(c), req.Students)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Bulk import finished", res)
}

func (ctrl *StudentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStudentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Student updated", item)
}

func (ctrl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Student deleted", nil)
}

// POST /students/:id/photo (multipart, field "file")
func (ctrl *StudentController) UploadPhoto(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.ValidationField("file", "File is required")
	}
	item, err := ctrl.svc.UploadPhoto(c.UserContext(), helper.ActorID(c), id, fh)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Photo uploaded", item)
}

// POST /students/:id/documents (multipart: file, title)
func (ctrl *StudentController) UploadDocument(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.ValidationField("file", "File is required")
	}
	doc, err := ctrl.svc.UploadDocument(c.UserContext(), helper.ActorID(c), id, c.FormValue("title"), fh)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Document uploaded", doc)
}

// DELETE /students/:id/documents/:documentId
func (ctrl *StudentController) DeleteDocument(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	docID, err := helper.ParamUint(c, "documentId")
	if err != nil {
		return err
	}
	if err := ctrl.svc.DeleteDocument(c.UserContext(), helper.ActorID(c), id, docID); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Document deleted", nil)
}
