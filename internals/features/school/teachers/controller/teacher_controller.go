package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/school/teachers/dto"
	"schoolku_backend/internals/features/school/teachers/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

type TeacherController struct {
	svc *service.TeacherService
}

func NewTeacherController(svc *service.TeacherService) *TeacherController {
	return &TeacherController{svc: svc}
}

// GET /teachers?page=&per_page=&q=&department_id=
func (ctrl *TeacherController) List(c *fiber.Ctx) error {
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

// GET /teachers/department/:departmentId
func (ctrl *TeacherController) ByDepartment(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "departmentId")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.ByDepartment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

func (ctrl *TeacherController) GetByID(c *fiber.Ctx) error {
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

// GET /teachers/:id/classes
func (ctrl *TeacherController) Classes(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.Classes(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

func (ctrl *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Create(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Teacher created", item)
}

// POST /teachers/bulk
func (ctrl *TeacherController) BulkCreate(c *fiber.Ctx) error {
	var req dto.BulkCreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Body tidak valid")
	}
	if len(req.Teachers) == 0 || len(req.Teachers) > 500 {
		return apperror.ValidationField("teachers", "Between 1 and 500 teachers are required")
	}
	res, err := ctrl.svc.BulkCreate(c.UserContext(), helper.ActorID(c), req.Teachers)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Bulk import finished", res)
}

func (ctrl *TeacherController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTeacherRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Teacher updated", item)
}

// POST /teachers/:id/photo (multipart, field "file")
func (ctrl *TeacherController) UploadPhoto(c *fiber.Ctx) error {
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

func (ctrl *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Teacher deleted", nil)
}
