package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/school/departments/dto"
	"schoolku_backend/internals/features/school/departments/service"
	helper "schoolku_backend/internals/helpers"
)

type DepartmentController struct {
	svc service.Service
}

func NewDepartmentController(svc service.Service) *DepartmentController {
	return &DepartmentController{svc: svc}
}

// GET /departments?page=&per_page=&q=
func (ctrl *DepartmentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)
	items, total, err := ctrl.svc.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /departments/:id
func (ctrl *DepartmentController) GetByID(c *fiber.Ctx) error {
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

// POST /departments
func (ctrl *DepartmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Create(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Department created", item)
}

// PUT /departments/:id
func (ctrl *DepartmentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateDepartmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Department updated", item)
}

// DELETE /departments/:id
func (ctrl *DepartmentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Department deleted", nil)
}
