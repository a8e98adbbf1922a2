package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/school/courses/dto"
	"schoolku_backend/internals/features/school/courses/service"
	helper "schoolku_backend/internals/helpers"
)

type CourseController struct {
	svc service.Service
}

func NewCourseController(svc service.Service) *CourseController {
	return &CourseController{svc: svc}
}

// GET /courses?page=&per_page=&q=
func (ctrl *CourseController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)
	items, total, err := ctrl.svc.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /courses/department/:departmentId
func (ctrl *CourseController) ByDepartment(c *fiber.Ctx) error {
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

func (ctrl *CourseController) GetByID(c *fiber.Ctx) error {
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

func (ctrl *CourseController) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Create(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Course created", item)
}

func (ctrl *CourseController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCourseRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Course updated", item)
}

func (ctrl *CourseController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Course deleted", nil)
}
