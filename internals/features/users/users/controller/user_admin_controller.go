package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/users/users/dto"
	"schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"
)

type UserAdminController struct {
	svc *service.UserAdminService
}

func NewUserAdminController(svc *service.UserAdminService) *UserAdminController {
	return &UserAdminController{svc: svc}
}

// GET /users?q=&with_deleted=1
func (ctrl *UserAdminController) List(c *fiber.Ctx) error {
	withDeleted := c.Query("with_deleted") == "1" || strings.EqualFold(c.Query("with_deleted"), "true")
	p := helper.ResolvePaging(c)
	items, total, err := ctrl.svc.List(c.UserContext(), p, withDeleted)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /users/:id
func (ctrl *UserAdminController) GetByID(c *fiber.Ctx) error {
	item, err := ctrl.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "User fetched successfully", item)
}

// POST /users/:id/roles
func (ctrl *UserAdminController) GrantRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.GrantRole(c.UserContext(), helper.ActorID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Role ditambahkan", item)
}

// DELETE /users/:id/roles/:role
func (ctrl *UserAdminController) RevokeRole(c *fiber.Ctx) error {
	req := dto.RoleRequest{Role: c.Params("role")}
	item, err := ctrl.svc.RevokeRole(c.UserContext(), helper.ActorID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Role dicabut", item)
}

// DELETE /users/:id
func (ctrl *UserAdminController) Deactivate(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctrl.svc.Deactivate(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "User dinonaktifkan", fiber.Map{"id": id})
}

// POST /users/:id/restore
func (ctrl *UserAdminController) Restore(c *fiber.Ctx) error {
	item, err := ctrl.svc.Restore(c.UserContext(), helper.ActorID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "User dipulihkan", item)
}
