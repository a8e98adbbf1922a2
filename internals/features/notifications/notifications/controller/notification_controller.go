package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/notifications/notifications/dto"
	"schoolku_backend/internals/features/notifications/notifications/service"
	helper "schoolku_backend/internals/helpers"
)

type NotificationController struct {
	svc *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{svc: svc}
}

// GET /notifications?unread=true
func (ctrl *NotificationController) Mine(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c)
	items, total, err := ctrl.svc.Mine(c.UserContext(), userID, c.QueryBool("unread", false), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	n, err := ctrl.svc.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", fiber.Map{"unread": n})
}

// POST /notifications
func (ctrl *NotificationController) Send(c *fiber.Ctx) error {
	var req dto.SendNotificationRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Send(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Notification sent", item)
}

// POST /notifications/broadcast
func (ctrl *NotificationController) Broadcast(c *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	n, err := ctrl.svc.Broadcast(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Notification broadcast", fiber.Map{"recipients": n})
}

// PUT /notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	item, err := ctrl.svc.MarkRead(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Notification marked as read", item)
}

// PUT /notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	n, err := ctrl.svc.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "All notifications marked as read", fiber.Map{"updated": n})
}

func (ctrl *NotificationController) Delete(c *fiber.Ctx) error {
	userID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Notification deleted", nil)
}
