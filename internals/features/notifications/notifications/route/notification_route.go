package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/notifications/notifications/controller"
	"schoolku_backend/internals/features/notifications/notifications/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

func NotificationRoutes(api fiber.Router, svc *service.NotificationService) {
	ctrl := controller.NewNotificationController(svc)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("mengirim notifikasi"), constants.TeacherAndAbove...)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("broadcast notifikasi"), constants.RoleAdmin)

	r := api.Group("/notifications")
	r.Get("/", ctrl.Mine)
	r.Get("/unread-count", ctrl.UnreadCount)
	r.Put("/read-all", ctrl.MarkAllRead)
	r.Put("/:id/read", ctrl.MarkRead)
	r.Delete("/:id", ctrl.Delete)

	r.Post("/", staff, ctrl.Send)
	r.Post("/broadcast", onlyAdmin, ctrl.Broadcast)
}
