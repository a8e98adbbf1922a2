package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/students/controller"
	"schoolku_backend/internals/features/school/students/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

// StudentRoutes: siswa hanya boleh melihat profilnya sendiri (dicek di controller).
func StudentRoutes(api fiber.Router, svc service.Service) {
	ctrl := controller.NewStudentController(svc)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("student"), constants.AdminOnly...)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("student"), constants.TeacherAndAbove...)

	r := api.Group("/students")
	r.Get("/", staff, ctrl.List)
	r.Get("/number/:number", staff, ctrl.GetByStudentNumber)
	r.Get("/:id", ctrl.GetByID)
	r.Get("/:id/enrollments", ctrl.Enrollments)
	r.Get("/:id/documents", ctrl.Documents)

	r.Post("/", onlyAdmin, ctrl.Create)
	r.Post("/bulk", onlyAdmin, ctrl.BulkCreate)
	r.Put("/:id", onlyAdmin, ctrl.Update)
	r.Delete("/:id", onlyAdmin, ctrl.Delete)
	r.Post("/:id/photo", onlyAdmin, ctrl.UploadPhoto)
	r.Post("/:id/documents", onlyAdmin, ctrl.UploadDocument)
	r.Delete("/:id/documents/:documentId", onlyAdmin, ctrl.DeleteDocument)
}
