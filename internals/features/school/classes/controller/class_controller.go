package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/school/classes/dto"
	"schoolku_backend/internals/features/school/classes/service"
	helper "schoolku_backend/internals/helpers"
)

type ClassController struct {
	svc *service.ClassService
}

func NewClassController(svc *service.ClassService) *ClassController {
	return &ClassController{svc: svc}
}

// GET /classes?page=&per_page=&q=&course_id=&teacher_id=&academic_year=&semester=
func (ctrl *ClassController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)
	var f service.ClassFilter
	var err error
	if f.CourseID, err = helper.QueryUint(c, "course_id"); err != nil {
		return err
	}
	if f.TeacherID, err = helper.QueryUint(c, "teacher_id"); err != nil {
		return err
	}
	f.AcademicYear = strings.TrimSpace(c.Query("academic_year"))
	f.Semester = strings.TrimSpace(c.Query("semester"))

	items, total, err := ctrl.svc.List(c.UserContext(), p, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /classes/course/:courseId
func (ctrl *ClassController) ByCourse(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "courseId")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.ByCourse(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /classes/teacher/:teacherId
func (ctrl *ClassController) ByTeacher(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "teacherId")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.ByTeacher(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

func (ctrl *ClassController) GetByID(c *fiber.Ctx) error {
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

// GET /classes/:id/students
func (ctrl *ClassController) Roster(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	items, err := ctrl.svc.Roster(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", items)
}

// GET /classes/:id/schedule
func (ctrl *ClassController) Schedule(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	slots, err := ctrl.svc.Schedule(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", slots)
}

// PUT /classes/:id/schedule
func (ctrl *ClassController) UpdateSchedule(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateScheduleRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	slots, err := ctrl.svc.UpdateSchedule(c.UserContext(), helper.ActorID(c), id, req.Schedule)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Schedule updated", slots)
}

func (ctrl *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Create(c.UserContext(), helper.ActorID(c), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Class created", item)
}

func (ctrl *ClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateClassRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return err
	}
	item, err := ctrl.svc.Update(c.UserContext(), helper.ActorID(c), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Class updated", item)
}

func (ctrl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.svc.Delete(c.UserContext(), helper.ActorID(c), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Class deleted", nil)
}
