package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/configs"
	notificationRoute "schoolku_backend/internals/features/notifications/notifications/route"
	notificationService "schoolku_backend/internals/features/notifications/notifications/service"
	assignmentRoute "schoolku_backend/internals/features/school/assignments/route"
	assignmentService "schoolku_backend/internals/features/school/assignments/service"
	attendanceRoute "schoolku_backend/internals/features/school/attendance/route"
	attendanceService "schoolku_backend/internals/features/school/attendance/service"
	classRoute "schoolku_backend/internals/features/school/classes/route"
	classService "schoolku_backend/internals/features/school/classes/service"
	courseRoute "schoolku_backend/internals/features/school/courses/route"
	courseService "schoolku_backend/internals/features/school/courses/service"
	deptRoute "schoolku_backend/internals/features/school/departments/route"
	deptService "schoolku_backend/internals/features/school/departments/service"
	enrollmentRoute "schoolku_backend/internals/features/school/enrollments/route"
	enrollmentService "schoolku_backend/internals/features/school/enrollments/service"
	gradeRoute "schoolku_backend/internals/features/school/grades/route"
	gradeService "schoolku_backend/internals/features/school/grades/service"
	reportRoute "schoolku_backend/internals/features/school/reports/route"
	reportService "schoolku_backend/internals/features/school/reports/service"
	studentRoute "schoolku_backend/internals/features/school/students/route"
	studentService "schoolku_backend/internals/features/school/students/service"
	teacherRoute "schoolku_backend/internals/features/school/teachers/route"
	teacherService "schoolku_backend/internals/features/school/teachers/service"
	authRoute "schoolku_backend/internals/features/users/auth/route"
	authService "schoolku_backend/internals/features/users/auth/service"
	userRoute "schoolku_backend/internals/features/users/users/route"
	userService "schoolku_backend/internals/features/users/users/service"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/storage"
)

// Deps adalah infrastruktur yang dibangun main sebelum routing.
type Deps struct {
	Config *configs.Config
	DB     *gorm.DB
	Uows   *uow.Factory
	Cache  *cache.Store
	Files  *storage.Uploader
	Tokens *authService.TokenService
	Logger zerolog.Logger
}

// Services dikembalikan ke main supaya job terjadwal memakai instance yang sama.
type Services struct {
	Auth          *authService.AuthService
	Notifications *notificationService.NotificationService
}

var startTime time.Time

// SetupRoutes membangun seluruh service dan memasang endpoint /api/v1.
func SetupRoutes(app *fiber.App, d Deps) *Services {
	startTime = time.Now()
	log := d.Logger
	ttl := d.Config.Cache.TTL()

	BaseRoutes(app, d.DB)

	// ===================== SERVICES =====================
	auth := authService.NewAuthService(d.Uows, d.Tokens, authService.NewGoogleVerifier(d.Config.GoogleClientID), log)
	notifications := notificationService.NewNotificationService(d.Uows, log)
	userAdmin := userService.NewUserAdminService(d.Uows, log)

	departments := deptService.WithCache(deptService.NewDepartmentService(d.Uows, log), d.Cache, ttl, courseService.CacheName)
	courses := courseService.WithCache(courseService.NewCourseService(d.Uows, log), d.Cache, ttl)
	students := studentService.WithCache(studentService.NewStudentService(d.Uows, d.Files, log), d.Cache, ttl)
	teachers := teacherService.NewTeacherService(d.Uows, d.Files, log)
	classes := classService.NewClassService(d.Uows, log)
	enrollments := enrollmentService.NewEnrollmentService(d.Uows, log)
	grades := gradeService.NewGradeService(d.Uows, log)
	attendance := attendanceService.NewAttendanceService(d.Uows, log)
	assignments := assignmentService.NewAssignmentService(d.Uows, d.Files, notifications, log)
	reports := reportService.NewReportService(d.Uows, grades, attendance, log)

	// ===================== GROUPS =====================
	authMw := authMiddleware.AuthMiddleware(d.Tokens, log)

	api := app.Group("/api/v1")
	log.Info().Msg("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, auth, authMw)

	log.Info().Msg("[INFO] Setting up PROTECTED group...")
	protected := api.Group("", authMw)

	// ===================== MOUNT ROUTES =====================
	log.Info().Msg("[INFO] Mounting User routes...")
	userRoute.UserAdminRoutes(protected, userAdmin)

	log.Info().Msg("[INFO] Mounting School routes...")
	deptRoute.DepartmentRoutes(protected, departments)
	teacherRoute.TeacherRoutes(protected, teachers)
	studentRoute.StudentRoutes(protected, students)
	courseRoute.CourseRoutes(protected, courses)
	classRoute.ClassRoutes(protected, classes)
	enrollmentRoute.EnrollmentRoutes(protected, enrollments)
	gradeRoute.GradeRoutes(protected, grades)
	attendanceRoute.AttendanceRoutes(protected, attendance)
	assignmentRoute.AssignmentRoutes(protected, assignments)
	reportRoute.ReportRoutes(protected, reports)

	log.Info().Msg("[INFO] Mounting Notification routes...")
	notificationRoute.NotificationRoutes(protected, notifications)

	return &Services{Auth: auth, Notifications: notifications}
}
