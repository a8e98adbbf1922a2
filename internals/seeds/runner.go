// Package seeds mengisi data awal sekolah sekali per database.
package seeds

import (
	"context"
	_ "embed"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"schoolku_backend/internals/constants"
	classModel "schoolku_backend/internals/features/school/classes/model"
	courseModel "schoolku_backend/internals/features/school/courses/model"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	"schoolku_backend/internals/persistence/seed"
	"schoolku_backend/internals/persistence/uow"
)

// InitialSeedKey dicatat di seed_history setelah data awal tersimpan.
const InitialSeedKey = "INITIAL-SEED"

//go:embed data/initial_seed.json
var initialSeed []byte

type Admin struct {
	Email    string
	Password string
}

/* ===============================
   Bentuk data JSON
=================================*/

type departmentSeed struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type courseSeed struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Credits        int    `json:"credits"`
	GradeLevel     int    `json:"grade_level"`
	DepartmentCode string `json:"department_code"`
}

type teacherSeed struct {
	EmployeeNumber string    `json:"employee_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Qualification  string    `json:"qualification"`
	Specialization string    `json:"specialization"`
	HireDate       time.Time `json:"hire_date"`
	DepartmentCode string    `json:"department_code"`
}

type studentSeed struct {
	StudentNumber  string    `json:"student_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	Gender         string    `json:"gender"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	GradeLevel     int       `json:"grade_level"`
	GuardianName   string    `json:"guardian_name"`
	DepartmentCode string    `json:"department_code"`
}

type classSeed struct {
	Name                  string                    `json:"name"`
	Section               string                    `json:"section"`
	CourseCode            string                    `json:"course_code"`
	TeacherEmployeeNumber string                    `json:"teacher_employee_number"`
	AcademicYear          string                    `json:"academic_year"`
	Semester              string                    `json:"semester"`
	Room                  string                    `json:"room"`
	MaxStudents           int                       `json:"max_students"`
	StartDate             time.Time                 `json:"start_date"`
	EndDate               time.Time                 `json:"end_date"`
	Schedule              []classModel.ScheduleSlot `json:"schedule"`
}

type enrollmentSeed struct {
	StudentNumber string `json:"student_number"`
	ClassName     string `json:"class_name"`
}

type initialData struct {
	Departments []departmentSeed `json:"departments"`
	Courses     []courseSeed     `json:"courses"`
	Teachers    []teacherSeed    `json:"teachers"`
	Students    []studentSeed    `json:"students"`
	Classes     []classSeed      `json:"classes"`
	Enrollments []enrollmentSeed `json:"enrollments"`
}

/* ===============================
   Runner
=================================*/

// RunAllSeeds menjalankan INITIAL-SEED lewat guard. Tiap entitas dicek dulu
// sebelum insert sehingga run ulang setelah gagal tidak menggandakan data.
func RunAllSeeds(ctx context.Context, uows *uow.Factory, admin Admin, logger zerolog.Logger) (bool, error) {
	var data initialData
	if err := sonic.Unmarshal(initialSeed, &data); err != nil {
		return false, errors.Wrap(err, "decode initial seed")
	}
	log := logger.With().Str("component", "seeds").Logger()
	guard := seed.NewGuard(uows, logger)

	ran := guard.RunOnce(ctx, InitialSeedKey, func(ctx context.Context, u *uow.UnitOfWork) error {
		s := &seeder{u: u, log: log}
		steps := []struct {
			name string
			run  func(context.Context) error
		}{
			{"roles", s.roles},
			{"admin", func(ctx context.Context) error { return s.admin(ctx, admin) }},
			{"departments", func(ctx context.Context) error { return s.departments(ctx, data.Departments) }},
			{"courses", func(ctx context.Context) error { return s.courses(ctx, data.Courses) }},
			{"teachers", func(ctx context.Context) error { return s.teachers(ctx, data.Teachers) }},
			{"students", func(ctx context.Context) error { return s.students(ctx, data.Students) }},
			{"classes", func(ctx context.Context) error { return s.classes(ctx, data.Classes) }},
			{"enrollments", func(ctx context.Context) error { return s.enrollments(ctx, data.Enrollments) }},
		}
		for _, step := range steps {
			if err := step.run(ctx); err != nil {
				return errors.Wrapf(err, "seed %s", step.name)
			}
			// flush per langkah: id baris baru dibutuhkan langkah berikutnya
			n, err := u.Complete(ctx, "")
			if err != nil {
				return errors.Wrapf(err, "flush %s", step.name)
			}
			log.Info().Str("step", step.name).Int64("rows", n).Msg("🌱 Seed step selesai")
		}
		return nil
	})
	return ran, nil
}

type seeder struct {
	u   *uow.UnitOfWork
	log zerolog.Logger

	departmentIDs map[string]uint
	courseIDs     map[string]uint
	teacherIDs    map[string]uint
	studentIDs    map[string]uint
	classIDs      map[string]uint
}

// ensure mengembalikan baris yang cocok dengan where, atau men-stage build().
func ensure[T any](ctx context.Context, u *uow.UnitOfWork, where uow.Predicate, build func() *T) (*T, error) {
	repo := uow.Use[T, uint](u)
	found, err := repo.FirstWhere(ctx, where)
	if err != nil || found != nil {
		return found, err
	}
	m := build()
	repo.Add(m)
	return m, nil
}

func (s *seeder) roles(ctx context.Context) error {
	for _, name := range constants.AllRoles {
		_, err := ensure(ctx, s.u, uow.Where("normalized_name = ?", authModel.NormalizeKey(name)), func() *authModel.RoleModel {
			return &authModel.RoleModel{Name: name, NormalizedName: authModel.NormalizeKey(name), Description: name + " role"}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) admin(ctx context.Context, admin Admin) error {
	if admin.Email == "" || admin.Password == "" {
		s.log.Warn().Msg("⚠️ Kredensial admin seed kosong, admin tidak dibuat")
		return nil
	}
	users := uow.Use[authModel.UserModel, string](s.u)
	user, err := users.FirstWhere(ctx, uow.Where("normalized_email = ?", authModel.NormalizeKey(admin.Email)))
	if err != nil {
		return err
	}
	if user == nil {
		hash, err := authService.HashPassword(admin.Password)
		if err != nil {
			return err
		}
		user = &authModel.UserModel{
			UserName:       "admin",
			Email:          admin.Email,
			EmailConfirmed: true,
			PasswordHash:   hash,
			FirstName:      "Administrator",
		}
		user.Normalize()
		users.Add(user)
		// role link butuh id user yang baru terisi saat flush
		if _, err := s.u.Complete(ctx, ""); err != nil {
			return err
		}
	}
	return authService.AssignRole(ctx, s.u, user.ID, constants.RoleAdmin)
}

func (s *seeder) departments(ctx context.Context, rows []departmentSeed) error {
	staged := map[string]*deptModel.DepartmentModel{}
	for _, r := range rows {
		m, err := ensure(ctx, s.u, uow.Where("code = ?", r.Code), func() *deptModel.DepartmentModel {
			return &deptModel.DepartmentModel{Code: r.Code, Name: r.Name, Description: r.Description}
		})
		if err != nil {
			return err
		}
		staged[r.Code] = m
	}
	if _, err := s.u.Complete(ctx, ""); err != nil {
		return err
	}
	s.departmentIDs = ids(staged, func(m *deptModel.DepartmentModel) uint { return m.ID })
	return nil
}

func (s *seeder) courses(ctx context.Context, rows []courseSeed) error {
	staged := map[string]*courseModel.CourseModel{}
	for _, r := range rows {
		deptID, ok := s.departmentIDs[r.DepartmentCode]
		if !ok {
			return errors.Errorf("course %s: unknown department %s", r.Code, r.DepartmentCode)
		}
		m, err := ensure(ctx, s.u, uow.Where("code = ?", r.Code), func() *courseModel.CourseModel {
			return &courseModel.CourseModel{Code: r.Code, Name: r.Name, Credits: r.Credits, GradeLevel: r.GradeLevel, DepartmentID: deptID}
		})
		if err != nil {
			return err
		}
		staged[r.Code] = m
	}
	if _, err := s.u.Complete(ctx, ""); err != nil {
		return err
	}
	s.courseIDs = ids(staged, func(m *courseModel.CourseModel) uint { return m.ID })
	return nil
}

func (s *seeder) teachers(ctx context.Context, rows []teacherSeed) error {
	staged := map[string]*teacherModel.TeacherModel{}
	for _, r := range rows {
		var deptID *uint
		if id, ok := s.departmentIDs[r.DepartmentCode]; ok {
			deptID = &id
		}
		m, err := ensure(ctx, s.u, uow.Where("employee_number = ?", r.EmployeeNumber), func() *teacherModel.TeacherModel {
			return &teacherModel.TeacherModel{
				EmployeeNumber: r.EmployeeNumber,
				FirstName:      r.FirstName,
				LastName:       r.LastName,
				Email:          r.Email,
				Qualification:  r.Qualification,
				Specialization: r.Specialization,
				HireDate:       r.HireDate,
				DepartmentID:   deptID,
			}
		})
		if err != nil {
			return err
		}
		staged[r.EmployeeNumber] = m
	}
	if _, err := s.u.Complete(ctx, ""); err != nil {
		return err
	}
	s.teacherIDs = ids(staged, func(m *teacherModel.TeacherModel) uint { return m.ID })
	return nil
}

func (s *seeder) students(ctx context.Context, rows []studentSeed) error {
	staged := map[string]*studentModel.StudentModel{}
	for _, r := range rows {
		var deptID *uint
		if id, ok := s.departmentIDs[r.DepartmentCode]; ok {
			deptID = &id
		}
		m, err := ensure(ctx, s.u, uow.Where("student_number = ?", r.StudentNumber), func() *studentModel.StudentModel {
			return &studentModel.StudentModel{
				StudentNumber:  r.StudentNumber,
				FirstName:      r.FirstName,
				LastName:       r.LastName,
				Email:          r.Email,
				DateOfBirth:    r.DateOfBirth,
				Gender:         r.Gender,
				EnrollmentDate: r.EnrollmentDate,
				GradeLevel:     r.GradeLevel,
				GuardianName:   r.GuardianName,
				DepartmentID:   deptID,
			}
		})
		if err != nil {
			return err
		}
		staged[r.StudentNumber] = m
	}
	if _, err := s.u.Complete(ctx, ""); err != nil {
		return err
	}
	s.studentIDs = ids(staged, func(m *studentModel.StudentModel) uint { return m.ID })
	return nil
}

func (s *seeder) classes(ctx context.Context, rows []classSeed) error {
	staged := map[string]*classModel.ClassModel{}
	for _, r := range rows {
		courseID, ok := s.courseIDs[r.CourseCode]
		if !ok {
			return errors.Errorf("class %s: unknown course %s", r.Name, r.CourseCode)
		}
		var teacherID *uint
		if id, ok := s.teacherIDs[r.TeacherEmployeeNumber]; ok {
			teacherID = &id
		}
		m, err := ensure(ctx, s.u, uow.Where("name = ? AND academic_year = ?", r.Name, r.AcademicYear), func() *classModel.ClassModel {
			return &classModel.ClassModel{
				Name:         r.Name,
				Section:      r.Section,
				AcademicYear: r.AcademicYear,
				Semester:     r.Semester,
				Room:         r.Room,
				MaxStudents:  r.MaxStudents,
				StartDate:    r.StartDate,
				EndDate:      r.EndDate,
				Schedule:     datatypes.NewJSONType(r.Schedule),
				CourseID:     courseID,
				TeacherID:    teacherID,
			}
		})
		if err != nil {
			return err
		}
		staged[r.Name] = m
	}
	if _, err := s.u.Complete(ctx, ""); err != nil {
		return err
	}
	s.classIDs = ids(staged, func(m *classModel.ClassModel) uint { return m.ID })
	return nil
}

func (s *seeder) enrollments(ctx context.Context, rows []enrollmentSeed) error {
	for _, r := range rows {
		studentID, ok := s.studentIDs[r.StudentNumber]
		if !ok {
			return errors.Errorf("enrollment: unknown student %s", r.StudentNumber)
		}
		classID, ok := s.classIDs[r.ClassName]
		if !ok {
			return errors.Errorf("enrollment: unknown class %s", r.ClassName)
		}
		_, err := ensure(ctx, s.u, uow.Where("student_id = ? AND class_id = ?", studentID, classID), func() *enrollmentModel.EnrollmentModel {
			return &enrollmentModel.EnrollmentModel{
				StudentID:      studentID,
				ClassID:        classID,
				EnrollmentDate: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
				Status:         enrollmentModel.StatusEnrolled,
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func ids[T any](staged map[string]*T, id func(*T) uint) map[string]uint {
	out := make(map[string]uint, len(staged))
	for k, m := range staged {
		out[k] = id(m)
	}
	return out
}
