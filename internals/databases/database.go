package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	notificationModel "schoolku_backend/internals/features/notifications/notifications/model"
	assignmentModel "schoolku_backend/internals/features/school/assignments/model"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	classModel "schoolku_backend/internals/features/school/classes/model"
	courseModel "schoolku_backend/internals/features/school/courses/model"
	deptModel "schoolku_backend/internals/features/school/departments/model"
	enrollmentModel "schoolku_backend/internals/features/school/enrollments/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	"schoolku_backend/internals/persistence"
	"schoolku_backend/internals/persistence/seed"
)

// Models adalah seluruh tabel aplikasi, urut sesuai dependensi FK.
func Models() []any {
	return []any{
		&authModel.UserModel{}, &authModel.RoleModel{}, &authModel.UserRoleModel{},
		&deptModel.DepartmentModel{},
		&teacherModel.TeacherModel{},
		&studentModel.StudentModel{}, &studentModel.StudentDocumentModel{},
		&courseModel.CourseModel{},
		&classModel.ClassModel{},
		&enrollmentModel.EnrollmentModel{},
		&gradeModel.GradeModel{},
		&attendanceModel.AttendanceModel{},
		&assignmentModel.AssignmentModel{}, &assignmentModel.SubmissionModel{},
		&notificationModel.NotificationModel{},
	}
}

func dsn(cfg configs.DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolku&options=-c statement_timeout=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode, cfg.StatementTimeoutMS,
	)
}

// Connect membuka koneksi dengan retry (backoff eksponensial, dibatasi
// RetryMaxDelay), menyetel pool, dan memasang filter baris aktif.
func Connect(ctx context.Context, cfg configs.DBConfig, logger zerolog.Logger) (*gorm.DB, error) {
	log := logger.With().Str("component", "database").Logger()
	log.Info().Str("host", cfg.Host).Str("db", cfg.Name).Msg("🔌 Koneksi ke PostgreSQL...")

	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	delay := 500 * time.Millisecond

	var db *gorm.DB
	var err error
	for i := 1; i <= attempts; i++ {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn(cfg),
			PreferSimpleProtocol: true, // PgBouncer transaction pooling
		}), &gorm.Config{Logger: configs.NewGormLogger(logger)})
		if err == nil {
			err = Ping(ctx, db)
		}
		if err == nil {
			break
		}
		if i == attempts {
			return nil, errors.Wrapf(err, "connect database after %d attempts", attempts)
		}
		log.Warn().Err(err).Int("attempt", i).Dur("retry_in", delay).Msg("⚠️ DB belum siap, mencoba lagi")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > cfg.RetryMaxDelay && cfg.RetryMaxDelay > 0 {
			delay = cfg.RetryMaxDelay
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "pool handle")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	if err := persistence.RegisterActiveFilter(db); err != nil {
		return nil, errors.Wrap(err, "register active filter")
	}
	log.Info().Msg("✅ DB connected.")
	return db, nil
}

// Migrate membuat/menyesuaikan tabel aplikasi dan seed_history.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return seed.Migrate(db)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
