package configs

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Config is the typed view over the process environment.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"3000"`

	DB       DBConfig
	JWT      JWTConfig
	Upload   UploadConfig
	OSS      OSSConfig
	Cache    CacheConfig
	Jobs     JobsConfig
	Seed     SeedConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	GoogleClientID string        `env:"GOOGLE_CLIENT_ID"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5500"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	SeedOnStart    bool          `env:"SEED_ON_START" envDefault:"true"`
}

type DBConfig struct {
	Host               string        `env:"DB_HOST" envDefault:"localhost"`
	Port               string        `env:"DB_PORT" envDefault:"5432"`
	User               string        `env:"DB_USER"`
	Password           string        `env:"DB_PASSWORD"`
	Name               string        `env:"DB_NAME"`
	SSLMode            string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns       int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns       int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	ConnectRetries     int           `env:"DB_CONNECT_RETRIES" envDefault:"5"`
	RetryMaxDelay      time.Duration `env:"DB_RETRY_MAX_DELAY" envDefault:"10s"`
	StatementTimeoutMS int           `env:"DB_STATEMENT_TIMEOUT_MS" envDefault:"3000"`
}

type JWTConfig struct {
	Key               string `env:"JWT_KEY,required,notEmpty"`
	Issuer            string `env:"JWT_ISSUER" envDefault:"schoolku"`
	Audience          string `env:"JWT_AUDIENCE" envDefault:"schoolku-clients"`
	ExpiryMinutes     int    `env:"JWT_EXPIRY_MINUTES" envDefault:"60"`
	RefreshExpiryDays int    `env:"JWT_REFRESH_EXPIRY_DAYS" envDefault:"7"`
}

type UploadConfig struct {
	Dir              string `env:"UPLOAD_DIR" envDefault:"uploads"`
	PublicBaseURL    string `env:"UPLOAD_PUBLIC_BASE_URL" envDefault:"/uploads"`
	MaxImageMB       int    `env:"UPLOAD_MAX_IMAGE_MB" envDefault:"5"`
	MaxDocumentMB    int    `env:"UPLOAD_MAX_DOCUMENT_MB" envDefault:"10"`
	MaxAssignmentMB  int    `env:"UPLOAD_MAX_ASSIGNMENT_MB" envDefault:"20"`
	ConvertPhotoWebP bool   `env:"UPLOAD_CONVERT_PHOTO_WEBP" envDefault:"true"`
}

type OSSConfig struct {
	Endpoint        string `env:"ALI_OSS_ENDPOINT"`
	AccessKeyID     string `env:"ALI_OSS_ACCESS_KEY"`
	AccessKeySecret string `env:"ALI_OSS_SECRET_KEY"`
	Bucket          string `env:"ALI_OSS_BUCKET"`
	PublicBaseURL   string `env:"ALI_OSS_PUBLIC_BASE_URL"`
}

// Enabled reports whether every OSS credential is present.
func (o OSSConfig) Enabled() bool {
	return o.Endpoint != "" && o.AccessKeyID != "" && o.AccessKeySecret != "" && o.Bucket != ""
}

type CacheConfig struct {
	Capacity   uint64 `env:"CACHE_CAPACITY" envDefault:"1024"`
	TTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"300"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type JobsConfig struct {
	CleanupSchedule           string `env:"CRON_CLEANUP_SCHEDULE" envDefault:"15 2 * * *"`
	NotificationRetentionDays int    `env:"NOTIFICATION_RETENTION_DAYS" envDefault:"30"`
}

// SeedConfig: akun admin awal yang dibuat INITIAL-SEED.
type SeedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@schoolku.local"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"Admin@12345"`
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env when the platform does not inject the environment itself.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Info().Msg("🚀 Running in Railway, using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system ENV")
		return
	}
	log.Info().Msg("✅ .env file loaded")
}

// Load parses the environment into Config. A missing JWT_KEY is an error.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if cfg.JWT.ExpiryMinutes <= 0 {
		cfg.JWT.ExpiryMinutes = 60
	}
	return &cfg, nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
