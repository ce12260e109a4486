package configs

import (
	"errors"
	"os"
	"strconv"

	"rendezvous.club/configs/configsdatabase"
	"rendezvous.club/configs/configslog"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// AppConfig holds everything read from the environment at startup.
// DATABASE_URL and JWT_SECRET are mandatory; the payment, realtime and
// storage credentials are optional and their absence disables the feature
// with a warning rather than failing startup.
type AppConfig struct {
	Env  string
	Port string

	DatabaseURL string
	JWTSecret   string

	// Payments
	StripeSecretKey     string
	Currency            string
	MerchantDisplayName string
	MerchantCountryCode string

	// Realtime change feed
	RedisAddr string

	// Object storage
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioUseSSL        bool
	StoragePublicBase  string
	StorageUploadLimit int64

	// Seeded staff account
	AdminEmail    string
	AdminPassword string
}

// App is set once by LoadConfig and read-only afterwards.
var App *AppConfig

// LoadConfig reads .env (if present) and the environment into App.
func LoadConfig() (*AppConfig, error) {
	// .env is a development convenience; missing file is fine.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Env:                 getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		Currency:            getEnv("PAYMENT_CURRENCY", "eur"),
		MerchantDisplayName: getEnv("MERCHANT_DISPLAY_NAME", "Rendezvous Social Club"),
		MerchantCountryCode: getEnv("MERCHANT_COUNTRY_CODE", "ES"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		MinioEndpoint:       os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:         getEnvBool("MINIO_USE_SSL", false),
		StoragePublicBase:   os.Getenv("STORAGE_PUBLIC_BASE_URL"),
		StorageUploadLimit:  getEnvInt64("STORAGE_UPLOAD_LIMIT_BYTES", 10<<20),
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	if cfg.StripeSecretKey == "" {
		configslog.SLog.Warn("STRIPE_SECRET_KEY not set; paid event checkout is disabled")
	}
	if cfg.RedisAddr == "" {
		configslog.SLog.Warn("REDIS_ADDR not set; realtime change feed is disabled")
	}
	if cfg.MinioEndpoint == "" {
		configslog.SLog.Warn("MINIO_ENDPOINT not set; image uploads are disabled")
	}

	App = cfg
	return cfg, nil
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB { return configsdatabase.GetDB() }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
