package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"

	BlobLocal = "local"
	BlobS3    = "s3"
)

type Config struct {
	Origin string // Public base URL used in verification links (default: http://localhost:8080)

	StoreDriver   string // sqlite or mongo (default: sqlite)
	DatabaseFile  string // SQLite database file (default: ./tandem.db)
	MongoURI      string // Required when StoreDriver is mongo
	MongoDatabase string // (default: tandem)
	RedisURL      string // Optional: serve sessions from Redis

	BlobDriver     string // local or s3 (default: local)
	UploadsDir     string // Local photo directory (default: ./uploads)
	UploadsBaseURL string // Optional: absolute prefix for local photo URLs
	S3Bucket       string
	S3Region       string
	S3Endpoint     string // Optional: MinIO or other S3-compatible endpoint
	S3AccessKey    string
	S3SecretKey    string
	S3PathStyle    bool
	MaxUploadBytes int64 // Multipart body limit (default: 5 MiB)

	SessionTTL   time.Duration // (default: 15m)
	FormTokenTTL time.Duration // (default: 5m)

	// Cookies are marked Secure. Turn off only for plain-HTTP development.
	SecureCookies bool
	// Registration responses carry the verification link. Development and
	// end-to-end tests only.
	ExposeVerificationLinks bool

	BadgeQueueSize int           // (default: 256)
	BadgeTimeout   time.Duration // Per-event evaluation timeout (default: 10s)

	PepperFile           string        // Pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 10m)
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when one exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Origin: getEnvOrDefault("TANDEM_ORIGIN", "http://localhost:8080"),

		StoreDriver:   strings.ToLower(getEnvOrDefault("TANDEM_STORE", StoreSQLite)),
		DatabaseFile:  getEnvOrDefault("TANDEM_DATABASE_FILE", "tandem.db"),
		MongoURI:      os.Getenv("TANDEM_MONGO_URI"),
		MongoDatabase: getEnvOrDefault("TANDEM_MONGO_DATABASE", "tandem"),
		RedisURL:      os.Getenv("TANDEM_REDIS_URL"),

		BlobDriver:     strings.ToLower(getEnvOrDefault("TANDEM_BLOB", BlobLocal)),
		UploadsDir:     getEnvOrDefault("TANDEM_UPLOADS_DIR", "uploads"),
		UploadsBaseURL: os.Getenv("TANDEM_UPLOADS_BASE_URL"),
		S3Bucket:       os.Getenv("TANDEM_S3_BUCKET"),
		S3Region:       getEnvOrDefault("TANDEM_S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("TANDEM_S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("TANDEM_S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("TANDEM_S3_SECRET_KEY"),
		S3PathStyle:    getEnvBoolOrDefault("TANDEM_S3_PATH_STYLE", false),
		MaxUploadBytes: int64(getEnvIntOrDefault("TANDEM_MAX_UPLOAD_BYTES", 5<<20)),

		SessionTTL:   getEnvDurationOrDefault("TANDEM_SESSION_TTL", 15*time.Minute),
		FormTokenTTL: getEnvDurationOrDefault("TANDEM_FORM_TOKEN_TTL", 5*time.Minute),

		SecureCookies:           getEnvBoolOrDefault("TANDEM_SECURE_COOKIES", true),
		ExposeVerificationLinks: getEnvBoolOrDefault("TANDEM_EXPOSE_VERIFICATION_LINKS", false),

		BadgeQueueSize: getEnvIntOrDefault("TANDEM_BADGE_QUEUE_SIZE", 256),
		BadgeTimeout:   getEnvDurationOrDefault("TANDEM_BADGE_TIMEOUT", 10*time.Second),

		PepperFile:           getEnvOrDefault("TANDEM_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 10*time.Minute),
	}
}

// Validate reports every setting that would stop the application starting.
func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("TANDEM_DATABASE_FILE is required for the sqlite store"))
		}
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("TANDEM_MONGO_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TANDEM_STORE %q", c.StoreDriver))
	}

	switch c.BlobDriver {
	case BlobLocal:
	case BlobS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("TANDEM_S3_BUCKET is required for the s3 blob driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TANDEM_BLOB %q", c.BlobDriver))
	}

	if c.Origin == "" {
		errs = append(errs, errors.New("TANDEM_ORIGIN must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
