package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MemoryURI selects the in-process store instead of MongoDB.
const MemoryURI = "memory://"

const (
	DefaultProfileLimit      = 20
	MaxProfileLimit          = 100
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

type Config struct {
	MongoURI string
	MongoDB  string
	Port     string

	JWTSecret string
	JWTExpire time.Duration

	RequestTimeout     time.Duration
	NotificationWindow time.Duration

	SearchUserLimit int64
	SearchPostLimit int64

	// page sizes used when the request does not ask for one
	ProfilePageLimit      int
	NotificationPageLimit int

	RateLimitMax     int
	RateLimitWindow  time.Duration
	AuthRateLimitMax int

	CORSOrigins string
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("WARNING: invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("WARNING: invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	return Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "echome"),
		Port:     getEnv("PORT", "8800"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpire: getDuration("JWT_EXPIRE", 7*24*time.Hour),

		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 5*time.Second),
		NotificationWindow: getDuration("NOTIFICATION_WINDOW", time.Minute),

		SearchUserLimit: int64(getInt("SEARCH_USER_LIMIT", 50)),
		SearchPostLimit: int64(getInt("SEARCH_POST_LIMIT", 100)),

		ProfilePageLimit: ClampLimit(getInt("PROFILE_PAGE_LIMIT", DefaultProfileLimit),
			DefaultProfileLimit, MaxProfileLimit),
		NotificationPageLimit: ClampLimit(getInt("NOTIFICATION_PAGE_LIMIT", DefaultNotificationLimit),
			DefaultNotificationLimit, MaxNotificationLimit),

		RateLimitMax:     getInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow:  getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		AuthRateLimitMax: getInt("AUTH_RATE_LIMIT_MAX", 5),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// ClampLimit returns def when n is not positive and max when n exceeds it.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
