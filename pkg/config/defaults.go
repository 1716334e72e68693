// Package config provides centralized default values for the engage engine
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err == nil {
			log.Println("Loading configuration overrides from .env file...")
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database Configuration
	DBDriver           string
	DBPath             string
	DBURL              string
	DBAuthToken        string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	SlowQueryThreshold time.Duration

	// Session Configuration
	SessionTTL          time.Duration
	SessionSweepEvery   time.Duration
	MaxTrackedSessions  int
	SessionHeader       string
	AdminBypassLifetime time.Duration

	// Admin Configuration
	AdminKey     string
	AdminKeyHash string
	JWTSecret    string

	// Unlock Schedule Configuration
	UnlockTimeZone    string
	Day1UnlockAt      string
	Day2UnlockAt      string
	Day3UnlockAt      string
	Day4UnlockAt      string
	CTAGateOpensAt    string
	BannerVisibleFrom string

	// CTA Configuration
	ReservationURL string
	UTMSource      string
	UTMMedium      string

	// Logging Configuration
	LogDirectory    string
	LogToFile       bool
	LogJSONFormat   bool
	LogDefaultLevel string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database Configuration
	DBDriver = getEnvString("ENGAGE_DB_DRIVER", "sqlite3")
	DBPath = getEnvString("ENGAGE_DB_PATH", "engage.db")
	DBURL = getEnvString("ENGAGE_DB_URL", "")
	DBAuthToken = getEnvString("ENGAGE_DB_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Session Configuration
	SessionTTL = time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour
	SessionSweepEvery = time.Duration(getEnvInt("SESSION_SWEEP_INTERVAL_MINUTES", 30)) * time.Minute
	MaxTrackedSessions = getEnvInt("MAX_TRACKED_SESSIONS", 10000)
	SessionHeader = getEnvString("SESSION_HEADER", "X-Engage-Session-ID")
	AdminBypassLifetime = time.Duration(getEnvInt("ADMIN_BYPASS_LIFETIME_HOURS", 12)) * time.Hour

	// Admin Configuration
	AdminKey = getEnvString("ADMIN_KEY", "")
	AdminKeyHash = getEnvString("ADMIN_KEY_HASH", "")
	JWTSecret = getEnvString("JWT_SECRET", "")

	// Unlock Schedule Configuration
	UnlockTimeZone = getEnvString("UNLOCK_TIMEZONE", "America/New_York")
	Day1UnlockAt = getEnvString("DAY1_UNLOCK_AT", "2026-09-14T09:00:00")
	Day2UnlockAt = getEnvString("DAY2_UNLOCK_AT", "2026-09-15T09:00:00")
	Day3UnlockAt = getEnvString("DAY3_UNLOCK_AT", "2026-09-16T09:00:00")
	Day4UnlockAt = getEnvString("DAY4_UNLOCK_AT", "2026-09-17T09:00:00")
	CTAGateOpensAt = getEnvString("CTA_GATE_OPENS_AT", "")
	BannerVisibleFrom = getEnvString("BANNER_VISIBLE_FROM", "")

	// CTA Configuration
	ReservationURL = getEnvString("RESERVATION_URL", "https://lumenlearn.com/reserve")
	UTMSource = getEnvString("UTM_SOURCE", "engage")
	UTMMedium = getEnvString("UTM_MEDIUM", "cta")

	// Logging Configuration
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", true)
	LogJSONFormat = getEnvBool("LOG_JSON_FORMAT", true)
	LogDefaultLevel = getEnvString("LOG_DEFAULT_LEVEL", "info")
}
