package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file named by CREDENCE_ENV (or .env by default), then
// the matching .secret sidecar if it exists. All config is flat env vars read
// via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CREDENCE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the environment may already be populated.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is the Postgres connection string. Empty means models and
// tenants are kept in memory.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// SessionTTL is how long a session may sit idle before the expirer drops it.
func SessionTTL() time.Duration {
	return durationOr("SESSION_TTL", 30*time.Minute)
}

func SessionSweepInterval() time.Duration {
	return durationOr("SESSION_SWEEP_INTERVAL", time.Minute)
}

// MaxSessionsPerTenant defaults to 100. Zero disables the cap.
func MaxSessionsPerTenant() int {
	n, err := strconv.Atoi(os.Getenv("MAX_SESSIONS_PER_TENANT"))
	if err != nil || n < 0 {
		return 100
	}
	return n
}

// SeedFixtures reports whether new tenants get the bundled example models.
func SeedFixtures() bool {
	v, err := strconv.ParseBool(os.Getenv("SEED_FIXTURES"))
	if err != nil {
		return true
	}
	return v
}

func durationOr(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
