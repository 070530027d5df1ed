package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API reads from the environment.
type Config struct {
	DBDriver          string
	DBSource          string
	Port              string
	GinMode           string
	JWTSecret         string
	JWTTTL            time.Duration
	LogLevel          string
	CORSOrigins       []string
	RateLimitRPS      float64
	RateLimitBurst    int
	ReservationPolicy string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	return &Config{
		DBDriver:          getEnv("DB_DRIVER", "sqlite"),
		DBSource:          getEnv("DB_SOURCE", "gastro.db"),
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		JWTSecret:         getEnv("JWT_SECRET", "changeme"),
		JWTTTL:            getDuration("JWT_TTL", 24*time.Hour),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPS:      getFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 100),
		ReservationPolicy: getEnv("RESERVATION_CONFLICT_POLICY", "overlap"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
