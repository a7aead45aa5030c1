package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      int
	LogLevel  string
	LogFormat string
	StaticDir string

	TickRate         int
	RunDuration      time.Duration
	MissionTimeLimit int
	DeliveryRadius   float64
	RunMode          string
	MinimapMode      string

	// CitySeed of 0 picks a fresh seed per run.
	CitySeed          int64
	DestinationLayout string
	DestinationCount  int
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	return &Config{
		Port:      getEnvInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		StaticDir: getEnv("STATIC_DIR", ""),

		TickRate:         getEnvInt("TICK_RATE", 60),
		RunDuration:      time.Duration(getEnvInt("RUN_DURATION_SEC", 120)) * time.Second,
		MissionTimeLimit: getEnvInt("MISSION_TIME_LIMIT_SEC", 60),
		DeliveryRadius:   getEnvFloat("DELIVERY_RADIUS", 15),
		RunMode:          getEnv("RUN_MODE", "finite"),
		MinimapMode:      getEnv("MINIMAP_MODE", "north"),

		CitySeed:          int64(getEnvInt("CITY_SEED", 0)),
		DestinationLayout: getEnv("DESTINATION_LAYOUT", "landmarks"),
		DestinationCount:  getEnvInt("DESTINATION_COUNT", 5),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
