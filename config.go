package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bodul/studycrossword/generator"
)

// Config holds service configuration loaded from the environment.
type Config struct {
	Port         string
	GCPProject   string
	GCPRegion    string
	GeminiModel  string
	MaxGridSize  int
	MaxConcepts  int
	ReadingOrder bool
	LogLevel     string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		GCPProject:   os.Getenv("GCP_PROJECT_ID"),
		GCPRegion:    getEnv("GCP_REGION", defaultRegion),
		GeminiModel:  getEnv("GEMINI_MODEL", defaultModel),
		MaxGridSize:  getEnvInt("CROSSWORD_MAX_SIZE", generator.DefaultMaxSize),
		MaxConcepts:  getEnvInt("CROSSWORD_MAX_CONCEPTS", generator.DefaultMaxConcepts),
		ReadingOrder: getEnv("CROSSWORD_NUMBERING", "placement") == "reading",
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// Validate rejects settings the generator cannot work with.
func (c *Config) Validate() error {
	if c.MaxGridSize < 2 {
		return fmt.Errorf("grid size must be at least 2, got %d", c.MaxGridSize)
	}
	if c.MaxConcepts < 1 {
		return fmt.Errorf("concept limit must be positive, got %d", c.MaxConcepts)
	}
	return nil
}

// Generator builds the puzzle generator described by c.
func (c *Config) Generator(logger *slog.Logger) *generator.Generator {
	numbering := generator.NumberPlacementOrder
	if c.ReadingOrder {
		numbering = generator.NumberReadingOrder
	}
	return generator.New(generator.Config{
		MaxSize:     c.MaxGridSize,
		MaxConcepts: c.MaxConcepts,
		Numbering:   numbering,
		Logger:      logger,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("ignoring non-numeric setting", "key", key, "value", val)
		return defaultVal
	}
	return n
}

// newLogger returns a JSON logger on stderr at the named level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
