// Package config loads server configuration from the environment.
//
// Values come from process environment variables. An optional .env file is
// read first with godotenv; variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/logging"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/recognition"
)

const (
	// DefaultEnvFile is read by Load when no file is named.
	DefaultEnvFile = ".env"

	// DefaultOCRLanguage is the Tesseract language for kanji.
	DefaultOCRLanguage = "jpn"
)

// Environment variable names.
const (
	EnvFontPath         = "KANJI_FONT_PATH"
	EnvImageSize        = "KANJI_IMAGE_SIZE"
	EnvThreshold        = "KANJI_THRESHOLD"
	EnvStrokeRatio      = "KANJI_STROKE_RATIO"
	EnvMaxCoverage      = "KANJI_MAX_COVERAGE"
	EnvMaxCoverageRatio = "KANJI_MAX_COVERAGE_RATIO"
	EnvOCRLanguage      = "KANJI_OCR_LANGUAGE"
	EnvLogLevel         = "KANJI_LOG_LEVEL"
)

// Config holds server configuration
type Config struct {
	// FontPath is the TrueType font used to draw reference glyphs.
	// Empty means no font: recognition requests fail until one is set.
	FontPath string

	// ImageSize is the working canvas size drawings are rasterized to.
	ImageSize int

	// Recognition tuning
	Threshold        float64
	StrokeRatio      float64
	MaxCoverage      float64
	MaxCoverageRatio float64

	// OCRLanguage is the Tesseract language for the OCR tool.
	OCRLanguage string

	// LogLevel is debug, info, warn, or error.
	LogLevel string

	// malformed records variables that were set but could not be parsed.
	malformed []error
}

// Load reads the named .env files, or DefaultEnvFile when none are given,
// then builds and validates a Config from the environment. Missing env files
// are not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	defaults := recognition.DefaultParams()
	cfg := &Config{}
	cfg.FontPath = getEnvOrDefault(EnvFontPath, "")
	cfg.ImageSize = cfg.getEnvAsIntOrDefault(EnvImageSize, recognition.DefaultSize)
	cfg.Threshold = cfg.getEnvAsFloatOrDefault(EnvThreshold, defaults.Threshold)
	cfg.StrokeRatio = cfg.getEnvAsFloatOrDefault(EnvStrokeRatio, defaults.StrokeRatio)
	cfg.MaxCoverage = cfg.getEnvAsFloatOrDefault(EnvMaxCoverage, defaults.MaxCoverage)
	cfg.MaxCoverageRatio = cfg.getEnvAsFloatOrDefault(EnvMaxCoverageRatio, defaults.MaxCoverageRatio)
	cfg.OCRLanguage = getEnvOrDefault(EnvOCRLanguage, DefaultOCRLanguage)
	cfg.LogLevel = getEnvOrDefault(EnvLogLevel, "info")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if len(c.malformed) > 0 {
		return c.malformed[0]
	}

	if c.ImageSize < 8 || c.ImageSize > 1024 {
		return fmt.Errorf("%s must be between 8 and 1024, got %d", EnvImageSize, c.ImageSize)
	}

	if c.FontPath != "" {
		info, err := os.Stat(c.FontPath)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFontPath, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s must be a file, got directory %s", EnvFontPath, c.FontPath)
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	if err := c.RecognitionParams().Validate(); err != nil {
		return err
	}
	return nil
}

// RecognitionParams returns DefaultParams with the configured overrides.
func (c *Config) RecognitionParams() recognition.Params {
	p := recognition.DefaultParams()
	p.Threshold = c.Threshold
	p.StrokeRatio = c.StrokeRatio
	p.MaxCoverage = c.MaxCoverage
	p.MaxCoverageRatio = c.MaxCoverageRatio
	return p
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default.
// A value that does not parse is recorded for Validate.
func (c *Config) getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		c.malformed = append(c.malformed, fmt.Errorf("%s must be an integer, got %q", key, valueStr))
		return defaultValue
	}
	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default.
// A value that does not parse is recorded for Validate.
func (c *Config) getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		c.malformed = append(c.malformed, fmt.Errorf("%s must be a number, got %q", key, valueStr))
		return defaultValue
	}
	return value
}
