// Package config reads docscan-mcp settings from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/detection"
)

// Config holds process-wide settings.
type Config struct {
	LogLevel  string // DOCSCAN_LOG_LEVEL
	LogFormat string // DOCSCAN_LOG_FORMAT: text or json

	MaxDimension     int     // DOCSCAN_MAX_DIMENSION
	ThresholdLow     float64 // DOCSCAN_THRESHOLD_LOW
	ThresholdHigh    float64 // DOCSCAN_THRESHOLD_HIGH
	AutoThreshold    bool    // DOCSCAN_AUTO_THRESHOLD
	AdaptiveFallback bool    // DOCSCAN_ADAPTIVE_FALLBACK
	MinAreaRatio     float64 // DOCSCAN_MIN_AREA_RATIO
}

// DefaultConfig returns the settings used when no variable is set.
func DefaultConfig() *Config {
	d := detection.DefaultConfig()
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		MaxDimension:     1600,
		ThresholdLow:     d.LowThreshold,
		ThresholdHigh:    d.HighThreshold,
		AdaptiveFallback: true,
		MinAreaRatio:     d.MinAreaRatio,
	}
}

// Load reads DOCSCAN_* variables over DefaultConfig. Malformed numbers and
// booleans are reported rather than silently replaced.
func Load() (*Config, error) {
	c := DefaultConfig()
	var err error

	c.LogLevel = getEnv("DOCSCAN_LOG_LEVEL", c.LogLevel)
	c.LogFormat = strings.ToLower(getEnv("DOCSCAN_LOG_FORMAT", c.LogFormat))

	if c.MaxDimension, err = getEnvInt("DOCSCAN_MAX_DIMENSION", c.MaxDimension); err != nil {
		return nil, err
	}
	if c.ThresholdLow, err = getEnvFloat("DOCSCAN_THRESHOLD_LOW", c.ThresholdLow); err != nil {
		return nil, err
	}
	if c.ThresholdHigh, err = getEnvFloat("DOCSCAN_THRESHOLD_HIGH", c.ThresholdHigh); err != nil {
		return nil, err
	}
	if c.AutoThreshold, err = getEnvBool("DOCSCAN_AUTO_THRESHOLD", c.AutoThreshold); err != nil {
		return nil, err
	}
	if c.AdaptiveFallback, err = getEnvBool("DOCSCAN_ADAPTIVE_FALLBACK", c.AdaptiveFallback); err != nil {
		return nil, err
	}
	if c.MinAreaRatio, err = getEnvFloat("DOCSCAN_MIN_AREA_RATIO", c.MinAreaRatio); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.ThresholdLow < 0 || c.ThresholdHigh > 255 || c.ThresholdLow > c.ThresholdHigh {
		return fmt.Errorf("thresholds must satisfy 0 <= low <= high <= 255, got %.1f/%.1f",
			c.ThresholdLow, c.ThresholdHigh)
	}
	if c.MinAreaRatio <= 0 || c.MinAreaRatio >= 1 {
		return fmt.Errorf("min area ratio must be in (0, 1), got %g", c.MinAreaRatio)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("max dimension must not be negative, got %d", c.MaxDimension)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Detection converts the settings into a scanner configuration. With
// AdaptiveFallback the scanner retries with local-mean thresholding when
// Canny finds no page.
func (c *Config) Detection() detection.Config {
	d := detection.DefaultConfig()
	d.LowThreshold = c.ThresholdLow
	d.HighThreshold = c.ThresholdHigh
	d.AutoThreshold = c.AutoThreshold
	d.MinAreaRatio = c.MinAreaRatio
	d.MaxDimension = c.MaxDimension
	if c.AdaptiveFallback {
		d.Fallback = detection.AdaptiveDetector{CloseRadius: 1}
	}
	return d
}

// NewLogger builds the process logger. Output goes to w, which for the MCP
// server must be stderr since stdout carries the protocol.
func (c *Config) NewLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
