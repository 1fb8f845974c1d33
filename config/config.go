// Package config reads the service configuration from CLIMBCRAFT_* environment variables
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPort         = "8080"
	DefaultMaxScale     = 5.0
	DefaultTargetMaxDim = 2048
	DefaultWebServerURL = "http://localhost:8080"
)

type Config struct {
	RootPath     string
	Port         string
	MaxScale     float64
	TargetMaxDim int
	CatalogFile  string

	AWSProfile   string
	S3Bucket     string
	WebServerURL string
}

// DatabasePath is where the sqlite database lives under the root path.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.RootPath, "climbcraft.db")
}

// HoldsPath is the directory of bundled hold images.
func (c *Config) HoldsPath() string {
	return filepath.Join(c.RootPath, "holds")
}

// BrandsPath is the directory of brand logo images.
func (c *Config) BrandsPath() string {
	return filepath.Join(c.RootPath, "brands")
}

// RemoteEnabled reports whether hold assets should be mirrored from S3.
func (c *Config) RemoteEnabled() bool {
	return c.S3Bucket != ""
}

// FromEnv loads the configuration. Values that fail to parse fall back to their defaults.
func FromEnv() *Config {
	cfg := &Config{
		RootPath:     os.Getenv("CLIMBCRAFT_ROOT_PATH"),
		Port:         os.Getenv("CLIMBCRAFT_PORT"),
		CatalogFile:  os.Getenv("CLIMBCRAFT_CATALOG_FILE"),
		AWSProfile:   os.Getenv("CLIMBCRAFT_AWS_PROFILE"),
		S3Bucket:     os.Getenv("CLIMBCRAFT_S3_BUCKET"),
		WebServerURL: os.Getenv("CLIMBCRAFT_WEBSERVER_URL"),
		MaxScale:     DefaultMaxScale,
		TargetMaxDim: DefaultTargetMaxDim,
	}

	// if empty then defaults to current directory
	if cfg.RootPath == "" {
		cfg.RootPath = "."
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.WebServerURL == "" {
		cfg.WebServerURL = DefaultWebServerURL
	}

	if s := os.Getenv("CLIMBCRAFT_MAX_SCALE"); s != "" {
		maxScale, err := strconv.ParseFloat(s, 64)
		if err != nil || maxScale < 1 {
			slog.Warn("unable to parse CLIMBCRAFT_MAX_SCALE, using default", "CLIMBCRAFT_MAX_SCALE", s, "default", DefaultMaxScale)
		} else {
			cfg.MaxScale = maxScale
		}
	}

	if s := os.Getenv("CLIMBCRAFT_TARGET_MAX_DIM"); s != "" {
		targetMaxDim, err := strconv.Atoi(s)
		if err != nil || targetMaxDim <= 0 {
			slog.Warn("unable to parse CLIMBCRAFT_TARGET_MAX_DIM, using default", "CLIMBCRAFT_TARGET_MAX_DIM", s, "default", DefaultTargetMaxDim)
		} else {
			cfg.TargetMaxDim = targetMaxDim
		}
	}

	return cfg
}
