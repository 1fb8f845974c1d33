package config

import (
	"path/filepath"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("CLIMBCRAFT_ROOT_PATH", "")
	t.Setenv("CLIMBCRAFT_PORT", "")
	t.Setenv("CLIMBCRAFT_MAX_SCALE", "")
	t.Setenv("CLIMBCRAFT_TARGET_MAX_DIM", "")
	t.Setenv("CLIMBCRAFT_S3_BUCKET", "")
	t.Setenv("CLIMBCRAFT_WEBSERVER_URL", "")

	cfg := FromEnv()
	if cfg.RootPath != "." {
		t.Errorf("RootPath = %q, want %q", cfg.RootPath, ".")
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.MaxScale != DefaultMaxScale {
		t.Errorf("MaxScale = %v, want %v", cfg.MaxScale, DefaultMaxScale)
	}
	if cfg.TargetMaxDim != DefaultTargetMaxDim {
		t.Errorf("TargetMaxDim = %d, want %d", cfg.TargetMaxDim, DefaultTargetMaxDim)
	}
	if cfg.RemoteEnabled() {
		t.Error("RemoteEnabled() = true without a bucket")
	}
}

func TestFromEnv_Values(t *testing.T) {
	t.Setenv("CLIMBCRAFT_ROOT_PATH", "/data")
	t.Setenv("CLIMBCRAFT_MAX_SCALE", "8")
	t.Setenv("CLIMBCRAFT_TARGET_MAX_DIM", "1080")
	t.Setenv("CLIMBCRAFT_S3_BUCKET", "holds")

	cfg := FromEnv()
	if cfg.MaxScale != 8 {
		t.Errorf("MaxScale = %v, want 8", cfg.MaxScale)
	}
	if cfg.TargetMaxDim != 1080 {
		t.Errorf("TargetMaxDim = %d, want 1080", cfg.TargetMaxDim)
	}
	if got, want := cfg.DatabasePath(), filepath.Join("/data", "climbcraft.db"); got != want {
		t.Errorf("DatabasePath() = %q, want %q", got, want)
	}
	if got, want := cfg.HoldsPath(), filepath.Join("/data", "holds"); got != want {
		t.Errorf("HoldsPath() = %q, want %q", got, want)
	}
	if got, want := cfg.BrandsPath(), filepath.Join("/data", "brands"); got != want {
		t.Errorf("BrandsPath() = %q, want %q", got, want)
	}
	if !cfg.RemoteEnabled() {
		t.Error("RemoteEnabled() = false with a bucket")
	}
}

func TestFromEnv_InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		maxScale string
		maxDim   string
	}{
		{"garbage", "abc", "xyz"},
		{"out of range", "0.5", "-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLIMBCRAFT_MAX_SCALE", tt.maxScale)
			t.Setenv("CLIMBCRAFT_TARGET_MAX_DIM", tt.maxDim)

			cfg := FromEnv()
			if cfg.MaxScale != DefaultMaxScale {
				t.Errorf("MaxScale = %v, want default", cfg.MaxScale)
			}
			if cfg.TargetMaxDim != DefaultTargetMaxDim {
				t.Errorf("TargetMaxDim = %d, want default", cfg.TargetMaxDim)
			}
		})
	}
}
