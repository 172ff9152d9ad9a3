// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Render.Width != 512 || cfg.Render.Height != 512 {
		t.Errorf("Render size = %dx%d, want 512x512", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Tiles.Timeout != 10*time.Second {
		t.Errorf("Tiles.Timeout = %v, want 10s", cfg.Tiles.Timeout)
	}
	if cfg.Tiles.URL != "" {
		t.Errorf("Tiles.URL = %q, want empty", cfg.Tiles.URL)
	}
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("GGMAP_RENDER_WIDTH", "300")
	t.Setenv("GGMAP_TRACING_STDOUT", "true")
	t.Setenv("GGMAP_HTTP_READ_TIMEOUT", "2s")

	cfg, err := New(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Render.Width != 300 {
		t.Errorf("Render.Width = %d, want 300", cfg.Render.Width)
	}
	if !cfg.Tracing.Stdout {
		t.Error("Tracing.Stdout = false, want true")
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Errorf("HTTP.ReadTimeout = %v, want 2s", cfg.HTTP.ReadTimeout)
	}
}

func TestNewEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "GGMAP_RENDER_ZOOM=5\nGGMAP_RENDER_HEIGHT=128\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("GGMAP_RENDER_ZOOM")
		os.Unsetenv("GGMAP_RENDER_HEIGHT")
	})
	// The environment wins over the file.
	t.Setenv("GGMAP_RENDER_HEIGHT", "64")

	cfg, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Render.Zoom != 5 {
		t.Errorf("Render.Zoom = %d, want 5 from file", cfg.Render.Zoom)
	}
	if cfg.Render.Height != 64 {
		t.Errorf("Render.Height = %d, want 64 from environment", cfg.Render.Height)
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero width", "GGMAP_RENDER_WIDTH", "0"},
		{"negative pixel ratio", "GGMAP_RENDER_PIXEL_RATIO", "-1"},
		{"negative zoom", "GGMAP_RENDER_ZOOM", "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := New(filepath.Join(t.TempDir(), "missing.env"))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("New() error = %v, want ErrInvalid", err)
			}
		})
	}

	t.Setenv("GGMAP_RENDER_WIDTH", "wide")
	if _, err := New(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("New() with a non-numeric width should fail")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (Logger{Level: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
