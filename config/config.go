// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads the ggmapd configuration from the environment.
//
// Variables are read after an optional .env file, so real environment
// values win. Every variable carries the GGMAP_ prefix, e.g.
// GGMAP_HTTP_ADDR or GGMAP_RENDER_WIDTH.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/gogpu/ggmap"
)

// Prefix is prepended to every variable name.
const Prefix = "GGMAP_"

type (
	Config struct {
		HTTP    HTTP    `envPrefix:"HTTP_"`
		Render  Render  `envPrefix:"RENDER_"`
		Tiles   Tiles   `envPrefix:"TILES_"`
		Tracing Tracing `envPrefix:"TRACING_"`
		Logger  Logger  `envPrefix:"LOGGER_"`
	}

	HTTP struct {
		Addr         string        `env:"ADDR" envDefault:":8080"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
		IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	}

	// Render describes the frame the demo composes.
	Render struct {
		Width      int     `env:"WIDTH" envDefault:"512"`
		Height     int     `env:"HEIGHT" envDefault:"512"`
		PixelRatio float64 `env:"PIXEL_RATIO" envDefault:"1"`
		Zoom       int     `env:"ZOOM" envDefault:"2"`
		CenterX    float64 `env:"CENTER_X" envDefault:"0"`
		CenterY    float64 `env:"CENTER_Y" envDefault:"0"`
		Rotation   float64 `env:"ROTATION" envDefault:"0"` // radians
		Output     string  `env:"OUTPUT" envDefault:"ggmap.png"`
	}

	// Tiles configures the tile layer. An empty URL draws a synthetic
	// checkerboard instead of fetching tiles.
	Tiles struct {
		URL       string        `env:"URL"`
		Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
		CacheSize int           `env:"CACHE_SIZE" envDefault:"512"`
	}

	Tracing struct {
		Stdout bool `env:"STDOUT" envDefault:"false"`
	}

	Logger struct {
		Level string `env:"LEVEL" envDefault:"info"`
	}
)

// ErrInvalid reports a configuration value outside its range.
var ErrInvalid = errors.New("config: invalid value")

// New loads files (".env" when none are given) into the environment and
// parses the configuration. Missing files are not an error.
func New(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load env file: %w", err)
		}
		ggmap.Logger().Debug("config: env file not found", "err", err)
	}

	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: Prefix})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, c.Render.Width, c.Render.Height)
	case c.Render.PixelRatio <= 0:
		return fmt.Errorf("%w: pixel ratio %v", ErrInvalid, c.Render.PixelRatio)
	case c.Render.Zoom < 0:
		return fmt.Errorf("%w: zoom %d", ErrInvalid, c.Render.Zoom)
	}
	return nil
}

// SlogLevel returns the configured level, Info when it does not parse.
func (l Logger) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
