// Command ggmapd composes map frames with ggmap.
//
// By default it renders one frame of the demo scene to a PNG file. With
// -serve it serves frames over HTTP together with Prometheus metrics:
//
//	GET /frame.png?x=0&y=0&zoom=3&rotation=0.3
//	GET /metrics
//	GET /healthz
//
// Configuration comes from GGMAP_* environment variables and an optional
// .env file, see package config.
package main

import (
	"context"
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/config"
	"github.com/gogpu/ggmap/metrics"
)

func main() {
	var (
		serve  = flag.Bool("serve", false, "serve frames over HTTP instead of writing a PNG")
		output = flag.String("output", "", "output file (overrides GGMAP_RENDER_OUTPUT)")
	)
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *output != "" {
		cfg.Render.Output = *output
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logger.SlogLevel()}))
	ggmap.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := initTracing(ctx, cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("tracing shutdown", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stats := metrics.New(reg)

	r, err := newRenderer(cfg, stats)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Close()

	if *serve {
		if err := runServer(ctx, cfg.HTTP, r, reg); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	img := r.Render(ctx, r.DefaultView())
	f, err := os.Create(cfg.Render.Output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("Failed to encode: %v", err)
	}
	log.Printf("Frame saved to %s (%dx%d)\n", cfg.Render.Output, img.Bounds().Dx(), img.Bounds().Dy())
}
