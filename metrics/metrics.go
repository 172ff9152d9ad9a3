// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the rendering pipeline.
//
// A nil *Collectors is valid and records nothing, so components take an
// optional collector set without branching at every call site.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Skip reasons for LayersSkipped.
const (
	ReasonHidden     = "hidden"
	ReasonNotReady   = "not_ready"
	ReasonNoSurface  = "no_surface"
	ReasonNoRenderer = "no_renderer"
)

// Collectors groups the pipeline metrics.
type Collectors struct {
	Frames         prometheus.Counter
	FrameDuration  prometheus.Histogram
	LayersComposed prometheus.Counter
	LayersSkipped  *prometheus.CounterVec
	ReplayRebuilds prometheus.Counter
	ReplayReuses   prometheus.Counter
	TextureUploads prometheus.Counter
	UploadFailures prometheus.Counter
	TextureEvicts  prometheus.Counter
	ContextLosses  prometheus.Counter
	TextureQueue   prometheus.Gauge
	PooledSurfaces prometheus.Gauge
	LabelCacheSize prometheus.Gauge
}

// New registers the collectors on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Collectors {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collectors{
		Frames: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_frames_total",
			Help: "Total number of composited frames",
		}),
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ggmap_frame_duration_seconds",
			Help:    "Time spent compositing a frame in seconds",
			Buckets: []float64{.001, .002, .004, .008, .016, .033, .066, .133, .5},
		}),
		LayersComposed: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_layers_composed_total",
			Help: "Total number of layer compose calls",
		}),
		LayersSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggmap_layers_skipped_total",
			Help: "Total number of layers skipped in a frame by reason",
		}, []string{"reason"}),
		ReplayRebuilds: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_replay_rebuilds_total",
			Help: "Total number of vector replay group rebuilds",
		}),
		ReplayReuses: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_replay_reuses_total",
			Help: "Total number of frames that reused a vector replay group",
		}),
		TextureUploads: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_texture_uploads_total",
			Help: "Total number of tile texture uploads",
		}),
		UploadFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_texture_upload_failures_total",
			Help: "Total number of failed tile texture uploads",
		}),
		TextureEvicts: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_texture_evictions_total",
			Help: "Total number of tile textures evicted from the cache",
		}),
		ContextLosses: f.NewCounter(prometheus.CounterOpts{
			Name: "ggmap_gpu_context_losses_total",
			Help: "Total number of GPU context losses",
		}),
		TextureQueue: f.NewGauge(prometheus.GaugeOpts{
			Name: "ggmap_texture_queue_depth",
			Help: "Number of tiles waiting for texture upload",
		}),
		PooledSurfaces: f.NewGauge(prometheus.GaugeOpts{
			Name: "ggmap_pooled_surfaces",
			Help: "Number of rendering surfaces held by the surface pool",
		}),
		LabelCacheSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "ggmap_label_cache_entries",
			Help: "Number of rasterized labels held by the label cache",
		}),
	}
}

func (c *Collectors) FrameRendered(d time.Duration) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.FrameDuration.Observe(d.Seconds())
}

func (c *Collectors) LayerComposed() {
	if c != nil {
		c.LayersComposed.Inc()
	}
}

func (c *Collectors) LayerSkipped(reason string) {
	if c != nil {
		c.LayersSkipped.WithLabelValues(reason).Inc()
	}
}

func (c *Collectors) ReplayRebuilt() {
	if c != nil {
		c.ReplayRebuilds.Inc()
	}
}

func (c *Collectors) ReplayReused() {
	if c != nil {
		c.ReplayReuses.Inc()
	}
}

func (c *Collectors) TextureUploaded() {
	if c != nil {
		c.TextureUploads.Inc()
	}
}

func (c *Collectors) UploadFailed() {
	if c != nil {
		c.UploadFailures.Inc()
	}
}

func (c *Collectors) TextureEvicted() {
	if c != nil {
		c.TextureEvicts.Inc()
	}
}

func (c *Collectors) ContextLost() {
	if c != nil {
		c.ContextLosses.Inc()
	}
}

func (c *Collectors) SetTextureQueue(n int) {
	if c != nil {
		c.TextureQueue.Set(float64(n))
	}
}

func (c *Collectors) SetPooledSurfaces(n int) {
	if c != nil {
		c.PooledSurfaces.Set(float64(n))
	}
}

func (c *Collectors) SetLabelCacheSize(n int) {
	if c != nil {
		c.LabelCacheSize.Set(float64(n))
	}
}
