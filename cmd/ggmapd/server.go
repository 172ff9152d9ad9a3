package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/config"
)

// maxFrameSize bounds the requested frame width and height in pixels.
const maxFrameSize = 4096

// frameHandler serves composed frames.
type frameHandler struct {
	r *sceneRenderer
}

func newRouter(r *sceneRenderer, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	h := &frameHandler{r: r}
	router.GET("/healthz", h.Healthz)
	router.GET("/frame.png", h.Frame)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return router
}

func (h *frameHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": ggmap.Version})
}

// Frame renders the scene for the view in the query. Missing parameters
// fall back to the configured view.
func (h *frameHandler) Frame(c *gin.Context) {
	v, err := parseView(c, h.r.DefaultView())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img := h.r.Render(c.Request.Context(), v)
	if img == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no frame composed"})
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		ggmap.Logger().Error("ggmapd: encode frame", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode frame"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func parseView(c *gin.Context, v view) (view, error) {
	floatParam := func(name string, dst *float64) error {
		s, ok := c.GetQuery(name)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s should be a number", name)
		}
		*dst = f
		return nil
	}
	intParam := func(name string, dst *int, lo, hi int) error {
		s, ok := c.GetQuery(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < lo || n > hi {
			return fmt.Errorf("%s should be an integer in [%d, %d]", name, lo, hi)
		}
		*dst = n
		return nil
	}
	return v, errors.Join(
		floatParam("x", &v.Center[0]),
		floatParam("y", &v.Center[1]),
		floatParam("rotation", &v.Rotation),
		intParam("zoom", &v.Zoom, 0, 22),
		intParam("width", &v.Width, 1, maxFrameSize),
		intParam("height", &v.Height, 1, maxFrameSize),
	)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ggmap.Logger().Info("request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
			"size", c.Writer.Size(),
		)
	}
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, cfg config.HTTP, r *sceneRenderer, gatherer prometheus.Gatherer) error {
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newRouter(r, gatherer),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		ggmap.Logger().Info("ggmapd: listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	ggmap.Logger().Info("ggmapd: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
