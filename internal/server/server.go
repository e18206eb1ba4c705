// Package server exposes the course listing over a small JSON API.
//
// Routes:
//
//	GET  /healthz        liveness and configured sources
//	GET  /api/courses    all and filtered records (query: weeks, max-price, from, mode, budget)
//	GET  /api/stats      most common locations and prices
//	POST /api/export     summary for selected record IDs
//	GET  /metrics        Prometheus metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/ugl-courses/internal/aggregate"
	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/export"
	"github.com/pfrederiksen/ugl-courses/internal/filter"
	"github.com/pfrederiksen/ugl-courses/internal/logger"
	"github.com/pfrederiksen/ugl-courses/internal/mailer"
	"github.com/pfrederiksen/ugl-courses/internal/metrics"
	"github.com/pfrederiksen/ugl-courses/internal/stats"
)

// Runner produces a fresh aggregation result.
type Runner interface {
	Run(ctx context.Context) aggregate.Result
	Sources() []string
}

// Options configures a Server.
type Options struct {
	Runner  Runner
	Engine  *filter.Engine
	Metrics *metrics.Metrics
	Sender  mailer.Sender
	From    string
	Subject string
}

// Server serves the API.
type Server struct {
	opts   Options
	router *gin.Engine
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Engine == nil {
		opts.Engine = filter.NewEngine()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{opts: opts, router: router}

	router.GET("/healthz", s.health)
	api := router.Group("/api")
	api.GET("/courses", s.listCourses)
	api.GET("/stats", s.stats)
	api.POST("/export", s.export)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped", nil)
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request", logger.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"sources": s.opts.Runner.Sources(),
	})
}

func (s *Server) listCourses(c *gin.Context) {
	var in filter.Input
	if err := c.ShouldBindQuery(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query", "details": err.Error()})
		return
	}
	criteria, diags := filter.ParseCriteria(in)

	result := s.opts.Runner.Run(c.Request.Context())
	filtered := s.opts.Engine.Apply(result.Records, criteria)
	s.opts.Metrics.SetFilterResults(len(filtered))

	if diags == nil {
		diags = []filter.Diagnostic{}
	}
	c.JSON(http.StatusOK, gin.H{
		"all":         result.Records,
		"filtered":    filtered,
		"criteria":    criteria,
		"failures":    failureList(result.Failures),
		"dropped":     result.Dropped,
		"diagnostics": diags,
		"fetched_at":  result.FetchedAt,
	})
}

func (s *Server) stats(c *gin.Context) {
	result := s.opts.Runner.Run(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"total":     len(result.Records),
		"locations": stats.TopLocations(result.Records, stats.DefaultTop),
		"prices":    stats.TopPrices(result.Records, stats.DefaultTop),
		"failures":  failureList(result.Failures),
	})
}

// ExportRequest selects records by ID for a summary.
type ExportRequest struct {
	Recipient string   `json:"recipient"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	IDs       []string `json:"ids"`
	Send      bool     `json:"send"`
}

func (s *Server) export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result := s.opts.Runner.Run(c.Request.Context())
	selected, missing := selectByID(result.Records, req.IDs)
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown course IDs", "ids": missing})
		return
	}

	summary, err := export.Build(export.Request{
		Recipient: req.Recipient,
		Name:      req.Name,
		Phone:     req.Phone,
		Subject:   s.opts.Subject,
		Selected:  selected,
	})
	if err != nil {
		var verr *export.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export request", "fields": verr.Fields})
			return
		}
		logger.Error("Export failed", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	sent := false
	if req.Send && s.opts.Sender != nil {
		if err := s.opts.Sender.Send(c.Request.Context(), mailer.FromSummary(summary, s.opts.From)); err != nil {
			logger.Error("Sending summary failed", logger.Fields{"request_id": summary.RequestID}, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Sending failed", "request_id": summary.RequestID})
			return
		}
		sent = true
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"sent":    sent,
	})
}

// selectByID returns the records with the given IDs in request order.
func selectByID(records []course.Record, ids []string) ([]course.Record, []string) {
	byID := make(map[string]course.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	selected := make([]course.Record, 0, len(ids))
	var missing []string
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, r)
	}
	return selected, missing
}

func failureList(failures []*aggregate.SourceFailure) []gin.H {
	out := make([]gin.H, 0, len(failures))
	for _, f := range failures {
		out = append(out, gin.H{"source": f.Source, "error": f.Err.Error()})
	}
	return out
}
