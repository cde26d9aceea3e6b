package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/whatif/internal/pipeline"
	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/store"
	"github.com/roach88/whatif/internal/validate"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// Handlers serves the HTTP API.
type Handlers struct {
	svc    *pipeline.Service
	logger *slog.Logger
}

// NewHandlers creates handlers over svc. A nil logger uses slog.Default.
func NewHandlers(svc *pipeline.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, logger: logger}
}

// Router builds the gin engine with every route registered.
func (h *Handlers) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", h.HandleHealth)
	r.POST("/optimize", h.HandleOptimize)
	r.GET("/runs", h.HandleListRuns)
	r.GET("/runs/:id", h.HandleGetRun)
	r.DELETE("/runs/:id", h.HandleDeleteRun)
	r.GET("/runs/:id/what-ifs", h.HandleListWhatIfs)
	r.GET("/statistics", h.HandleStatistics)
	r.POST("/what-if", h.HandleWhatIf)
	r.POST("/what-if/check", h.HandleCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (h *Handlers) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Serve runs the API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h *Handlers) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		h.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// writeError maps an error onto a status code and error body.
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := ErrorResponse{Error: err.Error(), Code: "INTERNAL"}

	var (
		qe      *query.Error
		failure *validate.Failure
	)
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		status, body.Code = http.StatusNotFound, "RUN_NOT_FOUND"
	case errors.As(err, &failure):
		status, body.Code = http.StatusBadRequest, failure.Issues[0].Code
		body.Error = "Invalid query constraints"
		body.Details = validate.Messages(failure.Issues)
	case errors.As(err, &qe):
		status, body.Code = http.StatusBadRequest, string(qe.Code)
	case errors.Is(err, pipeline.ErrRunNotOptimal):
		status, body.Code = http.StatusBadRequest, "RUN_NOT_OPTIMAL"
	case errors.Is(err, pipeline.ErrNoConstraints):
		status, body.Code = http.StatusBadRequest, "NO_CONSTRAINTS"
	case errors.Is(err, pipeline.ErrInvalidRequest):
		status, body.Code = http.StatusBadRequest, "INVALID_REQUEST"
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	} else {
		h.logger.Warn("request rejected", "path", c.FullPath(), "code", body.Code, "error", err)
	}
	c.JSON(status, body)
}
