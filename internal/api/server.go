package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"colstats/internal"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server hosts the statistics API
type Server struct {
	router *gin.Engine
	logger *internal.Logger
}

// NewServer registers the API routes. ginMode is one of gin's modes.
func NewServer(handler *StatsHandler, ginMode string, logger *internal.Logger) *Server {
	gin.SetMode(ginMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/stats", handler.GetStats)
		api.GET("/schema", handler.GetSchema)
	}

	return &Server{router: router, logger: logger}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[API] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[API] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
