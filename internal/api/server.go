package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/matching"
)

const (
	MatchPath  = "/api/talent-matching"
	HealthPath = "/health"

	shutdownTimeout = 10 * time.Second
)

// Matcher answers talent matching requests.
type Matcher interface {
	Match(ctx context.Context, req matching.Request) (*matching.Result, error)
}

type Server struct {
	matcher Matcher
	logger  *zap.Logger
	router  *gin.Engine
}

var registerFieldNames sync.Once

func NewServer(matcher Matcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	registerFieldNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(matching.FieldName)
		}
	})

	s := &Server{matcher: matcher, logger: logger}

	router := gin.New()
	router.Use(requestLogger(logger), recovery(logger))
	router.POST(MatchPath, s.match)
	router.GET(HealthPath, s.health)
	s.router = router

	return s
}

// Router exposes the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("listen", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
