// Package devserver is a local chat backend speaking the same HTTP API as
// the hosted service. It backs `parley serve` and the end-to-end tests.
package devserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
)

// Defaults for Options.
const (
	DefaultTokenTTL = 30 * time.Minute
	DefaultSecret   = "parley-dev-secret"
	historyLimit    = 10
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Secret     string        // HMAC key for access tokens
	TokenTTL   time.Duration // access token lifetime
	Responder  Responder     // produces assistant replies; PersonaResponder when nil
	BcryptCost int           // password hashing cost; bcrypt.DefaultCost when zero
}

// Server serves the chat API over a Store.
type Server struct {
	store     *Store
	tokens    *tokenIssuer
	responder Responder
	cost      int
	echo      *echo.Echo
	log       *slog.Logger
}

// New creates a server. The store stays owned by the caller.
func New(store *Store, opts Options) *Server {
	log := logger.WithComponent("devserver")

	if opts.Secret == "" {
		log.Warn("no token secret configured, using the development default")
		opts.Secret = DefaultSecret
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.Responder == nil {
		opts.Responder = PersonaResponder{}
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	s := &Server{
		store:     store,
		tokens:    &tokenIssuer{secret: []byte(opts.Secret), ttl: opts.TokenTTL, now: time.Now},
		responder: opts.Responder,
		cost:      opts.BcryptCost,
		echo:      echo.New(),
		log:       log,
	}
	s.echo.HTTPErrorHandler = s.handleError
	s.echo.Use(s.logRequests)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	a := s.echo.Group("/auth")
	a.POST("/signup", s.signup)
	a.POST("/login", s.login)
	a.GET("/me", s.me, s.requireAuth)

	c := s.echo.Group("/chat", s.requireAuth)
	c.GET("/all", s.listChats)
	c.POST("/new", s.createChat)
	c.POST("/send", s.sendMessage)
	c.GET("/:id", s.getChat)
	c.DELETE("/:id", s.deleteChat)
}

// Handler returns the HTTP handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.E(errors.Op("devserver.ListenAndServe"), errors.KindNetwork, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// =============================================================================
// Errors and logging
// =============================================================================

type detailResponse struct {
	Detail string `json:"detail"`
}

// detail writes the backend's error shape: {"detail": "..."}.
func detail(c *echo.Context, status int, msg string) error {
	return c.JSON(status, detailResponse{Detail: msg})
}

func (s *Server) internalError(c *echo.Context, err error) error {
	s.log.Error("request failed", "path", c.Request().URL.Path, "error", err)
	return detail(c, http.StatusInternalServerError, "Internal server error")
}

// handleError renders router errors (unknown routes, bad methods) in the
// same shape as handler errors.
func (s *Server) handleError(c *echo.Context, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	var sc interface{ StatusCode() int }
	switch {
	case errors.As(err, &he):
		status = he.Code
		msg = http.StatusText(he.Code)
	case errors.As(err, &sc):
		status = sc.StatusCode()
		msg = http.StatusText(status)
	default:
		s.log.Error("unhandled error", "path", c.Request().URL.Path, "error", err)
	}
	if werr := detail(c, status, msg); werr != nil {
		s.log.Warn("failed to write error response", "error", werr)
	}
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		err := next(c)
		s.log.Debug(fmt.Sprintf("%s %s", c.Request().Method, c.Request().URL.Path),
			"duration", time.Since(start), "error", err)
		return err
	}
}
