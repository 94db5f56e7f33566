// Package rest exposes the account services over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/bulkassi/webProg2/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures the HTTP transport.
type Options struct {
	Address          string
	CORSAllowOrigins []string
	ShutdownTimeout  time.Duration
}

type HTTPServer struct {
	opts   Options
	auth   *services.AuthService
	users  *services.UserService
	tokens TokenVerifier
	logger logging.Logger
	engine *gin.Engine
}

func NewHTTPServer(opts Options, l logging.Logger, as *services.AuthService, us *services.UserService, tokens TokenVerifier) *HTTPServer {
	s := &HTTPServer{
		opts:   opts,
		auth:   as,
		users:  us,
		tokens: tokens,
		logger: l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the gin engine with every route and middleware attached.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(s.logger), recovery(s.logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  s.opts.CORSAllowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Message: "Not found"})
	})

	r.GET("/health", s.health)

	a := r.Group("/auth")
	a.POST("/sign-up", s.signUp)
	a.POST("/sign-in", s.signIn)

	adminOnly := RequireRoles(s.tokens, s.logger, models.RoleAdmin)
	staff := RequireRoles(s.tokens, s.logger, models.RoleAdmin, models.RoleModerator)

	u := r.Group("/users")
	u.GET("", staff, s.listUsers)
	u.POST("", adminOnly, s.createUser)
	u.PUT("", adminOnly, s.updateUser)
	u.DELETE("", adminOnly, s.deleteUser)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to ShutdownTimeout to finish.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
