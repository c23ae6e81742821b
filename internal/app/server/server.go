package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/linkdash/internal/app/service"
	"github.com/sifan077/linkdash/internal/http/handler"
	"github.com/sifan077/linkdash/internal/http/middleware"
	"github.com/sifan077/linkdash/internal/http/util"
	"github.com/sifan077/linkdash/internal/infra/postgres"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Dependencies bundles infrastructure dependencies required by the HTTP server.
type Dependencies struct {
	Logger    *zap.Logger
	Postgres  *pgxpool.Pool
	Redis     *redis.Client
	NATS      *nats.Conn
	Dashboard service.DashboardService
	Clipboard handler.ClipboardReader
	Toasts    handler.ToastDrainer
	Sessions  *util.SessionSigner

	AllowedOrigin string
	SecureCookies bool
	RateLimit     int
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "linkdash",
		DisableStartupMessage: true,
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS(s.deps.AllowedOrigin))
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.health)

	var gate fiber.Handler
	if s.deps.Redis != nil {
		cfg := middleware.DefaultRateLimitConfig()
		if s.deps.RateLimit > 0 {
			cfg.MaxRequests = s.deps.RateLimit
		}
		gate = middleware.RateLimit(s.deps.Redis, cfg, s.deps.Logger)
	}

	dashboard := handler.NewDashboardHandler(handler.DashboardDeps{
		Logger:     s.deps.Logger.Named("dashboard"),
		Dashboard:  s.deps.Dashboard,
		Clipboard:  s.deps.Clipboard,
		Toasts:     s.deps.Toasts,
		ActionGate: gate,
	})

	sessions := s.app.Group("", middleware.Session(s.deps.Sessions, s.deps.SecureCookies, s.deps.Logger))
	dashboard.Register(sessions)
}

// health reports whether each configured backend answers.
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	checks := fiber.Map{}
	healthy := true

	if s.deps.Postgres != nil {
		if err := postgres.Ping(ctx, s.deps.Postgres); err != nil {
			s.deps.Logger.Warn("postgres health check failed", zap.Error(err))
			checks["postgres"] = "down"
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	}
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Ping(ctx).Err(); err != nil {
			s.deps.Logger.Warn("redis health check failed", zap.Error(err))
			checks["redis"] = "down"
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}
	if s.deps.NATS != nil {
		if s.deps.NATS.IsConnected() {
			checks["nats"] = "ok"
		} else {
			checks["nats"] = "down"
			healthy = false
		}
	}

	status := fiber.StatusOK
	state := "ok"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"checks": checks,
	})
}
