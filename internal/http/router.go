package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/taskhub/api/internal/auth"
	"github.com/taskhub/api/internal/config"
	"github.com/taskhub/api/internal/http/handlers"
	"github.com/taskhub/api/internal/http/middlewares"
	"github.com/taskhub/api/internal/observability"
	"github.com/taskhub/api/internal/tasks"
)

const Version = "1.0.0"

// availableRoutes is echoed on unknown paths so clients can self-correct.
var availableRoutes = []string{
	"GET /health",
	"POST /api/auth/register",
	"POST /api/auth/login",
	"POST /api/auth/refresh",
	"GET /api/tasks",
	"POST /api/tasks",
	"GET /api/tasks/:id",
	"PUT /api/tasks/:id",
	"DELETE /api/tasks/:id",
	"GET /api/stats",
	"GET /api/users/profile",
	"PUT /api/users/profile",
}

func NewRouter(log *slog.Logger, cfg config.Config, authSvc *auth.Service, taskSvc *tasks.Service) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// each router carries its own metrics registry so parallel test
	// routers never collide on registration
	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// middleware
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("taskhub-api"))
	r.Use(prom.GinHandleMiddleware())

	general := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	r.Use(general.Middleware(middlewares.KeyByUserOrIP))

	// stricter window for credential guessing
	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.RateWindow)
	authGate := middlewares.NewAuthMiddleware(authSvc)

	// wire up handlers
	healthHandler := handlers.NewHealthHandler(Version)
	authHandler := handlers.NewAuthHandler(authSvc, log, prom)
	tasksHandler := handlers.NewTasksHandler(taskSvc, log, prom)
	usersHandler := handlers.NewUsersHandler(authSvc, log)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Register)
	authRoutes.POST("/login", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
	authRoutes.POST("/refresh", authGate.RequireAuth(), authHandler.Refresh)

	protected := api.Group("")
	protected.Use(authGate.RequireAuth())

	protected.GET("/tasks", tasksHandler.ListTasks)
	protected.POST("/tasks", tasksHandler.CreateTask)
	protected.GET("/tasks/:id", tasksHandler.GetTask)
	protected.PUT("/tasks/:id", tasksHandler.UpdateTask)
	protected.DELETE("/tasks/:id", tasksHandler.DeleteTask)
	protected.GET("/stats", tasksHandler.Stats)
	protected.GET("/users/profile", usersHandler.GetProfile)
	protected.PUT("/users/profile", usersHandler.UpdateProfile)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success":         false,
			"message":         "Route " + ctx.Request.URL.Path + " not found",
			"availableRoutes": availableRoutes,
		})
	})

	return r
}
