package http

import (
	"log/slog"

	"github.com/geocoder89/worklog/internal/config"
	"github.com/geocoder89/worklog/internal/http/handlers"
	"github.com/geocoder89/worklog/internal/http/middlewares"
	"github.com/geocoder89/worklog/internal/observability"
	"github.com/geocoder89/worklog/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "worklog-api"

// Deps is everything the router wires into handlers. Prom and Ready are
// optional.
type Deps struct {
	Config    config.Config
	Users     handlers.UserStore
	Workouts  handlers.WorkoutsStore
	Templates handlers.TemplatesStore
	Tokens    interface {
		handlers.TokenIssuer
		middlewares.TokenVerifier
	}
	Hasher  handlers.PasswordHasher
	Limiter ratelimit.Limiter
	Prom    *observability.Prom
	Ready   map[string]handlers.Pinger
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	cfg := deps.Config

	if cfg.Env != "dev" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("invalid TRUSTED_PROXIES, trusting none", "err", err)
		_ = r.SetTrustedProxies(nil)
	}

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	r.NoMethod(handlers.RespondMethodNotAllowed)
	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Not found")
	})

	// health
	h := handlers.NewHealthHandler(deps.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if deps.Prom != nil {
		r.GET("/metrics", gin.WrapH(deps.Prom.Handler()))
	}

	// auth
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewMemory(cfg.AuthRateLimit, cfg.AuthRateWindow())
	}
	rl := middlewares.NewRateLimiter(limiter)
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Hasher, deps.Tokens)
	if deps.Prom != nil {
		rl.WithMetrics(deps.Prom)
		authHandler.WithMetrics(deps.Prom)
	}

	perIP := rl.RateLimiterMiddleware(middlewares.KeyByIP)
	r.POST("/register", perIP, authHandler.Register)
	r.POST("/login", perIP, authHandler.Login)

	// everything below requires a bearer token
	authMW := middlewares.NewAuthMiddleware(deps.Tokens)
	if deps.Prom != nil {
		authMW.WithMetrics(deps.Prom)
	}
	protected := r.Group("/", authMW.RequireAuth())

	workouts := handlers.NewWorkoutsHandler(deps.Workouts)
	protected.GET("/workouts", workouts.ListWorkouts)
	protected.POST("/workouts", workouts.CreateWorkout)
	protected.GET("/workouts/:id", workouts.GetWorkoutByID)
	protected.PUT("/workouts/:id", workouts.UpdateWorkout)
	protected.DELETE("/workouts/:id", workouts.DeleteWorkout)
	protected.PUT("/workouts/:id/exercises", workouts.ReplaceExercises)

	templates := handlers.NewTemplatesHandler(deps.Templates)
	protected.GET("/templates", templates.ListTemplates)
	protected.POST("/templates", templates.CreateTemplate)
	protected.GET("/templates/:id", templates.GetTemplateByID)
	protected.PUT("/templates/:id", templates.UpdateTemplate)
	protected.DELETE("/templates/:id", templates.DeleteTemplate)

	return r
}
