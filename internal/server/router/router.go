package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/server/handlers"
	"github.com/mamadbah2/weaver/internal/server/middleware"
	"github.com/mamadbah2/weaver/pkg/clients/identity"
)

// Options carries the HTTP settings of the router.
type Options struct {
	BasePath        string
	CORSOrigins     []string
	SuperAdminEmail string
	StoreDriver     string
}

// New wires the Gin engine with required routes and middlewares.
func New(opts Options, mill *handlers.MillHandler, salary *handlers.SalaryHandler, verifier identity.Verifier, metrics *middleware.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", handlers.Health(opts.StoreDriver))
	r.GET("/metrics", metrics.Handler())

	api := r.Group(opts.BasePath, middleware.Authenticate(verifier, logger))
	admin := api.Group("", middleware.RequireAdmin(opts.SuperAdminEmail))

	api.GET("/auth/me", handlers.Me(opts.SuperAdminEmail))

	api.GET("/workers", mill.ListWorkers)
	admin.POST("/workers", mill.CreateWorker)

	admin.POST("/sheds", mill.CreateShed)
	admin.POST("/looms", mill.CreateLoom)
	api.GET("/sheds-looms", mill.ShedHierarchy)

	admin.POST("/production", mill.CreateProduction)
	api.GET("/production/meters", mill.ProductionMeters)
	api.GET("/production/:id", mill.GetProduction)

	api.GET("/salary/calculate", salary.Calculate)

	if logger != nil {
		logger.Info("router initialized", zap.String("base_path", opts.BasePath))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
