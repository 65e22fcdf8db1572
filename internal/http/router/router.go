package router

import (
	"context"
	"net/http"
	"time"

	apphttp "rental_portal_backend/internal/http"
	"rental_portal_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	apiRateLimit      = rate.Limit(20)
	apiRateBurst      = 40
	healthPingTimeout = 2 * time.Second
)

// New builds the Gin engine: global middleware, health endpoints and every
// module's routes under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", func(c *gin.Context) {
		if app.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := app.Health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := httpkit.NewIPRateLimiter(apiRateLimit, apiRateBurst, app.Logger)
	v1 := engine.Group("/api/v1", limiter.RateLimit())

	auth := httpkit.AuthRequired(app.Config)
	rc := &apphttp.RouterContext{
		Engine:         engine,
		V1:             v1,
		Protected:      v1.Group("", auth),
		Config:         app.Config,
		AuthMiddleware: auth,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(rc)
		if app.Logger != nil {
			app.Logger.Info("module registered", "module", module.Name())
		}
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	switch {
	case cfg.GetCORSAllowAll():
		conf.AllowAllOrigins = true
	case len(cfg.GetCORSOrigins()) == 0:
		conf.AllowOriginFunc = func(string) bool { return false }
	default:
		conf.AllowOrigins = cfg.GetCORSOrigins()
	}
	return conf
}
