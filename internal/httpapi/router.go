package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thurmanmarka/solarnoaa"
	"github.com/thurmanmarka/solarnoaa/internal/config"
)

const requestIDHeader = "X-Request-ID"

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg config.Config, logger *slog.Logger) *gin.Engine {
	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(logger), metricsMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(solarnoaa.Coordinates{Lat: cfg.SiteLat, Lon: cfg.SiteLon, TZ: cfg.SiteTZ})

	v1 := router.Group("/v1")
	sun := v1.Group("/sun")
	sun.GET("/position", handler.GetPosition)
	sun.GET("/times", handler.GetTimes)
	sun.GET("/series", handler.GetSeries)
	sun.GET("/report", handler.GetReport)

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metricsHandler()))

	return router
}

// requestID tags every request with an ID, reusing one supplied by the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}
