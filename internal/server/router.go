package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter assembles the gin engine. CORS is deliberately permissive:
// the front end is served from a separate origin and the preflight must
// pass for any caller, mirroring the rest of the product's functions.
func NewRouter(h *NavigateHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Requested-With", "apikey", "x-client-info"},
	}))

	router.GET("/healthcheck", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/navigate", h.Navigate)
		api.GET("/usage", h.Usage)
	}

	return router
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
