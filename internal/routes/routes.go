package routes

import (
	"time"

	"materialmanagement/internal/container"
	"materialmanagement/internal/middleware"
	"materialmanagement/internal/rate_limiter"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, c *container.Container) {
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))
	router.Use(rate_limiter.NewRateLimiter(100, time.Minute).Middleware())

	c.MaterialHandler.RegisterRoutes(router)
	c.ProcessingHandler.RegisterRoutes(router)
	c.FlowHandler.RegisterRoutes(router)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
