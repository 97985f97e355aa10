package router

import (
	"net/http"

	"github.com/ankit723/Dream-Definers/internal/api/handler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "mailer-service",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "mailer-service",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	queueHandler := handler.NewQueueHandler(deps)
	formsHandler := handler.NewFormsHandler(deps)
	newsletterHandler := handler.NewNewsletterHandler(deps)

	// Scheduled trigger; POST is an alias for manual invocation
	r.GET("/cron/process-email-queue", queueHandler.Process)
	r.POST("/cron/process-email-queue", queueHandler.Process)

	// Operator surface
	admin := r.Group("/admin")
	{
		admin.GET("/email-queue", queueHandler.List)
		admin.GET("/email-queue/due", queueHandler.Due)
		admin.GET("/email-queue/:id", queueHandler.Get)
		admin.POST("/email-queue/:id/retry", queueHandler.Retry)
		admin.POST("/blogs/notify", newsletterHandler.Notify)
	}

	// Public producers
	v1 := r.Group("/api/v1")
	{
		v1.POST("/contact", formsHandler.Contact)
		v1.POST("/consultancy", formsHandler.Consultancy)
		v1.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
		v1.POST("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)
	}

	return r
}
