package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.StateHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/actions", handler.DispatchAction)
		api.GET("/state", handler.GetState)
		api.GET("/stats", handler.GetStats)
		api.GET("/animals", handler.GetAnimals)
		api.GET("/transactions", handler.GetTransactions)
		api.GET("/tasks", handler.GetTasks)
		api.GET("/camps", handler.GetCamps)
		api.GET("/events", handler.GetEvents)
		api.GET("/inventory", handler.GetInventory)
		api.GET("/offline/pending", handler.GetPendingOffline)
		api.POST("/advice", handler.GetAdvice)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
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
