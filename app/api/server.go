package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer builds the gin engine with middleware and routes configured.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	{
		api.POST("/feeds", handler.AddFeed)
		api.GET("/feeds", handler.ListFeeds)
		api.GET("/feeds/:id", handler.GetFeed)

		api.POST("/subscriptions", handler.AddSubscription)
		api.GET("/subscriptions", handler.ListSubscriptions)
		api.GET("/subscriptions/:id", handler.GetSubscription)
		api.DELETE("/subscriptions/:id", handler.DeleteSubscription)

		api.POST("/user-entries/:id/read", handler.MarkAsRead)

		api.POST("/import", handler.ImportOPML)

		api.GET("/users", handler.ListUsers)
		api.POST("/users", handler.CreateUser)

		api.GET("/categories", handler.ListCategories)
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
