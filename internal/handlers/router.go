// internal/handlers/router.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"taskkeeper/internal/config"
	"taskkeeper/internal/middleware"
	"taskkeeper/internal/service"
	"taskkeeper/internal/session"
)

// NewRouter wires the REST API. Credential endpoints are rate limited per
// client IP; everything under /api/tasks requires a live session.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authService *service.AuthService,
	taskService *service.TaskService,
	sessions session.Store,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RecoveryWithLog(logger),
		middleware.RequestLogger(logger),
	)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := NewAuthHandler(authService, logger, cfg.IsProduction())
	taskHandler := NewTaskHandler(taskService, logger)

	loginLimiter := middleware.RateLimiter(rate.Every(time.Second), 10)
	requireSession := middleware.RequireSession(sessions)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", loginLimiter, authHandler.Register)
	auth.POST("/login", loginLimiter, authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", requireSession, authHandler.Me)

	tasks := api.Group("/tasks", requireSession)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

// writeError maps a service error to its status code and JSON body. Anything
// that is not a classified service error is an internal failure.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	if se, ok := service.AsError(err); ok {
		if se.Kind == service.KindInternal {
			logger.Error("internal error", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(se.HTTPStatus(), gin.H{"error": se.Message})
		return
	}
	logger.Error("unclassified error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
