package handlers

import (
	"fmt"
	"net/http"
	"time"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/logger"
	"task_tracker/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options are the HTTP-layer settings taken from configuration.
type Options struct {
	Title          string
	Version        string
	AllowedOrigins []string
	// FeedInterval is the default period of the task feed; zero means 1s.
	FeedInterval time.Duration
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(h.requestID, h.requestLogger, gin.CustomRecovery(h.recoverPanic))
	if mw := h.corsMiddleware(); mw != nil {
		router.Use(mw)
	}

	router.NoRoute(h.httpException(http.StatusNotFound))
	router.NoMethod(h.httpException(http.StatusMethodNotAllowed))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		api.GET("/status", h.status)
		h.registerUserRoutes(api)
		h.registerTaskRoutes(api)
	}

	return router
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	user := api.Group("/user")
	{
		user.GET("", h.currentUser, h.getUser)
		user.POST("", h.registerUser)
		user.POST("/login", h.loginUser)
	}
}

func (h *Handler) registerTaskRoutes(api *gin.RouterGroup) {
	tasks := api.Group("/tasks", h.currentUser)
	{
		tasks.GET("", h.listTasks)
		tasks.POST("", h.currentActiveUser, h.createTask)
		tasks.DELETE("", h.currentActiveUser, h.deleteTasks)
		tasks.GET("/ws", h.wsTasks)

		task := tasks.Group("/:id", h.currentTask)
		{
			task.GET("", h.getTask)
			task.PUT("", h.updateTask)
			task.DELETE("", h.deleteTask)
		}
	}
}

// corsMiddleware returns nil when no origins are configured.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	if len(h.opts.AllowedOrigins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range h.opts.AllowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = h.opts.AllowedOrigins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}

func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	h.abort(c, apperrors.Wrap(apperrors.CodeInternal, "Internal Server Error", fmt.Errorf("panic: %v", recovered)))
}

// httpException answers unmatched routes in the error envelope.
func (h *Handler) httpException(status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(status, errorResponse{
			Success: false,
			Status:  status,
			Type:    "HTTPException",
			Message: http.StatusText(status),
		})
	}
}
