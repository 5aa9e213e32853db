package http

import (
	"todotracker/internal/adapter/http/handlers"
	"todotracker/internal/adapter/http/middleware"
	"todotracker/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Tasks         *handlers.TaskHandler
	Notifications *handlers.NotificationHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, identity ports.IdentityResolver) {
	r.GET("/metrics", middleware.MetricsHandler())

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
	}

	todos := api.Group("/todos")
	todos.Use(middleware.AuthMiddleware(identity))
	{
		todos.GET("", h.Tasks.ListTasks)
		todos.POST("", h.Tasks.CreateTask)
		todos.GET("/stats", h.Tasks.GetStats)
		todos.GET("/date/:date", h.Tasks.ListTasksByDate)
		todos.GET("/priority/:priority", h.Tasks.ListTasksByPriority)
		todos.GET("/:id", h.Tasks.GetTask)
		todos.PUT("/:id", h.Tasks.UpdateTask)
		todos.PATCH("/:id", h.Tasks.UpdateTask)
		todos.DELETE("/:id", h.Tasks.DeleteTask)
	}

	notifications := api.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(identity))
	{
		notifications.GET("", h.Notifications.ListNotifications)
	}
}
