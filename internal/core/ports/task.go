package ports

import (
	"context"

	"todotracker/internal/core/domain"
)

// TaskRepository is the durable task store. Every method is scoped by the
// owner id; a task owned by someone else is reported as domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error)
	FindByID(ctx context.Context, ownerID, id string) (domain.Task, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)
	Update(ctx context.Context, ownerID, id string, input domain.UpdateTaskInput) (domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	HealthChecker
}

type TaskService interface {
	CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error)
	GetTask(ctx context.Context, ownerID, id string) (domain.Task, error)
	ListTasks(ctx context.Context, ownerID string, query domain.TaskQuery) ([]domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, id string, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, id string) error
	GetStats(ctx context.Context, ownerID string) (domain.TaskStats, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// IdentityResolver turns a bearer credential into the caller id.
type IdentityResolver interface {
	ResolveCaller(ctx context.Context, token string) (string, error)
}

type NotificationFeed interface {
	ListNotifications(ctx context.Context, ownerID string) ([]domain.Notification, error)
}

// NotificationPublisher appends a notice to a user's feed.
type NotificationPublisher interface {
	Publish(ownerID, message string) domain.Notification
}
