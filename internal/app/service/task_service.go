package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"todotracker/internal/core/aggregate"
	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
	"todotracker/internal/core/query"
)

// TaskService runs one task operation per call on behalf of ownerID.
// Input is validated before the repository is touched.
type TaskService struct {
	taskRepository ports.TaskRepository
	now            func() time.Time
	location       *time.Location
	notifier       ports.NotificationPublisher
}

type Option func(*TaskService)

func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithLocation sets the timezone that decides which calendar day is "today".
func WithLocation(loc *time.Location) Option {
	return func(s *TaskService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithNotifier publishes a notice when a task is created or completed.
func WithNotifier(notifier ports.NotificationPublisher) Option {
	return func(s *TaskService) { s.notifier = notifier }
}

func NewTaskService(taskRepository ports.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		taskRepository: taskRepository,
		now:            time.Now,
		location:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	if ownerID == "" {
		return domain.Task{}, domain.ErrUnauthenticated
	}
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	task, err := s.taskRepository.Create(ctx, ownerID, input)
	if err != nil {
		return domain.Task{}, err
	}

	zap.L().Debug("task created", zap.String("owner_id", ownerID), zap.String("task_id", task.ID))
	s.notify(ownerID, fmt.Sprintf("Task %q created", task.Title))
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, id string) (domain.Task, error) {
	if ownerID == "" {
		return domain.Task{}, domain.ErrUnauthenticated
	}
	return s.taskRepository.FindByID(ctx, ownerID, id)
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID string, q domain.TaskQuery) ([]domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepository.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return query.Apply(tasks, q, domain.Today(s.now(), s.location)), nil
}

// UpdateTask applies a partial update. An update without any recognised
// field writes nothing and returns the stored task.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id string, input domain.UpdateTaskInput) (domain.Task, error) {
	if ownerID == "" {
		return domain.Task{}, domain.ErrUnauthenticated
	}
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}
	if input.IsEmpty() {
		return s.taskRepository.FindByID(ctx, ownerID, id)
	}

	task, err := s.taskRepository.Update(ctx, ownerID, id, input)
	if err != nil {
		return domain.Task{}, err
	}

	zap.L().Debug("task updated", zap.String("owner_id", ownerID), zap.String("task_id", id))
	if input.Status != nil && *input.Status == domain.TaskStatusCompleted {
		s.notify(ownerID, fmt.Sprintf("Task %q completed", task.Title))
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.taskRepository.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	zap.L().Debug("task deleted", zap.String("owner_id", ownerID), zap.String("task_id", id))
	return nil
}

// GetStats recomputes the counts from the stored tasks on every call.
func (s *TaskService) GetStats(ctx context.Context, ownerID string) (domain.TaskStats, error) {
	if ownerID == "" {
		return domain.TaskStats{}, domain.ErrUnauthenticated
	}

	tasks, err := s.taskRepository.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return domain.TaskStats{}, err
	}

	return aggregate.Compute(tasks), nil
}

func (s *TaskService) notify(ownerID, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ownerID, message)
}
