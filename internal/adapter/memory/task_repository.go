package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
)

// TaskRepository keeps tasks in process memory. It returns copies, so
// callers never share state with the store.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	now   func() time.Time
	newID func() string
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

type Option func(*TaskRepository)

func WithClock(now func() time.Time) Option {
	return func(r *TaskRepository) { r.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(r *TaskRepository) { r.newID = newID }
}

func NewTaskRepository(opts ...Option) *TaskRepository {
	r := &TaskRepository{
		tasks: make(map[string]domain.Task),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TaskRepository) Create(_ context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task := domain.NewTask(ownerID, r.newID(), r.now(), input)
	r.tasks[task.ID] = task
	return copyTask(task), nil
}

func (r *TaskRepository) FindByID(_ context.Context, ownerID, id string) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, found := r.tasks[id]
	if !found || task.OwnerID != ownerID {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return copyTask(task), nil
}

func (r *TaskRepository) FindAllByOwner(_ context.Context, ownerID string) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Task, 0)
	for _, task := range r.tasks {
		if task.OwnerID == ownerID {
			result = append(result, copyTask(task))
		}
	}
	return result, nil
}

func (r *TaskRepository) Update(_ context.Context, ownerID, id string, input domain.UpdateTaskInput) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, found := r.tasks[id]
	if !found || task.OwnerID != ownerID {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	task = input.Apply(task, r.now())
	r.tasks[id] = task
	return copyTask(task), nil
}

func (r *TaskRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, found := r.tasks[id]
	if !found || task.OwnerID != ownerID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) Ping(context.Context) error {
	return nil
}

func copyTask(task domain.Task) domain.Task {
	if task.DueDate != nil {
		due := *task.DueDate
		task.DueDate = &due
	}
	return task
}
