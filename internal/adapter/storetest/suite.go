// Package storetest holds the behaviour every ports.TaskRepository must have.
package storetest

import (
	"context"
	"sort"
	"time"

	"github.com/stretchr/testify/suite"

	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
)

// TaskRepositorySuite runs against the repository returned by NewRepository,
// which is called before every test and must return an empty store.
type TaskRepositorySuite struct {
	suite.Suite

	NewRepository func() ports.TaskRepository

	repo ports.TaskRepository
	ctx  context.Context
}

func (s *TaskRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.NewRepository()
}

func (s *TaskRepositorySuite) create(owner, title string, priority domain.TaskPriority, due *time.Time) domain.Task {
	task, err := s.repo.Create(s.ctx, owner, domain.CreateTaskInput{
		Title:    title,
		Priority: priority,
		DueDate:  due,
	})
	s.Require().NoError(err)
	return task
}

func (s *TaskRepositorySuite) TestCreate_AssignsIdentityAndForcesPending() {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	task, err := s.repo.Create(s.ctx, "u1", domain.CreateTaskInput{
		Title:       "Write report",
		Description: "quarterly",
		Priority:    domain.TaskPriorityHigh,
		Status:      domain.TaskStatusCompleted,
		DueDate:     &due,
	})
	s.Require().NoError(err)

	s.NotEmpty(task.ID)
	s.Equal("u1", task.OwnerID)
	s.Equal(domain.TaskStatusPending, task.Status)
	s.False(task.CreatedAt.IsZero())

	got, err := s.repo.FindByID(s.ctx, "u1", task.ID)
	s.Require().NoError(err)
	s.Equal("Write report", got.Title)
	s.Equal("quarterly", got.Description)
	s.Equal(domain.TaskPriorityHigh, got.Priority)
	s.Equal(domain.TaskStatusPending, got.Status)
	s.Require().NotNil(got.DueDate)
	s.True(domain.SameDate(due, *got.DueDate))
}

func (s *TaskRepositorySuite) TestCreate_DefaultsPriority() {
	task := s.create("u1", "t", "", nil)
	s.Equal(domain.TaskPriorityMedium, task.Priority)
	s.Nil(task.DueDate)
}

func (s *TaskRepositorySuite) TestCreate_RejectsInvalidInput() {
	_, err := s.repo.Create(s.ctx, "u1", domain.CreateTaskInput{Title: ""})
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.repo.Create(s.ctx, "u1", domain.CreateTaskInput{Title: "t", Priority: "urgent"})
	s.ErrorIs(err, domain.ErrValidation)

	tasks, err := s.repo.FindAllByOwner(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(tasks)
}

func (s *TaskRepositorySuite) TestFindByID_OtherOwnerIsNotFound() {
	task := s.create("u1", "mine", domain.TaskPriorityLow, nil)

	_, err := s.repo.FindByID(s.ctx, "u2", task.ID)
	s.ErrorIs(err, domain.ErrTaskNotFound)

	_, err = s.repo.FindByID(s.ctx, "u1", "does-not-exist")
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *TaskRepositorySuite) TestFindAllByOwner_ScopesToOwner() {
	a := s.create("u1", "a", domain.TaskPriorityLow, nil)
	b := s.create("u1", "b", domain.TaskPriorityHigh, nil)
	s.create("u2", "c", domain.TaskPriorityHigh, nil)

	tasks, err := s.repo.FindAllByOwner(s.ctx, "u1")
	s.Require().NoError(err)

	got := make([]string, 0, len(tasks))
	for _, task := range tasks {
		got = append(got, task.ID)
	}
	want := []string{a.ID, b.ID}
	sort.Strings(got)
	sort.Strings(want)
	s.Equal(want, got)

	none, err := s.repo.FindAllByOwner(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *TaskRepositorySuite) TestUpdate_PartialRoundTrip() {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	task, err := s.repo.Create(s.ctx, "u1", domain.CreateTaskInput{
		Title:       "t",
		Description: "d",
		Priority:    domain.TaskPriorityLow,
		DueDate:     &due,
	})
	s.Require().NoError(err)

	high := domain.TaskPriorityHigh
	updated, err := s.repo.Update(s.ctx, "u1", task.ID, domain.UpdateTaskInput{Priority: &high})
	s.Require().NoError(err)
	s.Equal(domain.TaskPriorityHigh, updated.Priority)

	got, err := s.repo.FindByID(s.ctx, "u1", task.ID)
	s.Require().NoError(err)
	s.Equal(domain.TaskPriorityHigh, got.Priority)
	s.Equal(task.ID, got.ID)
	s.Equal("u1", got.OwnerID)
	s.Equal("t", got.Title)
	s.Equal("d", got.Description)
	s.Equal(domain.TaskStatusPending, got.Status)
	s.Require().NotNil(got.DueDate)
	s.True(domain.SameDate(due, *got.DueDate))
	s.True(task.CreatedAt.Equal(got.CreatedAt), "createdAt changed: %v -> %v", task.CreatedAt, got.CreatedAt)
}

func (s *TaskRepositorySuite) TestUpdate_ToggleStatusAndClearDueDate() {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	task := s.create("u1", "t", domain.TaskPriorityMedium, &due)

	completed := domain.TaskStatusCompleted
	got, err := s.repo.Update(s.ctx, "u1", task.ID, domain.UpdateTaskInput{Status: &completed, DueDateSet: true})
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusCompleted, got.Status)
	s.Nil(got.DueDate)

	pending := domain.TaskStatusPending
	got, err = s.repo.Update(s.ctx, "u1", task.ID, domain.UpdateTaskInput{Status: &pending})
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusPending, got.Status)
}

func (s *TaskRepositorySuite) TestUpdate_InvalidFieldWritesNothing() {
	task := s.create("u1", "t", domain.TaskPriorityLow, nil)

	title := "renamed"
	bad := domain.TaskPriority("urgent")
	_, err := s.repo.Update(s.ctx, "u1", task.ID, domain.UpdateTaskInput{Title: &title, Priority: &bad})
	s.ErrorIs(err, domain.ErrValidation)

	got, err := s.repo.FindByID(s.ctx, "u1", task.ID)
	s.Require().NoError(err)
	s.Equal("t", got.Title)
	s.Equal(domain.TaskPriorityLow, got.Priority)
}

func (s *TaskRepositorySuite) TestUpdate_OtherOwnerIsNotFound() {
	task := s.create("u1", "t", domain.TaskPriorityLow, nil)

	title := "stolen"
	_, err := s.repo.Update(s.ctx, "u2", task.ID, domain.UpdateTaskInput{Title: &title})
	s.ErrorIs(err, domain.ErrTaskNotFound)

	got, err := s.repo.FindByID(s.ctx, "u1", task.ID)
	s.Require().NoError(err)
	s.Equal("t", got.Title)
}

func (s *TaskRepositorySuite) TestDelete_TwiceIsNotFound() {
	task := s.create("u1", "t", domain.TaskPriorityLow, nil)

	s.ErrorIs(s.repo.Delete(s.ctx, "u2", task.ID), domain.ErrTaskNotFound)
	s.Require().NoError(s.repo.Delete(s.ctx, "u1", task.ID))
	s.ErrorIs(s.repo.Delete(s.ctx, "u1", task.ID), domain.ErrTaskNotFound)

	_, err := s.repo.FindByID(s.ctx, "u1", task.ID)
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *TaskRepositorySuite) TestPing() {
	s.NoError(s.repo.Ping(s.ctx))
}
