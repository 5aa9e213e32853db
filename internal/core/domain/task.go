package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 65535
)

// Task is a single to-do item. OwnerID, ID and CreatedAt are write-once.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Priority    TaskPriority
	Status      TaskStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    TaskPriority
	// Status is checked against the enumeration but never stored:
	// new tasks always start pending.
	Status  TaskStatus
	DueDate *time.Time
}

// Validate normalises the input in place and reports the first invalid field.
func (in *CreateTaskInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if len(in.Description) > MaxDescriptionLength {
		return NewValidationError("description", "too long")
	}
	if in.Priority == "" {
		in.Priority = TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		return NewValidationError("priority", "must be one of low, medium, high")
	}
	if in.Status != "" && !in.Status.Valid() {
		return NewValidationError("status", "must be one of pending, completed")
	}
	if in.DueDate != nil {
		d := CalendarDate(*in.DueDate)
		in.DueDate = &d
	}
	return nil
}

// NewTask builds the record a store persists for a validated input.
func NewTask(ownerID, id string, now time.Time, in CreateTaskInput) Task {
	now = now.UTC()
	return Task{
		ID:          id,
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      TaskStatusPending,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateTaskInput is the whitelist of mutable fields. A nil pointer leaves
// the stored value untouched; DueDateSet with a nil DueDate clears the date.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *TaskPriority
	Status      *TaskStatus
	DueDate     *time.Time
	DueDateSet  bool
}

func (in UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil &&
		in.Description == nil &&
		in.Priority == nil &&
		in.Status == nil &&
		!in.DueDateSet
}

func (in *UpdateTaskInput) Validate() error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
		in.Title = &title
	}
	if in.Description != nil && len(*in.Description) > MaxDescriptionLength {
		return NewValidationError("description", "too long")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return NewValidationError("priority", "must be one of low, medium, high")
	}
	if in.Status != nil && !in.Status.Valid() {
		return NewValidationError("status", "must be one of pending, completed")
	}
	if in.DueDate != nil {
		d := CalendarDate(*in.DueDate)
		in.DueDate = &d
		in.DueDateSet = true
	}
	return nil
}

// Apply merges the input into t. The input must have been validated.
func (in UpdateTaskInput) Apply(t Task, now time.Time) Task {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.DueDateSet {
		t.DueDate = nil
		if in.DueDate != nil {
			d := *in.DueDate
			t.DueDate = &d
		}
	}
	t.UpdatedAt = now.UTC()
	return t
}

func validateTitle(title string) error {
	if title == "" {
		return NewValidationError("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewValidationError("title", "too long")
	}
	return nil
}
