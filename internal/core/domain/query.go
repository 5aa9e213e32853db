package domain

import (
	"strings"
	"time"
)

type TaskView string

const (
	ViewAll        TaskView = "all"
	ViewToday      TaskView = "today"
	ViewUpcoming   TaskView = "upcoming"
	ViewImportant  TaskView = "important"
	ViewCompleted  TaskView = "completed"
	ViewByDate     TaskView = "date"
	ViewByPriority TaskView = "priority"
)

// TaskQuery selects a view over the caller's tasks. Date is only read for
// ViewByDate and Priority only for ViewByPriority.
type TaskQuery struct {
	View     TaskView
	Date     time.Time
	Priority TaskPriority
}

func ParseView(value string) (TaskView, error) {
	view := TaskView(strings.ToLower(strings.TrimSpace(value)))
	switch view {
	case "":
		return ViewAll, nil
	case ViewAll, ViewToday, ViewUpcoming, ViewImportant, ViewCompleted, ViewByDate, ViewByPriority:
		return view, nil
	}
	return "", NewValidationError("view", "unknown view")
}

func (q *TaskQuery) Validate() error {
	if q.View == "" {
		q.View = ViewAll
	}
	switch q.View {
	case ViewAll, ViewToday, ViewUpcoming, ViewImportant, ViewCompleted:
	case ViewByDate:
		if q.Date.IsZero() {
			return NewValidationError("date", "is required")
		}
		q.Date = CalendarDate(q.Date)
	case ViewByPriority:
		if !q.Priority.Valid() {
			return NewValidationError("priority", "must be one of low, medium, high")
		}
	default:
		return NewValidationError("view", "unknown view")
	}
	return nil
}

type TaskStats struct {
	Total        int
	Completed    int
	Pending      int
	HighPriority int
}

type Notification struct {
	ID      string
	Message string
}
