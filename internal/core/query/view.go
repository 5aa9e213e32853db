// Package query selects and orders a caller's tasks for a requested view.
package query

import (
	"sort"
	"time"

	"todotracker/internal/core/domain"
)

// Apply returns the tasks matching q, newest first. today is the current
// calendar date in the service's timezone anchor. tasks is not modified.
func Apply(tasks []domain.Task, q domain.TaskQuery, today time.Time) []domain.Task {
	match := predicate(q, domain.CalendarDate(today))

	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if match(task) {
			out = append(out, task)
		}
	}
	Sort(out)
	return out
}

// Sort orders by CreatedAt descending, ties by ID ascending.
func Sort(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func predicate(q domain.TaskQuery, today time.Time) func(domain.Task) bool {
	switch q.View {
	case domain.ViewToday:
		return func(t domain.Task) bool {
			return t.DueDate != nil && domain.CalendarDate(*t.DueDate).Equal(today)
		}
	case domain.ViewUpcoming:
		return func(t domain.Task) bool {
			return t.DueDate != nil && domain.CalendarDate(*t.DueDate).After(today)
		}
	case domain.ViewImportant:
		return func(t domain.Task) bool { return t.Priority == domain.TaskPriorityHigh }
	case domain.ViewCompleted:
		return func(t domain.Task) bool { return t.Status == domain.TaskStatusCompleted }
	case domain.ViewByDate:
		day := domain.CalendarDate(q.Date)
		return func(t domain.Task) bool {
			return t.DueDate != nil && domain.CalendarDate(*t.DueDate).Equal(day)
		}
	case domain.ViewByPriority:
		return func(t domain.Task) bool { return t.Priority == q.Priority }
	default:
		return func(domain.Task) bool { return true }
	}
}
