package aggregate

import "todotracker/internal/core/domain"

// Compute counts tasks by status and priority in one pass. A high-priority
// task counts toward HighPriority whatever its status.
func Compute(tasks []domain.Task) domain.TaskStats {
	stats := domain.TaskStats{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case domain.TaskStatusCompleted:
			stats.Completed++
		case domain.TaskStatusPending:
			stats.Pending++
		}
		if task.Priority == domain.TaskPriorityHigh {
			stats.HighPriority++
		}
	}
	return stats
}
