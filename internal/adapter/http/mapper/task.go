package mapper

import (
	"time"

	"todotracker/internal/adapter/http/dto"
	"todotracker/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(domain.DateLayout)
		item.DueDate = &value
	}

	return item
}

func ToStatsResponse(stats domain.TaskStats) dto.StatsResponse {
	return dto.StatsResponse{
		Total:        stats.Total,
		Completed:    stats.Completed,
		Pending:      stats.Pending,
		HighPriority: stats.HighPriority,
	}
}

func ToNotificationItems(notifications []domain.Notification) []dto.NotificationItem {
	items := make([]dto.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationItem{ID: n.ID, Message: n.Message})
	}
	return items
}
