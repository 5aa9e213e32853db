package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
)

// NotificationFeed is a per-user, append-only list of notices.
type NotificationFeed struct {
	mu    sync.RWMutex
	items map[string][]domain.Notification
}

var (
	_ ports.NotificationFeed      = (*NotificationFeed)(nil)
	_ ports.NotificationPublisher = (*NotificationFeed)(nil)
)

func NewNotificationFeed() *NotificationFeed {
	return &NotificationFeed{items: make(map[string][]domain.Notification)}
}

func (f *NotificationFeed) Publish(ownerID, message string) domain.Notification {
	n := domain.Notification{ID: uuid.NewString(), Message: message}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[ownerID] = append(f.items[ownerID], n)
	return n
}

func (f *NotificationFeed) ListNotifications(_ context.Context, ownerID string) ([]domain.Notification, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.Notification, len(f.items[ownerID]))
	copy(out, f.items[ownerID])
	return out, nil
}
