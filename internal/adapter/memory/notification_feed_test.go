package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"todotracker/internal/adapter/memory"
)

func TestNotificationFeed_ScopedByOwner(t *testing.T) {
	feed := memory.NewNotificationFeed()
	first := feed.Publish("u1", "Welcome back")
	feed.Publish("u2", "Not for u1")

	got, err := feed.ListNotifications(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, first, got[0])
	require.NotEmpty(t, got[0].ID)

	empty, err := feed.ListNotifications(context.Background(), "u3")
	require.NoError(t, err)
	require.Empty(t, empty)
}
