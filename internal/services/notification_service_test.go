package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/testutil"
	"github.com/yukikurage/kanban-api/internal/utils"
)

func TestNotificationService(t *testing.T) {
	env := setupTestEnv(t)
	service := NewNotificationService(env.store)
	readAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return readAt }

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	ctx := context.Background()

	older := &models.Notification{UserID: alice.ID, Message: "first", CreatedAt: readAt.Add(-time.Hour)}
	newer := &models.Notification{UserID: alice.ID, Message: "second", CreatedAt: readAt}
	foreign := &models.Notification{UserID: bob.ID, Message: "not yours"}
	for _, n := range []*models.Notification{older, newer, foreign} {
		require.NoError(t, env.db.Create(n).Error)
	}

	notifications, total, err := service.ListNotifications(ctx, alice.ID, utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, notifications, 2)
	assert.Equal(t, "second", notifications[0].Message)

	require.NoError(t, service.MarkRead(ctx, alice.ID, older.ID))
	service.now = func() time.Time { return readAt.Add(time.Hour) }
	require.NoError(t, service.MarkRead(ctx, alice.ID, older.ID))

	stored, err := env.store.Notifications.FindForUser(alice.ID, older.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReadAt)
	assert.True(t, stored.ReadAt.Equal(readAt))

	err = service.MarkRead(ctx, alice.ID, foreign.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
