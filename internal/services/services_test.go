package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/authz"
	"github.com/yukikurage/kanban-api/internal/notify"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	store     *repository.Store
	authority *authz.Authority
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	return testEnv{
		db:        db,
		store:     store,
		authority: authz.NewAuthority(store),
	}
}

func (e testEnv) boardAccess(t *testing.T, userID, boardID uint64, action authz.Action) *authz.Access {
	t.Helper()
	access, err := e.authority.ForBoard(context.Background(), userID, boardID, action)
	require.NoError(t, err)
	return access
}

func (e testEnv) columnAccess(t *testing.T, userID, columnID uint64, action authz.Action) *authz.Access {
	t.Helper()
	access, err := e.authority.ForColumn(context.Background(), userID, columnID, action)
	require.NoError(t, err)
	return access
}

func (e testEnv) taskAccess(t *testing.T, userID, taskID uint64, action authz.Action) *authz.Access {
	t.Helper()
	access, err := e.authority.ForTask(context.Background(), userID, taskID, action)
	require.NoError(t, err)
	return access
}

// recordingNotifier keeps every notification it is handed.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

func requireFieldError(t *testing.T, err error, field string, cause error) {
	t.Helper()
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, field, fieldErr.Field)
	require.ErrorIs(t, err, cause)
}
