package authz

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/testutil"
)

func TestEffective(t *testing.T) {
	board := &models.Board{ID: 1, OwnerID: 10}

	cases := []struct {
		name   string
		userID uint64
		member *models.BoardMember
		want   Role
	}{
		{"board owner without membership", 10, nil, RoleOwner},
		{"board owner with viewer membership", 10, &models.BoardMember{UserID: 10, Role: models.RoleViewer}, RoleOwner},
		{"owner membership", 11, &models.BoardMember{UserID: 11, Role: models.RoleOwner}, RoleOwner},
		{"editor membership", 11, &models.BoardMember{UserID: 11, Role: models.RoleEditor}, RoleEditor},
		{"viewer membership", 11, &models.BoardMember{UserID: 11, Role: models.RoleViewer}, RoleViewer},
		{"no membership", 11, nil, RoleNone},
		{"membership of someone else", 11, &models.BoardMember{UserID: 12, Role: models.RoleOwner}, RoleNone},
		{"unknown role", 11, &models.BoardMember{UserID: 11, Role: "admin"}, RoleNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Effective(board, tc.userID, tc.member))
		})
	}
}

func TestAllows(t *testing.T) {
	cases := []struct {
		role               Role
		read, write, admin bool
	}{
		{RoleNone, false, false, false},
		{RoleViewer, true, false, false},
		{RoleEditor, true, true, false},
		{RoleOwner, true, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.role.String(), func(t *testing.T) {
			assert.Equal(t, tc.read, tc.role.Allows(ActionRead))
			assert.Equal(t, tc.write, tc.role.Allows(ActionWrite))
			assert.Equal(t, tc.admin, tc.role.Allows(ActionAdmin))
		})
	}
}

func TestActionForMethod(t *testing.T) {
	assert.Equal(t, ActionRead, ActionForMethod(http.MethodGet))
	assert.Equal(t, ActionRead, ActionForMethod(http.MethodHead))
	assert.Equal(t, ActionRead, ActionForMethod(http.MethodOptions))
	assert.Equal(t, ActionWrite, ActionForMethod(http.MethodPost))
	assert.Equal(t, ActionWrite, ActionForMethod(http.MethodPatch))
	assert.Equal(t, ActionWrite, ActionForMethod(http.MethodDelete))
}

type authorityFixture struct {
	authority *Authority
	owner     *models.User
	editor    *models.User
	viewer    *models.User
	stranger  *models.User
	board     *models.Board
	column    *models.Column
	task      *models.Task
}

func setupAuthorityTest(t *testing.T) authorityFixture {
	t.Helper()
	db := testutil.NewDB(t)

	f := authorityFixture{
		authority: NewAuthority(repository.NewStore(db)),
		owner:     testutil.CreateUser(t, db, "owner"),
		editor:    testutil.CreateUser(t, db, "editor"),
		viewer:    testutil.CreateUser(t, db, "viewer"),
		stranger:  testutil.CreateUser(t, db, "stranger"),
	}
	f.board = testutil.CreateBoard(t, db, f.owner, "Board")
	testutil.AddMember(t, db, f.board, f.editor, models.RoleEditor)
	testutil.AddMember(t, db, f.board, f.viewer, models.RoleViewer)
	f.column = testutil.CreateColumn(t, db, f.board, "Todo", 10)
	f.task = testutil.CreateTask(t, db, f.column, "Task", 10)
	return f
}

func TestAuthority_ForBoard(t *testing.T) {
	f := setupAuthorityTest(t)
	ctx := context.Background()

	access, err := f.authority.ForBoard(ctx, f.viewer.ID, f.board.ID, ActionRead)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, access.Role)
	assert.Equal(t, f.board.ID, access.Board.ID)

	_, err = f.authority.ForBoard(ctx, f.viewer.ID, f.board.ID, ActionWrite)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.authority.ForBoard(ctx, f.editor.ID, f.board.ID, ActionAdmin)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	access, err = f.authority.ForBoard(ctx, f.owner.ID, f.board.ID, ActionAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, access.Role)

	_, err = f.authority.ForBoard(ctx, f.stranger.ID, f.board.ID, ActionRead)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.authority.ForBoard(ctx, f.owner.ID, 9999, ActionRead)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthority_NestedResourcesResolveThroughBoard(t *testing.T) {
	f := setupAuthorityTest(t)
	ctx := context.Background()

	access, err := f.authority.ForColumn(ctx, f.editor.ID, f.column.ID, ActionWrite)
	require.NoError(t, err)
	assert.Equal(t, f.board.ID, access.Board.ID)
	assert.Equal(t, f.column.ID, access.Column.ID)

	_, err = f.authority.ForColumn(ctx, f.viewer.ID, f.column.ID, ActionWrite)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	access, err = f.authority.ForTask(ctx, f.viewer.ID, f.task.ID, ActionRead)
	require.NoError(t, err)
	assert.Equal(t, f.task.ID, access.Task.ID)
	assert.Equal(t, f.column.ID, access.Column.ID)
	assert.Equal(t, f.board.ID, access.Board.ID)

	_, err = f.authority.ForTask(ctx, f.viewer.ID, f.task.ID, ActionWrite)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.authority.ForTask(ctx, f.stranger.ID, f.task.ID, ActionRead)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.authority.ForTask(ctx, f.owner.ID, 9999, ActionRead)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthority_RoleOfIsNeverCached(t *testing.T) {
	f := setupAuthorityTest(t)
	ctx := context.Background()

	role, err := f.authority.RoleOf(ctx, f.viewer.ID, f.board)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, role)

	store := repository.NewStore(f.authority.store.DB())
	member, err := store.Members.FindByUser(f.board.ID, f.viewer.ID)
	require.NoError(t, err)
	require.NoError(t, store.Members.UpdateRole(member, models.RoleEditor))

	role, err = f.authority.RoleOf(ctx, f.viewer.ID, f.board)
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, role)
}
