package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	board *models.Board
	todo  *models.Column
	done  *models.Column
}

func setupOrderingTest(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	board := testutil.CreateBoard(t, db, owner, "Board")
	return fixture{
		db:    db,
		board: board,
		todo:  testutil.CreateColumn(t, db, board, "Todo", 10),
		done:  testutil.CreateColumn(t, db, board, "Done", 20),
	}
}

func ptr(v uint64) *uint64 {
	return &v
}

func orderedTaskIDs(t *testing.T, db *gorm.DB, columnID uint64) []uint64 {
	t.Helper()
	var ids []uint64
	require.NoError(t, db.Model(&models.Task{}).
		Where("column_id = ?", columnID).
		Order("position ASC").Order("id ASC").
		Pluck("id", &ids).Error)
	return ids
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, 10, Midpoint(0, 20))
	assert.Equal(t, 15, Midpoint(10, 20))
	assert.Equal(t, 30, Midpoint(20, OpenEnd(20)))
	assert.Equal(t, 40, AfterLast(30))

	// Adjacent keys leave no room: the midpoint collides with the lower key.
	assert.Equal(t, 10, Midpoint(10, 11))
	assert.False(t, HasGap(10, 11))
	assert.False(t, HasGap(10, 10))
	assert.True(t, HasGap(10, 12))
}

func TestNext_AppendsWithFixedGap(t *testing.T) {
	f := setupOrderingTest(t)

	first, err := Tasks.Next(f.db, f.todo.ID)
	require.NoError(t, err)
	assert.Equal(t, Gap, first)

	var previous int
	for i := 0; i < 5; i++ {
		position, err := Tasks.Next(f.db, f.todo.ID)
		require.NoError(t, err)
		testutil.CreateTask(t, f.db, f.todo, "task", position)

		if i > 0 {
			assert.Equal(t, previous+Gap, position)
		}
		previous = position
	}
	assert.Equal(t, 50, previous)

	// Columns are sequenced per board.
	next, err := Columns.Next(f.db, f.board.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, next)
}

func TestReorder_AssignsListPositions(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 20)
	c := testutil.CreateTask(t, f.db, f.todo, "c", 30)
	d := testutil.CreateTask(t, f.db, f.todo, "d", 40)

	require.NoError(t, Tasks.Reorder(f.db, f.todo.ID, []uint64{c.ID, a.ID, b.ID}))

	positions := testutil.Positions(t, f.db, "tasks", a.ID, b.ID, c.ID, d.ID)
	assert.Equal(t, 10, positions[c.ID])
	assert.Equal(t, 20, positions[a.ID])
	assert.Equal(t, 30, positions[b.ID])
	assert.Equal(t, 40, positions[d.ID], "unlisted sibling keeps its key")
}

func TestReorder_IgnoresForeignAndRepeatedIDs(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 20)
	other := testutil.CreateTask(t, f.db, f.done, "other", 70)

	require.NoError(t, Tasks.Reorder(f.db, f.todo.ID, []uint64{b.ID, other.ID, b.ID, a.ID, 9999}))

	positions := testutil.Positions(t, f.db, "tasks", a.ID, b.ID, other.ID)
	assert.Equal(t, 10, positions[b.ID])
	assert.Equal(t, 30, positions[a.ID])
	assert.Equal(t, 70, positions[other.ID])

	var moved models.Task
	require.NoError(t, f.db.First(&moved, other.ID).Error)
	assert.Equal(t, f.done.ID, moved.ColumnID)
}

func TestMove_BeforeFirstUsesZeroAsLowerBound(t *testing.T) {
	f := setupOrderingTest(t)
	x := testutil.CreateTask(t, f.db, f.todo, "x", 20)
	testutil.CreateTask(t, f.db, f.todo, "y", 30)
	item := testutil.CreateTask(t, f.db, f.done, "item", 10)

	position, err := Tasks.Move(f.db, item.ID, f.todo.ID, Anchor{BeforeID: ptr(x.ID)})
	require.NoError(t, err)
	assert.Equal(t, 10, position)

	var moved models.Task
	require.NoError(t, f.db.First(&moved, item.ID).Error)
	assert.Equal(t, f.todo.ID, moved.ColumnID)
	assert.Equal(t, 10, moved.Order)
	assert.Equal(t, item.ID, orderedTaskIDs(t, f.db, f.todo.ID)[0])
}

func TestMove_BeforeUsesPriorSibling(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 20)
	c := testutil.CreateTask(t, f.db, f.todo, "c", 30)

	position, err := Tasks.Move(f.db, c.ID, f.todo.ID, Anchor{BeforeID: ptr(b.ID)})
	require.NoError(t, err)
	assert.Equal(t, 15, position)
	assert.Equal(t, []uint64{a.ID, c.ID, b.ID}, orderedTaskIDs(t, f.db, f.todo.ID))
}

func TestMove_AfterLastUsesOpenEnd(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 20)

	position, err := Tasks.Move(f.db, a.ID, f.todo.ID, Anchor{AfterID: ptr(b.ID)})
	require.NoError(t, err)
	assert.Equal(t, 30, position)
	assert.Equal(t, []uint64{b.ID, a.ID}, orderedTaskIDs(t, f.db, f.todo.ID))
}

func TestMove_AfterUsesFollowingSibling(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 40)
	item := testutil.CreateTask(t, f.db, f.done, "item", 10)

	position, err := Tasks.Move(f.db, item.ID, f.todo.ID, Anchor{AfterID: ptr(a.ID)})
	require.NoError(t, err)
	assert.Equal(t, 25, position)
	assert.Equal(t, []uint64{a.ID, item.ID, b.ID}, orderedTaskIDs(t, f.db, f.todo.ID))
}

func TestMove_WithoutAnchorAppends(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 20)

	position, err := Tasks.Move(f.db, a.ID, f.todo.ID, Anchor{})
	require.NoError(t, err)
	assert.Equal(t, 30, position)
	assert.Equal(t, []uint64{b.ID, a.ID}, orderedTaskIDs(t, f.db, f.todo.ID))

	position, err = Tasks.Move(f.db, b.ID, f.done.ID, Anchor{})
	require.NoError(t, err)
	assert.Equal(t, Gap, position)
}

func TestMove_RenumbersWhenNeighboursAreAdjacent(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 11)
	item := testutil.CreateTask(t, f.db, f.done, "item", 10)

	// floor((10+11)/2) would collide with a; the column is renumbered first.
	position, err := Tasks.Move(f.db, item.ID, f.todo.ID, Anchor{BeforeID: ptr(b.ID)})
	require.NoError(t, err)
	assert.Equal(t, 15, position)

	positions := testutil.Positions(t, f.db, "tasks", a.ID, b.ID)
	assert.Equal(t, 10, positions[a.ID])
	assert.Equal(t, 20, positions[b.ID])
	assert.Equal(t, []uint64{a.ID, item.ID, b.ID}, orderedTaskIDs(t, f.db, f.todo.ID))
}

func TestMove_RepeatedInsertsInSameGapStayDistinct(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 20)

	// Keys run 15, 17, 18, 19; the fifth insert finds no free key and renumbers.
	want := []uint64{a.ID}
	for i := 0; i < 8; i++ {
		item := testutil.CreateTask(t, f.db, f.done, "item", (i+1)*Gap)
		_, err := Tasks.Move(f.db, item.ID, f.todo.ID, Anchor{BeforeID: ptr(b.ID)})
		require.NoError(t, err)
		want = append(want, item.ID)
	}
	want = append(want, b.ID)

	ids := orderedTaskIDs(t, f.db, f.todo.ID)
	assert.Equal(t, want, ids)

	positions := testutil.Positions(t, f.db, "tasks", ids...)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, positions[ids[i-1]], positions[ids[i]])
	}
}

func TestMove_TiedKeysFollowIDOrder(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 10)
	item := testutil.CreateTask(t, f.db, f.done, "item", 10)

	_, err := Tasks.Move(f.db, item.ID, f.todo.ID, Anchor{BeforeID: ptr(b.ID)})
	require.NoError(t, err)
	assert.Equal(t, []uint64{a.ID, item.ID, b.ID}, orderedTaskIDs(t, f.db, f.todo.ID))
}

func TestMove_AnchorErrors(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 10)
	elsewhere := testutil.CreateTask(t, f.db, f.done, "elsewhere", 10)

	_, err := Tasks.Move(f.db, a.ID, f.todo.ID, Anchor{BeforeID: ptr(elsewhere.ID)})
	assert.ErrorIs(t, err, ErrAnchorNotFound)

	_, err = Tasks.Move(f.db, a.ID, f.todo.ID, Anchor{AfterID: ptr(9999)})
	assert.ErrorIs(t, err, ErrAnchorNotFound)

	_, err = Tasks.Move(f.db, a.ID, f.todo.ID, Anchor{AfterID: ptr(a.ID)})
	assert.ErrorIs(t, err, ErrAnchorIsItem)

	_, err = Tasks.Move(f.db, 9999, f.todo.ID, Anchor{})
	assert.ErrorIs(t, err, ErrItemNotFound)

	var unchanged models.Task
	require.NoError(t, f.db.First(&unchanged, a.ID).Error)
	assert.Equal(t, 10, unchanged.Order)
	assert.Equal(t, f.todo.ID, unchanged.ColumnID)
}

func TestRenumber_PreservesOrder(t *testing.T) {
	f := setupOrderingTest(t)
	a := testutil.CreateTask(t, f.db, f.todo, "a", 3)
	b := testutil.CreateTask(t, f.db, f.todo, "b", 3)
	c := testutil.CreateTask(t, f.db, f.todo, "c", 4)

	require.NoError(t, Tasks.Renumber(f.db, f.todo.ID))

	positions := testutil.Positions(t, f.db, "tasks", a.ID, b.ID, c.ID)
	assert.Equal(t, map[uint64]int{a.ID: 10, b.ID: 20, c.ID: 30}, positions)
}
