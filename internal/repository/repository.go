package repository

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/ordering"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// Create creates a new board
	Create(board *models.Board) error

	// FindByID finds a board by ID
	FindByID(id uint64) (*models.Board, error)

	// LockByID loads a board and holds its row lock until the transaction ends
	LockByID(id uint64) (*models.Board, error)

	// ListForUser lists boards the user owns or is a member of, newest first
	ListForUser(userID uint64, params utils.PaginationParams) ([]models.Board, int64, error)

	// Update saves board fields
	Update(board *models.Board) error

	// Delete deletes a board together with everything it owns
	Delete(id uint64) error
}

// MemberRepository defines the interface for board membership data access
type MemberRepository interface {
	// GetOrCreate inserts the membership unless (board, user) already exists,
	// in which case member is replaced by the stored row. It reports whether
	// a row was inserted.
	GetOrCreate(member *models.BoardMember) (bool, error)

	// FindByID finds a membership of a board by its ID
	FindByID(boardID, memberID uint64) (*models.BoardMember, error)

	// FindByUser finds the membership of a user on a board
	FindByUser(boardID, userID uint64) (*models.BoardMember, error)

	// List lists the memberships of a board ordered by username
	List(boardID uint64) ([]models.BoardMember, error)

	// UpdateRole changes the role of a membership
	UpdateRole(member *models.BoardMember, role models.BoardRole) error

	// Delete removes a membership
	Delete(member *models.BoardMember) error

	// CountOwners counts owner-role memberships of a board
	CountOwners(boardID uint64) (int64, error)
}

// ColumnRepository defines the interface for column data access
type ColumnRepository interface {
	// Append creates a column after the last column of its board
	Append(column *models.Column) error

	// FindByID finds a column by ID
	FindByID(id uint64) (*models.Column, error)

	// LockByID loads a column and holds its row lock until the transaction ends
	LockByID(id uint64) (*models.Column, error)

	// List lists the columns of a board in display order
	List(boardID uint64) ([]models.Column, error)

	// Update saves column fields
	Update(column *models.Column) error

	// Delete deletes a column together with its tasks
	Delete(id uint64) error

	// Reorder renumbers the listed columns of a board
	Reorder(boardID uint64, ids []uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Append creates a task after the last task of its column
	Append(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// LockByID loads a task and holds its row lock until the transaction ends
	LockByID(id uint64) (*models.Task, error)

	// List lists the tasks of a column in display order
	List(columnID uint64) ([]models.Task, error)

	// Update saves task fields
	Update(task *models.Task) error

	// Delete deletes a task together with its assignments and tag links
	Delete(id uint64) error

	// Reorder renumbers the listed tasks of a column
	Reorder(columnID uint64, ids []uint64) error

	// Move places a task in a column relative to an anchor and returns its new key
	Move(taskID, columnID uint64, anchor ordering.Anchor) (int, error)

	// ListAssignees lists the users assigned to a task ordered by username
	ListAssignees(taskID uint64) ([]models.User, error)

	// Assign assigns a user to a task and reports whether a row was inserted
	Assign(taskID, userID uint64) (bool, error)

	// Unassign removes an assignment and reports whether it existed
	Unassign(taskID, userID uint64) (bool, error)

	// ListTags lists the tags attached to a task ordered by name
	ListTags(taskID uint64) ([]models.Tag, error)

	// AttachTag links a tag to a task and reports whether a row was inserted
	AttachTag(taskID, tagID uint64) (bool, error)

	// DetachTag removes a tag link if present
	DetachTag(taskID, tagID uint64) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// Create creates a new tag
	Create(tag *models.Tag) error

	// FindInBoard finds a tag that belongs to the given board
	FindInBoard(boardID, tagID uint64) (*models.Tag, error)

	// List lists the tags of a board ordered by name
	List(boardID uint64) ([]models.Tag, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create stores a notification
	Create(notification *models.Notification) error

	// ListForUser lists a user's notifications, newest first
	ListForUser(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error)

	// FindForUser finds a notification owned by the user
	FindForUser(userID, id uint64) (*models.Notification, error)

	// MarkRead sets read_at unless it is already set
	MarkRead(notification *models.Notification, at time.Time) error
}
