package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/kanban-api/internal/authz"
	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/ordering"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	store     *repository.Store
	generator TaskGenerator
}

// NewTaskService creates a new TaskService. generator may be nil when AI
// suggestions are not configured.
func NewTaskService(store *repository.Store, generator TaskGenerator) *TaskService {
	return &TaskService{
		store:     store,
		generator: generator,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	CreatorID   uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title       *string
	Description *string
}

// MoveTaskInput positions a task. ColumnID defaults to the task's column.
type MoveTaskInput struct {
	ColumnID *uint64
	BeforeID *uint64
	AfterID  *uint64
}

var taskDetailPreloads = []string{"Assignments", "Assignments.User", "TaskTags", "TaskTags.Tag"}

// CreateTask appends a task to the column.
func (s *TaskService) CreateTask(ctx context.Context, access *authz.Access, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fieldError("title", ErrTitleRequired)
	}

	var task *models.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockColumn(tx, access.Column.ID); err != nil {
			return err
		}

		creatorID := input.CreatorID
		task = &models.Task{
			ColumnID:    access.Column.ID,
			Title:       title,
			Description: input.Description,
			CreatedByID: &creatorID,
		}
		if err := tx.Tasks.Append(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// ListTasks lists the tasks of the column in display order.
func (s *TaskService) ListTasks(ctx context.Context, access *authz.Access) ([]models.Task, error) {
	tasks, err := s.store.WithContext(ctx).Tasks.List(access.Column.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its assignments and tags
func (s *TaskService) GetTask(ctx context.Context, access *authz.Access) (*models.Task, error) {
	task, err := s.store.WithContext(ctx).Tasks.FindByID(access.Task.ID, taskDetailPreloads...)
	if err != nil {
		return nil, lookupError(err, ErrTaskNotFound, "task")
	}
	return task, nil
}

// UpdateTask updates the title or description of a task
func (s *TaskService) UpdateTask(ctx context.Context, access *authz.Access, input UpdateTaskInput) (*models.Task, error) {
	var title string
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fieldError("title", ErrTitleEmpty)
		}
	}

	var task *models.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		task, err = tx.Tasks.FindByID(access.Task.ID)
		if err != nil {
			return lookupError(err, ErrTaskNotFound, "task")
		}

		if input.Title != nil {
			task.Title = title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}

		if err := tx.Tasks.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask deletes a task with its assignments and tag links
func (s *TaskService) DeleteTask(ctx context.Context, access *authz.Access) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockColumn(tx, access.Column.ID); err != nil {
			return err
		}
		if err := tx.Tasks.Delete(access.Task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// ReorderTasks renumbers the listed tasks of the column. Ids of tasks in
// other columns are ignored.
func (s *TaskService) ReorderTasks(ctx context.Context, access *authz.Access, ids []uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockColumn(tx, access.Column.ID); err != nil {
			return err
		}
		if err := tx.Tasks.Reorder(access.Column.ID, ids); err != nil {
			return fmt.Errorf("failed to reorder tasks: %w", err)
		}
		return nil
	})
}

// MoveTask places a task before or after a sibling, optionally in another
// column of the same board, and returns its new order key.
func (s *TaskService) MoveTask(ctx context.Context, access *authz.Access, input MoveTaskInput) (int, error) {
	var position int
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(access.Task.ID)
		if err != nil {
			return lookupError(err, ErrTaskNotFound, "task")
		}
		sourceID := task.ColumnID
		destID := sourceID
		if input.ColumnID != nil {
			destID = *input.ColumnID
		}

		// Lock both columns in id order so opposite moves cannot deadlock.
		columnIDs := []uint64{sourceID}
		if destID != sourceID {
			columnIDs = append(columnIDs, destID)
			sort.Slice(columnIDs, func(i, j int) bool { return columnIDs[i] < columnIDs[j] })
		}
		for _, id := range columnIDs {
			column, err := lockColumn(tx, id)
			if err != nil {
				return err
			}
			if column.BoardID != access.Board.ID {
				return ErrColumnNotFound
			}
		}

		// The first read was unlocked; a move that committed since then
		// makes the locked columns the wrong ones.
		locked, err := tx.Tasks.LockByID(access.Task.ID)
		if err != nil {
			return lookupError(err, ErrTaskNotFound, "task")
		}
		if locked.ColumnID != sourceID {
			return repository.ErrStaleRead
		}

		position, err = tx.Tasks.Move(access.Task.ID, destID, ordering.Anchor{
			BeforeID: input.BeforeID,
			AfterID:  input.AfterID,
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ordering.ErrAnchorNotFound):
			return ErrAnchorNotFound
		case errors.Is(err, ordering.ErrAnchorIsItem):
			field := "before_id"
			if input.BeforeID == nil {
				field = "after_id"
			}
			return fieldError(field, ErrAnchorIsTask)
		case errors.Is(err, ordering.ErrItemNotFound):
			return ErrTaskNotFound
		default:
			return fmt.Errorf("failed to move task: %w", err)
		}
	})
	if err != nil {
		return 0, err
	}

	return position, nil
}

// ListAssignees lists the users assigned to the task
func (s *TaskService) ListAssignees(ctx context.Context, access *authz.Access) ([]models.User, error) {
	users, err := s.store.WithContext(ctx).Tasks.ListAssignees(access.Task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	return users, nil
}

// AssignUser assigns a board member to the task. Assigning the same user
// again succeeds without adding a row.
func (s *TaskService) AssignUser(ctx context.Context, access *authz.Access, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fieldError("username", ErrUsernameRequired)
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		board, err := lockBoard(tx, access.Board.ID)
		if err != nil {
			return err
		}

		user, err = findUserByUsername(tx, username)
		if err != nil {
			return err
		}

		member, err := tx.Members.FindByUser(board.ID, user.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load membership: %w", err)
			}
			member = nil
		}
		if authz.Effective(board, user.ID, member) == authz.RoleNone {
			return fieldError("username", ErrAssigneeNotMember)
		}

		if _, err := tx.Tasks.Assign(access.Task.ID, user.ID); err != nil {
			return fmt.Errorf("failed to assign user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UnassignUser removes the user's assignment from the task
func (s *TaskService) UnassignUser(ctx context.Context, access *authz.Access, userID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		removed, err := tx.Tasks.Unassign(access.Task.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to unassign user: %w", err)
		}
		if !removed {
			return ErrAssignmentNotFound
		}
		return nil
	})
}

// ListTaskTags lists the tags attached to the task
func (s *TaskService) ListTaskTags(ctx context.Context, access *authz.Access) ([]models.Tag, error) {
	tags, err := s.store.WithContext(ctx).Tasks.ListTags(access.Task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task tags: %w", err)
	}
	return tags, nil
}

// AttachTag links a tag of the task's board to the task. Tags of other boards
// are reported as not found.
func (s *TaskService) AttachTag(ctx context.Context, access *authz.Access, tagID uint64) (*models.Tag, error) {
	var tag *models.Tag
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		tag, err = tx.Tags.FindInBoard(access.Board.ID, tagID)
		if err != nil {
			return lookupError(err, ErrTagNotFound, "tag")
		}

		if _, err := tx.Tasks.AttachTag(access.Task.ID, tag.ID); err != nil {
			return fmt.Errorf("failed to attach tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// DetachTag removes a tag from the task if it is attached
func (s *TaskService) DetachTag(ctx context.Context, access *authz.Access, tagID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Tasks.DetachTag(access.Task.ID, tagID); err != nil {
			return fmt.Errorf("failed to detach tag: %w", err)
		}
		return nil
	})
}

// GenerateTasks asks the AI service for task suggestions for the column.
// Nothing is stored; the client creates the tasks it keeps.
func (s *TaskService) GenerateTasks(ctx context.Context, access *authz.Access, text string) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, fieldError("text", ErrTextRequired)
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, access.Board.Name, access.Column.Name, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}
