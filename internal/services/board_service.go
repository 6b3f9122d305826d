package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/kanban-api/internal/authz"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/notify"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// BoardService handles boards and their memberships.
type BoardService struct {
	store    *repository.Store
	notifier notify.Notifier
}

// NewBoardService creates a new BoardService. A nil notifier discards
// membership notifications.
func NewBoardService(store *repository.Store, notifier notify.Notifier) *BoardService {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &BoardService{
		store:    store,
		notifier: notifier,
	}
}

// CreateBoardInput represents input for creating a board
type CreateBoardInput struct {
	Name        string
	Description string
}

// UpdateBoardInput represents input for updating a board
type UpdateBoardInput struct {
	Name        *string
	Description *string
}

// MemberInput represents input for adding or updating a membership
type MemberInput struct {
	Username string
	Role     models.BoardRole
}

// CreateBoard creates a board owned by ownerID together with the owner's
// membership.
func (s *BoardService) CreateBoard(ctx context.Context, ownerID uint64, input CreateBoardInput) (*models.Board, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldError("name", ErrNameRequired)
	}

	var board *models.Board
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		board = &models.Board{
			Name:        name,
			Description: input.Description,
			OwnerID:     ownerID,
		}
		if err := tx.Boards.Create(board); err != nil {
			return fmt.Errorf("failed to create board: %w", err)
		}

		member := &models.BoardMember{BoardID: board.ID, UserID: ownerID, Role: models.RoleOwner}
		if _, err := tx.Members.GetOrCreate(member); err != nil {
			return fmt.Errorf("failed to add owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// ListBoards lists the boards a user owns or is a member of, newest first.
func (s *BoardService) ListBoards(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Board, int64, error) {
	boards, total, err := s.store.WithContext(ctx).Boards.ListForUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, total, nil
}

// GetBoard returns the resolved board.
func (s *BoardService) GetBoard(ctx context.Context, access *authz.Access) (*models.Board, error) {
	board, err := s.store.WithContext(ctx).Boards.FindByID(access.Board.ID)
	if err != nil {
		return nil, lookupError(err, ErrBoardNotFound, "board")
	}
	return board, nil
}

// UpdateBoard changes the name or description of a board.
func (s *BoardService) UpdateBoard(ctx context.Context, access *authz.Access, input UpdateBoardInput) (*models.Board, error) {
	var name string
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fieldError("name", ErrNameRequired)
		}
	}

	var board *models.Board
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		board, err = lockBoard(tx, access.Board.ID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			board.Name = name
		}
		if input.Description != nil {
			board.Description = *input.Description
		}

		if err := tx.Boards.Update(board); err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// DeleteBoard deletes a board with its columns, tasks, tags and memberships.
func (s *BoardService) DeleteBoard(ctx context.Context, access *authz.Access) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockBoard(tx, access.Board.ID); err != nil {
			return err
		}
		if err := tx.Boards.Delete(access.Board.ID); err != nil {
			return fmt.Errorf("failed to delete board: %w", err)
		}
		return nil
	})
}

// ListMembers lists the memberships of a board ordered by username.
func (s *BoardService) ListMembers(ctx context.Context, access *authz.Access) ([]models.BoardMember, error) {
	members, err := s.store.WithContext(ctx).Members.List(access.Board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddOrUpdateMember gives the named user a role on the board. A new member is
// notified once the transaction commits. Granting owner or changing an
// existing role needs owner rights. It reports whether the membership was
// created.
func (s *BoardService) AddOrUpdateMember(ctx context.Context, access *authz.Access, actorID uint64, input MemberInput) (*models.BoardMember, bool, error) {
	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}
	if !role.Valid() {
		return nil, false, fieldError("role", ErrInvalidRole)
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, false, fieldError("username", ErrUsernameRequired)
	}
	admin := access.Role.Allows(authz.ActionAdmin)
	if role == models.RoleOwner && !admin {
		return nil, false, authz.ErrPermissionDenied
	}

	var (
		member  *models.BoardMember
		created bool
		pending []notify.Notification
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		pending = nil

		board, err := lockBoard(tx, access.Board.ID)
		if err != nil {
			return err
		}
		user, err := findUserByUsername(tx, username)
		if err != nil {
			return err
		}

		member = &models.BoardMember{BoardID: board.ID, UserID: user.ID, Role: role}
		created, err = tx.Members.GetOrCreate(member)
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		member.User = *user

		if created {
			actor, err := tx.Users.FindByID(actorID)
			if err != nil {
				return lookupError(err, ErrUserNotFound, "acting user")
			}
			message := fmt.Sprintf("%s added you to board %s", actor.Username, board.Name)
			pending = append(pending, notify.New(user.ID, message, &board.ID))
			return nil
		}

		// Changing an existing membership is an owner action, as on PATCH.
		if member.Role != role && !admin {
			return authz.ErrPermissionDenied
		}
		return changeRole(tx, member, role)
	})
	if err != nil {
		return nil, false, err
	}

	s.emit(pending)
	return member, created, nil
}

// UpdateMemberRole changes the role of an existing membership.
func (s *BoardService) UpdateMemberRole(ctx context.Context, access *authz.Access, memberID uint64, role models.BoardRole) (*models.BoardMember, error) {
	if !role.Valid() {
		return nil, fieldError("role", ErrInvalidRole)
	}

	var member *models.BoardMember
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockBoard(tx, access.Board.ID); err != nil {
			return err
		}

		var err error
		member, err = tx.Members.FindByID(access.Board.ID, memberID)
		if err != nil {
			return lookupError(err, ErrMemberNotFound, "member")
		}

		return changeRole(tx, member, role)
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// RemoveMember deletes a membership unless it is the board's last owner.
func (s *BoardService) RemoveMember(ctx context.Context, access *authz.Access, memberID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockBoard(tx, access.Board.ID); err != nil {
			return err
		}

		member, err := tx.Members.FindByID(access.Board.ID, memberID)
		if err != nil {
			return lookupError(err, ErrMemberNotFound, "member")
		}

		if member.Role == models.RoleOwner {
			if err := ensureAnotherOwner(tx, member.BoardID, ErrLastOwnerRemoval); err != nil {
				return err
			}
		}

		if err := tx.Members.Delete(member); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
}

// changeRole writes role to member, refusing to demote the last owner.
// The board row must already be locked.
func changeRole(tx *repository.Store, member *models.BoardMember, role models.BoardRole) error {
	if member.Role == role {
		return nil
	}
	if member.Role == models.RoleOwner {
		if err := ensureAnotherOwner(tx, member.BoardID, ErrLastOwnerDowngrade); err != nil {
			return err
		}
	}

	if err := tx.Members.UpdateRole(member, role); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return nil
}

func ensureAnotherOwner(tx *repository.Store, boardID uint64, violation error) error {
	owners, err := tx.Members.CountOwners(boardID)
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	if owners <= 1 {
		return violation
	}
	return nil
}

func (s *BoardService) emit(pending []notify.Notification) {
	for _, n := range pending {
		s.notifier.Notify(n)
		logrus.WithFields(logrus.Fields{
			"event_id": n.EventID,
			"user_id":  n.UserID,
		}).Debug("notification queued")
	}
}
