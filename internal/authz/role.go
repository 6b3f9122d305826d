// Package authz resolves what a user may do on a board.
//
// Every resource nested under a board (columns, tasks, their assignments and
// tag links) is authorised through the board it belongs to, using one
// effective role per (user, board) pair.
package authz

import (
	"net/http"

	"github.com/yukikurage/kanban-api/internal/models"
)

// Role is the effective permission level of a user on a board.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleEditor
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleViewer:
		return string(models.RoleViewer)
	case RoleEditor:
		return string(models.RoleEditor)
	case RoleOwner:
		return string(models.RoleOwner)
	default:
		return "none"
	}
}

// Action is the kind of operation being authorised.
type Action int

const (
	// ActionRead covers listing and fetching board resources.
	ActionRead Action = iota
	// ActionWrite covers creating, changing, ordering and deleting columns,
	// tasks, tags, assignments and adding members.
	ActionWrite
	// ActionAdmin covers changing or deleting the board itself and changing
	// or removing memberships.
	ActionAdmin
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	case ActionAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Effective resolves the role of userID on board. The board owner is always
// RoleOwner; everyone else gets the role of their membership, or RoleNone.
func Effective(board *models.Board, userID uint64, member *models.BoardMember) Role {
	if board != nil && board.OwnerID == userID {
		return RoleOwner
	}
	if member == nil || member.UserID != userID {
		return RoleNone
	}

	switch member.Role {
	case models.RoleOwner:
		return RoleOwner
	case models.RoleEditor:
		return RoleEditor
	case models.RoleViewer:
		return RoleViewer
	default:
		return RoleNone
	}
}

// Allows reports whether the role permits the action.
func (r Role) Allows(action Action) bool {
	switch action {
	case ActionRead:
		return r >= RoleViewer
	case ActionWrite:
		return r >= RoleEditor
	case ActionAdmin:
		return r == RoleOwner
	default:
		return false
	}
}

// ActionForMethod maps an HTTP method to the action it performs.
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	default:
		return ActionWrite
	}
}
