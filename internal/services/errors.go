package services

import (
	"errors"

	"github.com/yukikurage/kanban-api/internal/authz"
)

var (
	ErrBoardNotFound        = errors.New("board not found")
	ErrColumnNotFound       = errors.New("column not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrTagNotFound          = errors.New("tag not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAnchorNotFound       = errors.New("anchor task not found in destination column")

	ErrLastOwnerDowngrade = errors.New("cannot downgrade the last owner")
	ErrLastOwnerRemoval   = errors.New("cannot remove the last owner")

	ErrNameRequired         = errors.New("name is required")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrInvalidRole          = errors.New("role must be one of owner, editor, viewer")
	ErrAssigneeNotMember    = errors.New("user is not a member of this board")
	ErrAnchorIsTask         = errors.New("a task cannot be placed relative to itself")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrTagNameTaken         = errors.New("a tag with this name already exists on the board")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrTextRequired         = errors.New("text is required")

	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// ErrorKind classifies service errors for transport layers.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindPermissionDenied
	KindPolicyViolation
	KindValidation
	KindConflict
	KindUnauthenticated
	KindUnavailable
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{authz.ErrNotFound, KindNotFound},
	{ErrBoardNotFound, KindNotFound},
	{ErrColumnNotFound, KindNotFound},
	{ErrTaskNotFound, KindNotFound},
	{ErrUserNotFound, KindNotFound},
	{ErrMemberNotFound, KindNotFound},
	{ErrTagNotFound, KindNotFound},
	{ErrAssignmentNotFound, KindNotFound},
	{ErrNotificationNotFound, KindNotFound},
	{ErrAnchorNotFound, KindNotFound},
	{authz.ErrPermissionDenied, KindPermissionDenied},
	{ErrLastOwnerDowngrade, KindPolicyViolation},
	{ErrLastOwnerRemoval, KindPolicyViolation},
	{ErrUsernameTaken, KindConflict},
	{ErrTagNameTaken, KindConflict},
	{ErrInvalidCredentials, KindUnauthenticated},
	{ErrAIServiceNotConfigured, KindUnavailable},
}

// Kind returns the class of err. A field error with no more specific cause
// is a validation error.
func Kind(err error) ErrorKind {
	for _, entry := range errorKinds {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}

	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return KindValidation
	}
	return KindInternal
}
