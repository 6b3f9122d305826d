package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BoardListResponse represents a paginated list of boards
type BoardListResponse struct {
	Boards     []BoardDTO `json:"boards"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
	TotalPages int        `json:"total_pages"`
}

// MemberDTO represents a board membership in API responses
type MemberDTO struct {
	ID       uint64           `json:"id"`
	User     UserDTO          `json:"user"`
	Role     models.BoardRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID      uint64 `json:"id"`
	BoardID uint64 `json:"board"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID         uint64     `json:"id"`
	Message    string     `json:"message"`
	RefBoardID *uint64    `json:"ref_board"`
	IsRead     bool       `json:"is_read"`
	ReadAt     *time.Time `json:"read_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
	TotalPages    int               `json:"total_pages"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToUserDTOs converts users to DTOs
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

// ToBoardDTO converts a Board model to BoardDTO
func ToBoardDTO(board models.Board) BoardDTO {
	return BoardDTO{
		ID:          board.ID,
		Name:        board.Name,
		Description: board.Description,
		OwnerID:     board.OwnerID,
		CreatedAt:   board.CreatedAt,
	}
}

// ToBoardListResponse builds the paginated board list
func ToBoardListResponse(boards []models.Board, params utils.PaginationParams, total int64) BoardListResponse {
	dtos := make([]BoardDTO, len(boards))
	for i, board := range boards {
		dtos[i] = ToBoardDTO(board)
	}
	return BoardListResponse{
		Boards:     dtos,
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
		TotalPages: params.TotalPages(total),
	}
}

// ToMemberDTO converts a BoardMember model to MemberDTO
func ToMemberDTO(member models.BoardMember) MemberDTO {
	return MemberDTO{
		ID:       member.ID,
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToMemberDTOs converts memberships to DTOs
func ToMemberDTOs(members []models.BoardMember) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToMemberDTO(member)
	}
	return dtos
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:      tag.ID,
		BoardID: tag.BoardID,
		Name:    tag.Name,
		Color:   tag.Color,
	}
}

// ToTagDTOs converts tags to DTOs
func ToTagDTOs(tags []models.Tag) []TagDTO {
	dtos := make([]TagDTO, len(tags))
	for i, tag := range tags {
		dtos[i] = ToTagDTO(tag)
	}
	return dtos
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:         notification.ID,
		Message:    notification.Message,
		RefBoardID: notification.RefBoardID,
		IsRead:     notification.IsRead(),
		ReadAt:     notification.ReadAt,
		CreatedAt:  notification.CreatedAt,
	}
}

// ToNotificationListResponse builds the paginated notification list
func ToNotificationListResponse(notifications []models.Notification, params utils.PaginationParams, total int64) NotificationListResponse {
	dtos := make([]NotificationDTO, len(notifications))
	for i, notification := range notifications {
		dtos[i] = ToNotificationDTO(notification)
	}
	return NotificationListResponse{
		Notifications: dtos,
		Page:          params.Page,
		PageSize:      params.Limit,
		TotalCount:    total,
		TotalPages:    params.TotalPages(total),
	}
}
