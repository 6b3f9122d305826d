package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/services"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// BoardHandler handles board and membership endpoints
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// ListBoards returns the boards the user owns or belongs to
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	boards, total, err := h.boardService.ListBoards(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardListResponse(boards, params, total))
}

// CreateBoard creates a board owned by the current user
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type CreateBoardRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), userID, services.CreateBoardInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	boardDTO := dto.ToBoardDTO(*board)
	boardDTO.Role = string(models.RoleOwner)
	c.JSON(http.StatusCreated, boardDTO)
}

// GetBoard returns a board with the caller's role
func (h *BoardHandler) GetBoard(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	boardDTO := dto.ToBoardDTO(*board)
	boardDTO.Role = access.Role.String()
	c.JSON(http.StatusOK, boardDTO)
}

// UpdateBoard updates the name or description of a board
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type UpdateBoardRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
	}

	var req UpdateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), access, services.UpdateBoardInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	boardDTO := dto.ToBoardDTO(*board)
	boardDTO.Role = access.Role.String()
	c.JSON(http.StatusOK, boardDTO)
}

// DeleteBoard deletes a board and everything on it
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(c.Request.Context(), access); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers lists the board's memberships
func (h *BoardHandler) ListMembers(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	members, err := h.boardService.ListMembers(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(members))
}

// AddMember adds a user by username or updates their role. Both answer 201.
func (h *BoardHandler) AddMember(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type AddMemberRequest struct {
		Username string           `json:"username" binding:"required"`
		Role     models.BoardRole `json:"role"`
	}

	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, _, err := h.boardService.AddOrUpdateMember(c.Request.Context(), access, userID, services.MemberInput{
		Username: req.Username,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberDTO(*member))
}

// UpdateMember changes a member's role
func (h *BoardHandler) UpdateMember(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "member_id", "member")
	if !ok {
		return
	}

	type UpdateMemberRequest struct {
		Role models.BoardRole `json:"role" binding:"required"`
	}

	var req UpdateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.boardService.UpdateMemberRole(c.Request.Context(), access, memberID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTO(*member))
}

// RemoveMember removes a membership
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "member_id", "member")
	if !ok {
		return
	}

	if err := h.boardService.RemoveMember(c.Request.Context(), access, memberID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
