package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	"github.com/yukikurage/kanban-api/internal/services"
)

// ColumnHandler handles column endpoints
type ColumnHandler struct {
	columnService *services.ColumnService
}

// NewColumnHandler creates a new ColumnHandler
func NewColumnHandler(columnService *services.ColumnService) *ColumnHandler {
	return &ColumnHandler{columnService: columnService}
}

// ReorderRequest is the body of both reorder endpoints
type ReorderRequest struct {
	IDs []uint64 `json:"ids" binding:"required"`
}

// ListColumns lists the board's columns in order
func (h *ColumnHandler) ListColumns(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	columns, err := h.columnService.ListColumns(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTOs(columns))
}

// CreateColumn appends a column to the board
func (h *ColumnHandler) CreateColumn(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type CreateColumnRequest struct {
		Name string `json:"name" binding:"required,max=120"`
	}

	var req CreateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.columnService.CreateColumn(c.Request.Context(), access, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToColumnDTO(*column))
}

// GetColumn returns a column
func (h *ColumnHandler) GetColumn(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	column, err := h.columnService.GetColumn(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTO(*column))
}

// UpdateColumn renames a column
func (h *ColumnHandler) UpdateColumn(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type UpdateColumnRequest struct {
		Name *string `json:"name" binding:"omitempty,max=120"`
	}

	var req UpdateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.columnService.UpdateColumn(c.Request.Context(), access, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTO(*column))
}

// DeleteColumn deletes a column and its tasks
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	if err := h.columnService.DeleteColumn(c.Request.Context(), access); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderColumns applies a full column ordering
func (h *ColumnHandler) ReorderColumns(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.columnService.ReorderColumns(c.Request.Context(), access, req.IDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
