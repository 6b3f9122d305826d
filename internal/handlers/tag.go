package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	"github.com/yukikurage/kanban-api/internal/services"
)

// TagHandler handles board tag endpoints
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags lists the board's tags
func (h *TagHandler) ListTags(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	tags, err := h.tagService.ListTags(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagDTOs(tags))
}

// CreateTag creates a tag on the board
func (h *TagHandler) CreateTag(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type CreateTagRequest struct {
		Name  string `json:"name" binding:"required,max=50"`
		Color string `json:"color" binding:"omitempty,max=16"`
	}

	var req CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tagService.CreateTag(c.Request.Context(), access, services.CreateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTagDTO(*tag))
}
