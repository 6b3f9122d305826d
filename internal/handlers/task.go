package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	"github.com/yukikurage/kanban-api/internal/services"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks lists the column's tasks in order
func (h *TaskHandler) ListTasks(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask appends a task to the column
func (h *TaskHandler) CreateTask(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), access, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task with its assignees and tags
func (h *TaskHandler) GetTask(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates a task's title or description
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title" binding:"omitempty,max=200"`
		Description *string `json:"description"`
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), access, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), access); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderTasks applies a full task ordering to the column
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.taskService.ReorderTasks(c.Request.Context(), access, req.IDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MoveTask places a task relative to a sibling, optionally in another column
func (h *TaskHandler) MoveTask(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type MoveTaskRequest struct {
		ColumnID *uint64 `json:"column_id"`
		BeforeID *uint64 `json:"before_id"`
		AfterID  *uint64 `json:"after_id"`
	}

	var req MoveTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := h.taskService.MoveTask(c.Request.Context(), access, services.MoveTaskInput{
		ColumnID: req.ColumnID,
		BeforeID: req.BeforeID,
		AfterID:  req.AfterID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAssignees lists the users assigned to a task
func (h *TaskHandler) ListAssignees(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	users, err := h.taskService.ListAssignees(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// AssignUser assigns a board member to a task by username
func (h *TaskHandler) AssignUser(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type AssignUserRequest struct {
		Username string `json:"username" binding:"required"`
	}

	var req AssignUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.taskService.AssignUser(c.Request.Context(), access, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UnassignUser removes an assignment
func (h *TaskHandler) UnassignUser(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id", "user")
	if !ok {
		return
	}

	if err := h.taskService.UnassignUser(c.Request.Context(), access, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTags lists the tags attached to a task
func (h *TaskHandler) ListTags(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	tags, err := h.taskService.ListTaskTags(c.Request.Context(), access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagDTOs(tags))
}

// AttachTag attaches a tag of the same board to a task
func (h *TaskHandler) AttachTag(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type AttachTagRequest struct {
		TagID uint64 `json:"tag_id" binding:"required"`
	}

	var req AttachTagRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.taskService.AttachTag(c.Request.Context(), access, req.TagID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DetachTag detaches a tag from a task
func (h *TaskHandler) DetachTag(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id", "tag")
	if !ok {
		return
	}

	if err := h.taskService.DetachTag(c.Request.Context(), access, tagID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateTasks returns AI task suggestions for a column
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	access, ok := requireAccess(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	generated, err := h.taskService.GenerateTasks(c.Request.Context(), access, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	suggestions := make([]dto.GeneratedTaskDTO, len(generated))
	for i, task := range generated {
		suggestions[i] = dto.GeneratedTaskDTO{Title: task.Title, Description: task.Description}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": suggestions})
}
