// Package router assembles the HTTP engine with its middleware, handlers and
// routes.
//
// Routes live under /api and are registered without a trailing slash.
// Handler trims one trailing slash before routing, so /api/boards/1/ and
// /api/boards/1 reach the same handler without a redirect.
package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/kanban-api/internal/auth"
	"github.com/yukikurage/kanban-api/internal/authz"
	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/handlers"
	"github.com/yukikurage/kanban-api/internal/middleware"
	"github.com/yukikurage/kanban-api/internal/services"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Logger       *logrus.Logger
	SessionStore sessions.Store
	Issuer       *auth.TokenIssuer
	Authority    *authz.Authority
	Origins      []string

	Auth          *services.AuthService
	Boards        *services.BoardService
	Columns       *services.ColumnService
	Tasks         *services.TaskService
	Tags          *services.TagService
	Notifications *services.NotificationService

	// Ping reports storage health; nil skips the check.
	Ping func(ctx context.Context) error
}

// New builds the gin engine with every route registered.
func New(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	origins := deps.Origins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Telemetry(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", constants.HeaderRequestID},
		ExposeHeaders:    []string{constants.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Issuer)
	boardHandler := handlers.NewBoardHandler(deps.Boards)
	columnHandler := handlers.NewColumnHandler(deps.Columns)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	tagHandler := handlers.NewTagHandler(deps.Tags)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)

	requireAuth := middleware.RequireAuth(deps.Issuer)
	board := func(action ...authz.Action) gin.HandlerFunc {
		return middleware.RequireBoardAccess(deps.Authority, "board_id", action...)
	}
	column := middleware.RequireColumnAccess(deps.Authority, "column_id")
	task := middleware.RequireTaskAccess(deps.Authority, "task_id")

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.Ping != nil {
			if err := deps.Ping(c.Request.Context()); err != nil {
				logger.WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Kanban API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(requireAuth)
		{
			boards.GET("", boardHandler.ListBoards)
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("/:board_id", board(), boardHandler.GetBoard)
			boards.PATCH("/:board_id", board(authz.ActionAdmin), boardHandler.UpdateBoard)
			boards.DELETE("/:board_id", board(authz.ActionAdmin), boardHandler.DeleteBoard)

			boards.GET("/:board_id/members", board(), boardHandler.ListMembers)
			boards.POST("/:board_id/members", board(), boardHandler.AddMember)
			boards.PATCH("/:board_id/members/:member_id", board(authz.ActionAdmin), boardHandler.UpdateMember)
			boards.DELETE("/:board_id/members/:member_id", board(authz.ActionAdmin), boardHandler.RemoveMember)

			boards.GET("/:board_id/columns", board(), columnHandler.ListColumns)
			boards.POST("/:board_id/columns", board(), columnHandler.CreateColumn)
			boards.POST("/:board_id/columns/reorder", board(), columnHandler.ReorderColumns)

			boards.GET("/:board_id/tags", board(), tagHandler.ListTags)
			boards.POST("/:board_id/tags", board(), tagHandler.CreateTag)
		}

		// Column routes (protected)
		columns := api.Group("/columns")
		columns.Use(requireAuth)
		{
			columns.GET("/:column_id", column, columnHandler.GetColumn)
			columns.PATCH("/:column_id", column, columnHandler.UpdateColumn)
			columns.DELETE("/:column_id", column, columnHandler.DeleteColumn)

			columns.GET("/:column_id/tasks", column, taskHandler.ListTasks)
			columns.POST("/:column_id/tasks", column, taskHandler.CreateTask)
			columns.POST("/:column_id/tasks/reorder", column, taskHandler.ReorderTasks)
			columns.POST("/:column_id/tasks/generate", column, taskHandler.GenerateTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("/:task_id", task, taskHandler.GetTask)
			tasks.PATCH("/:task_id", task, taskHandler.UpdateTask)
			tasks.DELETE("/:task_id", task, taskHandler.DeleteTask)
			tasks.POST("/:task_id/move", task, taskHandler.MoveTask)

			tasks.GET("/:task_id/assignees", task, taskHandler.ListAssignees)
			tasks.POST("/:task_id/assignees", task, taskHandler.AssignUser)
			tasks.DELETE("/:task_id/assignees/:user_id", task, taskHandler.UnassignUser)

			tasks.GET("/:task_id/tags", task, taskHandler.ListTags)
			tasks.POST("/:task_id/tags", task, taskHandler.AttachTag)
			tasks.DELETE("/:task_id/tags/:tag_id", task, taskHandler.DetachTag)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:notification_id/read", notificationHandler.MarkRead)
		}
	}

	return r
}

// Handler serves engine with a single trailing slash removed from the path.
func Handler(engine *gin.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if path := req.URL.Path; len(path) > 1 && strings.HasSuffix(path, "/") {
			req.URL.Path = strings.TrimSuffix(path, "/")
			if req.URL.RawPath != "" {
				req.URL.RawPath = strings.TrimSuffix(req.URL.RawPath, "/")
			}
		}
		engine.ServeHTTP(w, req)
	})
}
