package constants

const (
	// ContextKeyUserID is the key holding the authenticated user ID in both
	// the session and the gin context.
	ContextKeyUserID = "user_id"

	// ContextKeyAccess holds the *authz.Access resolved for the request.
	ContextKeyAccess = "access"
	ContextKeyRole   = "board_role"

	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"

	// TracerName is the instrumentation scope of HTTP spans.
	TracerName = "kanban/http"

	SessionCookieName = "kanban_session"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MaxAIGeneratedTasks = 20
)
