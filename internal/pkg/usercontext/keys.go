package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey       = "authenticated"
	KeyUserID     = "user_id"
	KeyUserName   = "user_name"
	KeyUserEmail  = "user_email"
	KeyUserRole   = "user_role"
	KeyGraphError = "graph_error"

	// GraphErrorRefresh marks a session whose Graph refresh token was
	// rejected: the user stays signed in but every Graph call will fail
	// until they re-authenticate.
	GraphErrorRefresh = "RefreshAccessTokenError"
)
