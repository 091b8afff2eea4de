package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// UserContext represents the complete user context for a request. Role is a
// per-request snapshot of the authoritative value in the user table; the
// bridge middleware re-reads it on every resolution. GraphDegraded is set
// when the last token refresh failed and the user needs to sign in again
// before Graph views work.
type UserContext struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	IsLoggedIn    bool   `json:"is_logged_in"`
	GraphDegraded bool   `json:"graph_degraded"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// SetUserContext stores the user context on the fiber context
func SetUserContext(c *fiber.Ctx, ctx UserContext) {
	c.Locals("USER_CONTEXT", ctx)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).Role == models.ROLE_ADMIN
}

// IsManager checks if the current user is a manager or admin
func IsManager(c *fiber.Ctx) bool {
	role := GetUserContext(c).Role
	return role == models.ROLE_MANAGER || role == models.ROLE_ADMIN
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
