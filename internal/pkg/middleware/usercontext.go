package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
	"github.com/TeamFoxHQ/TeamFox/app/repository"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/msgraph"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/session"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

// GraphTokenResolver is the slice of the token resolver the bridge needs for
// its opportunistic refresh. Nil disables the check (tests, setups without
// Graph credentials).
type GraphTokenResolver interface {
	Resolve(ctx context.Context, userID uint) (string, error)
}

// NewUserContext builds the session-to-identity bridge middleware. For every
// request with a session it resolves the user, re-reads the authoritative
// role from the store and self-heals the cached session value when the two
// diverge. It also resolves the user's Graph token opportunistically: a
// failed refresh marks the session as degraded instead of logging the user
// out, since only a fresh sign-in can mint a new refresh token.
func NewUserContext(users repository.UserRepository, tokens GraphTokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Goth uses its own fiber session store on /auth/*; skip the app
		// session there to prevent cross-store collisions.
		if strings.HasPrefix(c.Path(), "/auth/") {
			return c.Next()
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
			return c.Next()
		}

		authenticated, _ := sess.Get(usercontext.AuthKey).(bool)
		userID, ok := sess.Get(usercontext.KeyUserID).(uint)
		if !authenticated || !ok || userID == 0 {
			usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
			return c.Next()
		}

		username, _ := sess.Get(usercontext.KeyUserName).(string)
		email, _ := sess.Get(usercontext.KeyUserEmail).(string)
		role, _ := sess.Get(usercontext.KeyUserRole).(string)
		graphErr, _ := sess.Get(usercontext.KeyGraphError).(string)
		dirty := false

		// The session role is only a cache; the user table is authoritative.
		authoritative, err := users.GetRole(userID)
		switch {
		case err == nil:
			if authoritative != role {
				role = authoritative
				sess.Set(usercontext.KeyUserRole, role)
				dirty = true
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// User was deleted while the session lived on.
			sess.Destroy()
			usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
			return c.Next()
		}
		if role == "" {
			role = models.ROLE_USER
		}

		if tokens != nil {
			_, resolveErr := tokens.Resolve(c.Context(), userID)
			switch {
			case resolveErr == nil:
				if graphErr != "" {
					graphErr = ""
					sess.Set(usercontext.KeyGraphError, "")
					dirty = true
				}
			case errors.Is(resolveErr, msgraph.ErrRefreshFailed):
				if graphErr != usercontext.GraphErrorRefresh {
					graphErr = usercontext.GraphErrorRefresh
					sess.Set(usercontext.KeyGraphError, graphErr)
					dirty = true
				}
			}
			// ErrNoCredential and transient load errors leave the flag as is.
		}

		if dirty {
			_ = sess.Save()
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:        userID,
			Username:      username,
			Email:         email,
			Role:          role,
			IsLoggedIn:    true,
			GraphDegraded: graphErr == usercontext.GraphErrorRefresh,
		})

		return c.Next()
	}
}
