package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// HandleOAuthCallback completes the Microsoft sign-in flow, links or updates
// the provider account and logs the user in. This is one of the two write
// sites of the credential store; expiry is always persisted as an absolute
// instant.
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("OAuth failed: %v", err))
	}

	// Try to find the existing linkage first
	account, err := repos.ProviderAccount.GetByProviderUserID(u.Provider, u.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("db error: %v", err))
	}

	var appUser *models.User
	if account == nil {
		// Optional email match if provided
		if u.Email != "" {
			appUser, _ = repos.User.GetByEmail(u.Email)
		}
		if appUser == nil {
			// Create a new user with a random placeholder password; OAuth
			// users never log in with it but validation requires one.
			placeholder := "oauth_" + uuid.NewString()
			email := u.Email
			if email == "" {
				email = fmt.Sprintf("%s_%s@%s.oauth.local", u.Provider, u.UserID, u.Provider)
			}
			appUser, err = models.CreateUser(firstNonEmpty(u.Name, u.NickName, u.Email, "User"), email, placeholder)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("create user failed: %v", err))
			}
			appUser.AvatarURL = u.AvatarURL
			if err := repos.User.Create(appUser); err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("create user failed: %v", err))
			}
		}

		account = &models.ProviderAccount{
			UserID:         appUser.ID,
			Provider:       u.Provider,
			ProviderUserID: u.UserID,
			AccessToken:    u.AccessToken,
			RefreshToken:   u.RefreshToken,
		}
		if !u.ExpiresAt.IsZero() {
			t := u.ExpiresAt
			account.ExpiresAt = &t
		}
		if err := repos.ProviderAccount.Create(account); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("link provider failed: %v", err))
		}
	} else {
		// Existing linkage: adopt the fresh token pair in one atomic write.
		// A zero expiry from the provider is persisted as unknown, which
		// makes the resolver refresh before the first Graph call.
		refresh := u.RefreshToken
		if refresh == "" {
			refresh = account.RefreshToken
		}
		if err := repos.ProviderAccount.UpdateTokens(account.ID, u.AccessToken, refresh, u.ExpiresAt); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("update tokens failed: %v", err))
		}
		appUser, err = repos.User.GetByID(account.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("linked user not found")
		}
	}

	if err := seedSession(c, appUser); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session save failed")
	}

	now := time.Now()
	appUser.LastLoginAt = &now
	_ = repos.User.Update(appUser)

	return c.Redirect("/", fiber.StatusSeeOther)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
