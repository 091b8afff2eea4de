package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/internal/pkg/avatar"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/cache"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

const photoCacheTTL = time.Hour

// HandleGetProfile returns the signed-in user's Microsoft profile.
func HandleGetProfile(c *fiber.Ctx) error {
	profile, err := graph.Me(c.Context(), usercontext.GetUserID(c))
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(profile)
}

// HandleGetProfilePhoto returns the profile photo as a data URI. Photos
// rarely change, so the encoded value is cached for an hour.
func HandleGetProfilePhoto(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	cacheKey := fmt.Sprintf("profile:photo:%d", userID)

	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		return c.JSON(fiber.Map{"photo": cached})
	}

	photo, err := graph.MyPhoto(c.Context(), userID)
	if err != nil {
		return renderGraphError(c, err)
	}
	if photo == "" {
		// No Microsoft photo set; fall back to Gravatar.
		uc := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{"photo": avatar.GravatarURL(uc.Email, 200)})
	}
	_ = cache.Set(cacheKey, photo, photoCacheTTL)
	return c.JSON(fiber.Map{"photo": photo})
}
