package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/app/models"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/session"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a local account with email and password.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}

	user, err := repos.User.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "invalid_credentials",
			"message": "email or password is wrong",
		})
	}
	if !user.IsActive() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "account_disabled",
			"message": "this account is not active",
		})
	}

	if err := seedSession(c, user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "session_failed",
			"message": "could not create session",
		})
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = repos.User.Update(user)

	return c.JSON(fiber.Map{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
	})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// seedSession writes the identity claims into a fresh session. The role is
// seeded from the authoritative store; the Graph access token is deliberately
// never part of the session (cookie-size limits and token hygiene) - it lives
// only in the credential store.
func seedSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUserName, user.Name)
	sess.Set(usercontext.KeyUserEmail, user.Email)
	sess.Set(usercontext.KeyUserRole, user.Role)
	sess.Set(usercontext.KeyGraphError, "")
	return sess.Save()
}
