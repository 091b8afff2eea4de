package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

type createUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	PositionID *uint  `json:"position_id"`
}

type updateUserRequest struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	PositionID *uint  `json:"position_id"`
}

// HandleListUsers returns a paginated user list, optionally filtered by a
// search term or a position.
func HandleListUsers(c *fiber.Ctx) error {
	if q := c.Query("q"); q != "" {
		users, err := repos.User.Search(q)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "could not search users",
			})
		}
		return c.JSON(fiber.Map{"users": users})
	}
	if pos := c.Query("position_id"); pos != "" {
		id, err := paramQueryUint(pos)
		if err != nil {
			return badRequest(c, "invalid position_id")
		}
		users, err := repos.User.ListByPosition(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "could not load users",
			})
		}
		return c.JSON(fiber.Map{"users": users})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.Query("per_page", "25"))
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	users, err := repos.User.List((page-1)*perPage, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load users",
		})
	}
	total, err := repos.User.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not count users",
		})
	}

	return c.JSON(fiber.Map{
		"users":    users,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// HandleGetUser returns a single user.
func HandleGetUser(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	user, err := repos.User.GetByID(id)
	if err != nil {
		return notFoundJSON(c)
	}
	return c.JSON(user)
}

// HandleCreateUser creates a local user account (admin only).
func HandleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if req.Role != "" {
		if !models.IsValidRole(req.Role) {
			return badRequest(c, "invalid role")
		}
		user.Role = req.Role
	}
	if req.PositionID != nil {
		if _, err := repos.Position.GetByID(*req.PositionID); err != nil {
			return badRequest(c, "position does not exist")
		}
		user.PositionID = req.PositionID
	}

	if _, err := repos.User.GetByEmail(user.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "a user with this email already exists",
		})
	}
	if err := repos.User.Create(user); err != nil {
		log.Printf("[UserController] create user failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not create user",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleUpdateUser updates name, role, status and position of a user
// (admin only). Role changes take effect on the target's next request
// because the user context re-reads the role from the database.
func HandleUpdateUser(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	user, err := repos.User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundJSON(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load user",
		})
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		if !models.IsValidRole(req.Role) {
			return badRequest(c, "invalid role")
		}
		// Admins cannot demote themselves; it would lock everyone out of
		// the admin area once the last admin self-demotes.
		if id == usercontext.GetUserID(c) && req.Role != models.ROLE_ADMIN {
			return badRequest(c, "you cannot change your own role")
		}
		user.Role = req.Role
	}
	if req.Status != "" {
		switch req.Status {
		case models.STATUS_ACTIVE, models.STATUS_INACTIVE, models.STATUS_DISABLED:
			user.Status = req.Status
		default:
			return badRequest(c, "invalid status")
		}
	}
	if req.PositionID != nil {
		if _, err := repos.Position.GetByID(*req.PositionID); err != nil {
			return badRequest(c, "position does not exist")
		}
		user.PositionID = req.PositionID
	}

	if err := repos.User.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not update user",
		})
	}
	return c.JSON(user)
}

// HandleDeleteUser removes a user together with their linked provider
// accounts (admin only).
func HandleDeleteUser(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	if id == usercontext.GetUserID(c) {
		return badRequest(c, "you cannot delete your own account")
	}
	if err := repos.User.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not delete user",
		})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
