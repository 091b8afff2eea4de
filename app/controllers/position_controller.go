package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

type positionRequest struct {
	Title        string `json:"title"`
	DepartmentID uint   `json:"department_id"`
	Rank         int    `json:"rank"`
}

// HandleListPositions returns all positions, optionally filtered by department.
func HandleListPositions(c *fiber.Ctx) error {
	if dept := c.Query("department_id"); dept != "" {
		id, err := paramQueryUint(dept)
		if err != nil {
			return badRequest(c, "invalid department_id")
		}
		positions, err := repos.Position.GetByDepartment(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "could not load positions",
			})
		}
		return c.JSON(fiber.Map{"positions": positions})
	}

	positions, err := repos.Position.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load positions",
		})
	}
	return c.JSON(fiber.Map{"positions": positions})
}

// HandleGetPosition returns a single position.
func HandleGetPosition(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid position id")
	}
	position, err := repos.Position.GetByID(id)
	if err != nil {
		return notFoundJSON(c)
	}
	return c.JSON(position)
}

// HandleCreatePosition creates a position inside a department.
func HandleCreatePosition(c *fiber.Ctx) error {
	var req positionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if _, err := repos.Department.GetByID(req.DepartmentID); err != nil {
		return badRequest(c, "department does not exist")
	}

	position := &models.Position{
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
		Rank:         req.Rank,
	}
	if err := position.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repos.Position.Create(position); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not create position",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(position)
}

// HandleUpdatePosition updates a position.
func HandleUpdatePosition(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid position id")
	}
	position, err := repos.Position.GetByID(id)
	if err != nil {
		return notFoundJSON(c)
	}

	var req positionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.DepartmentID != position.DepartmentID {
		if _, err := repos.Department.GetByID(req.DepartmentID); err != nil {
			return badRequest(c, "department does not exist")
		}
	}
	position.Title = req.Title
	position.DepartmentID = req.DepartmentID
	position.Rank = req.Rank

	if err := position.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repos.Position.Update(position); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not update position",
		})
	}
	return c.JSON(position)
}

// HandleDeletePosition removes a position. Users holding it keep working but
// lose the assignment.
func HandleDeletePosition(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid position id")
	}
	if err := repos.Position.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not delete position",
		})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
