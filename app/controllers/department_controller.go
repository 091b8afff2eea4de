package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/app/models"
	"github.com/TeamFoxHQ/TeamFox/app/repository"
)

type departmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

// HandleListDepartments returns all departments.
func HandleListDepartments(c *fiber.Ctx) error {
	departments, err := repos.Department.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load departments",
		})
	}
	return c.JSON(fiber.Map{"departments": departments})
}

// HandleGetDepartment returns one department with its positions.
func HandleGetDepartment(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid department id")
	}
	department, err := repos.Department.GetByID(id)
	if err != nil {
		return notFoundJSON(c)
	}
	return c.JSON(department)
}

// HandleCreateDepartment creates a department (admin only, guarded in router).
func HandleCreateDepartment(c *fiber.Ctx) error {
	var req departmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	department := &models.Department{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := department.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repos.Department.Create(department); err != nil {
		if errors.Is(err, repository.ErrDepartmentCycle) {
			return badRequest(c, "department cannot be its own ancestor")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not create department",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(department)
}

// HandleUpdateDepartment updates a department.
func HandleUpdateDepartment(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid department id")
	}
	department, err := repos.Department.GetByID(id)
	if err != nil {
		return notFoundJSON(c)
	}

	var req departmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	department.Name = req.Name
	department.Description = req.Description
	department.ParentID = req.ParentID

	if err := department.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repos.Department.Update(department); err != nil {
		if errors.Is(err, repository.ErrDepartmentCycle) {
			return badRequest(c, "department cannot be its own ancestor")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not update department",
		})
	}
	return c.JSON(department)
}

// HandleDeleteDepartment removes a department; child departments move to the
// root level.
func HandleDeleteDepartment(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid department id")
	}
	if err := repos.Department.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not delete department",
		})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
