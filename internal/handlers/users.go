package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUser handles POST /users.
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, err := h.users.CreateUser(c.UserContext(), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetLiability handles GET /users/:userId/liability.
func (h *Handlers) GetLiability(c *fiber.Ctx) error {
	summary, err := h.expenses.GetLiability(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
