package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
)

type addExpenseRequest struct {
	GroupID string         `json:"groupId"`
	Expense models.Expense `json:"expense"`
}

type appliedDelta struct {
	Debtor   string          `json:"debtor"`
	Creditor string          `json:"creditor"`
	Amount   decimal.Decimal `json:"amount"`
}

// AddExpense handles POST /expenses/add.
func (h *Handlers) AddExpense(c *fiber.Ctx) error {
	var req addExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	deltas, err := h.expenses.SubmitExpense(c.UserContext(), req.GroupID, req.Expense)
	if err != nil {
		return err
	}

	applied := make([]appliedDelta, len(deltas))
	for i, d := range deltas {
		applied[i] = appliedDelta(d)
	}
	return c.JSON(fiber.Map{"appliedDeltas": applied})
}

// ListExpenses handles GET /expenses/:groupId.
func (h *Handlers) ListExpenses(c *fiber.Ctx) error {
	expenses, err := h.expenses.ListGroupExpenses(c.UserContext(), c.Params("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(expenses)
}
