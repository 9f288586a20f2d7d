// Package handlers exposes the REST surface over Fiber and translates
// service errors into HTTP statuses.
package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/service"
	"github.com/divvyhq/divvy/internal/storage"
)

// Handlers bundles the route handlers and their services.
type Handlers struct {
	expenses *service.ExpenseService
	users    *service.UserService
	groups   *service.GroupService
}

// New creates the handler set.
func New(expenses *service.ExpenseService, users *service.UserService, groups *service.GroupService) *Handlers {
	return &Handlers{expenses: expenses, users: users, groups: groups}
}

// Register mounts all routes on the app.
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	users := app.Group("/users")
	users.Post("/", h.CreateUser)
	users.Get("/:userId/liability", h.GetLiability)

	groups := app.Group("/groups")
	groups.Post("/create", h.CreateGroup)
	groups.Post("/:groupId/members/add", h.AddMembers)
	groups.Post("/:groupId/members/remove", h.RemoveMembers)
	groups.Get("/:groupId", h.GetGroup)

	expenses := app.Group("/expenses")
	expenses.Post("/add", h.AddExpense)
	expenses.Get("/:groupId", h.ListExpenses)
}

// ErrorHandler maps sentinel errors to HTTP statuses and renders every
// error as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, ledger.ErrInvalidSplit),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnknownUser),
		errors.Is(err, service.ErrNotMember),
		errors.Is(err, storage.ErrDuplicate):
		code = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, ledger.ErrNoBalances):
		code = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, ledger.ErrUpdateFailed),
		errors.Is(err, ledger.ErrStoreUnavailable):
		code = fiber.StatusServiceUnavailable
		message = err.Error()
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

// RequestLogger logs every request with its duration.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		slog.Info("request completed",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}
