package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type createGroupRequest struct {
	GroupID   string   `json:"groupId"`
	GroupName string   `json:"groupName"`
	Members   []string `json:"members"`
}

type membersRequest struct {
	Members []string `json:"members"`
}

// CreateGroup handles POST /groups/create.
func (h *Handlers) CreateGroup(c *fiber.Ctx) error {
	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	group, err := h.groups.CreateGroup(c.UserContext(), req.GroupID, req.GroupName, req.Members)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetGroup handles GET /groups/:groupId.
func (h *Handlers) GetGroup(c *fiber.Ctx) error {
	group, err := h.groups.GetGroup(c.UserContext(), c.Params("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(group)
}

// AddMembers handles POST /groups/:groupId/members/add.
func (h *Handlers) AddMembers(c *fiber.Ctx) error {
	var req membersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := h.groups.AddMembers(c.UserContext(), c.Params("groupId"), req.Members); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "members added"})
}

// RemoveMembers handles POST /groups/:groupId/members/remove.
func (h *Handlers) RemoveMembers(c *fiber.Ctx) error {
	var req membersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := h.groups.RemoveMembers(c.UserContext(), c.Params("groupId"), req.Members); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "members removed"})
}
