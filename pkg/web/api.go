package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/flowdeck/flowdeck/pkg/workflows"
)

func (s *Server) accessorFor(c fiber.Ctx) *workflows.Accessor {
	ident := identityFrom(c)

	return workflows.NewAccessorForToken(s.client, ident.Token, ident.UserID, s.logger)
}

func (s *Server) ListWorkflowsAPI(c fiber.Ctx) error {
	accessor := s.accessorFor(c)

	if err := accessor.Fetch(c.Context()); err != nil {
		return handleAccessorError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":    accessor.Workflows(),
		"active_count": accessor.ActiveCount(),
	})
}

func (s *Server) CreateWorkflowAPI(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := s.accessorFor(c).Create(c.Context(), req.Name, req.Description)
	if err != nil {
		return handleAccessorError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) UpdateWorkflowAPI(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	patch := workflows.Patch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Config:      req.Config,
	}

	updated, err := s.accessorFor(c).Update(c.Context(), id, patch)
	if err != nil {
		return handleAccessorError(c, err)
	}

	return c.JSON(updated)
}

func (s *Server) DeleteWorkflowAPI(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := s.accessorFor(c).Delete(c.Context(), id); err != nil {
		return handleAccessorError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
