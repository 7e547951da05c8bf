package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/flowdeck/flowdeck/pkg/supabase"
	"github.com/flowdeck/flowdeck/pkg/workflows"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func unauthorized(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(401).
		WithInstance(c.Path()).
		WithType("unauthorized").
		WithDetail(detail)

	return c.Status(fiber.StatusUnauthorized).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleAccessorError provides typed error handling for workflow collection
// errors.
func handleAccessorError(c fiber.Ctx, err error) error {
	var serviceErr *supabase.ServiceError

	switch {
	case errors.Is(err, workflows.ErrNotAuthenticated):
		return unauthorized(c, "Sign in required")

	case errors.Is(err, workflows.ErrEmptyPatch):
		return badRequest(c, "No fields to update")

	case supabase.IsNotFound(err):
		return notFound(c, "Workflow not found")

	case errors.As(err, &serviceErr) && serviceErr.Status >= 400 && serviceErr.Status < 500:
		return badRequest(c, serviceErr.Message)

	default:
		return internalError(c, err)
	}
}
