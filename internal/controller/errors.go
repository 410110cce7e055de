package controller

import (
	"errors"

	"estate-listing-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// httpError maps service errors onto fiber errors for the error middleware.
func httpError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrListingNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Listing not found")
	case errors.Is(err, service.ErrInvalidDescription):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidMarkdown):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user")
	}
	return id, nil
}

func paramId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}
