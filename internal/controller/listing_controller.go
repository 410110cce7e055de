package controller

import (
	"estate-listing-be/internal/dto"
	"estate-listing-be/internal/pkg/serverutils"
	"estate-listing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IListingController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type listingController struct {
	service service.IListingService
}

func NewListingController(service service.IListingService) IListingController {
	return &listingController{service: service}
}

func (c *listingController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/listing/v1")
	h.Use(auth)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *listingController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.ListListingRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), userId, &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list listing", res))
}

func (c *listingController) Create(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateListingRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create listing", res))
}

func (c *listingController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show listing", res))
}

func (c *listingController) Update(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateListingRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), userId, &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update listing", res))
}

func (c *listingController) Delete(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), userId, id); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete listing", nil))
}
