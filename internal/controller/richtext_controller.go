package controller

import (
	"estate-listing-be/internal/dto"
	"estate-listing-be/internal/pkg/serverutils"
	"estate-listing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRichtextController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Render(ctx *fiber.Ctx) error
	Normalize(ctx *fiber.Ctx) error
	ImportMarkdown(ctx *fiber.Ctx) error
	ExportMarkdown(ctx *fiber.Ctx) error
	Toolbar(ctx *fiber.Ctx) error
}

type richtextController struct {
	service service.IDescriptionService
}

func NewRichtextController(service service.IDescriptionService) IRichtextController {
	return &richtextController{service: service}
}

func (c *richtextController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/richtext/v1")
	h.Post("render", c.Render)
	h.Get("toolbar", c.Toolbar)
	h.Post("normalize", auth, c.Normalize)
	h.Post("markdown/import", auth, c.ImportMarkdown)
	h.Post("markdown/export", auth, c.ExportMarkdown)
}

// Render previews a description. Malformed input renders the error notice
// rather than failing the request.
func (c *richtextController) Render(ctx *fiber.Ctx) error {
	var req dto.RenderDescriptionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	locale := req.Locale
	if locale == "" {
		locale = requestLocale(ctx)
	}

	html := c.service.RenderRaw(ctx.UserContext(), req.Description, locale)
	return ctx.JSON(serverutils.SuccessResponse("Success render description", &dto.RenderDescriptionResponse{Html: string(html)}))
}

func (c *richtextController) Normalize(ctx *fiber.Ctx) error {
	var req dto.NormalizeDescriptionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Normalize(ctx.UserContext(), req.Description)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success normalize description", res))
}

func (c *richtextController) ImportMarkdown(ctx *fiber.Ctx) error {
	var req dto.ImportMarkdownRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ImportMarkdown(ctx.UserContext(), req.Markdown)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success import markdown", res))
}

func (c *richtextController) ExportMarkdown(ctx *fiber.Ctx) error {
	var req dto.ExportMarkdownRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ExportMarkdown(ctx.UserContext(), req.Description)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success export markdown", res))
}

func (c *richtextController) Toolbar(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get toolbar", c.service.Toolbar()))
}
