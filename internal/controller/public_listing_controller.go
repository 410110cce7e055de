package controller

import (
	"estate-listing-be/internal/pkg/serverutils"
	"estate-listing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPublicListingController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type publicListingController struct {
	service service.IListingService
}

func NewPublicListingController(service service.IListingService) IPublicListingController {
	return &publicListingController{service: service}
}

func (c *publicListingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/public/listing/v1")
	h.Get(":id", c.Show)
}

// Show serves a published listing with its description rendered. The
// locale comes from ?locale= or Accept-Language.
func (c *publicListingController) Show(ctx *fiber.Ctx) error {
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ShowPublic(ctx.UserContext(), id, requestLocale(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show listing", res))
}

func requestLocale(ctx *fiber.Ctx) string {
	if locale := ctx.Query("locale"); locale != "" {
		return locale
	}
	return ctx.AcceptsLanguages("id", "en")
}
