package controller

import (
	"site-content-be/internal/dto"
	"site-content-be/internal/pkg/serverutils"
	"site-content-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFontController interface {
	RegisterRoutes(r fiber.Router)
	Stylesheet(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type fontController struct {
	service   service.IFontService
	jwtSecret string
}

func NewFontController(service service.IFontService, jwtSecret string) IFontController {
	return &fontController{service: service, jwtSecret: jwtSecret}
}

func (c *fontController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware(c.jwtSecret)

	h := r.Group("/fonts/v1")
	h.Get("stylesheet.css", c.Stylesheet)
	h.Get("", auth, c.GetAll)
	h.Post("", auth, c.Create)
	h.Delete(":id", auth, c.Delete)
}

// Stylesheet serves the injected @font-face rules. When the registry is
// unreachable an empty stylesheet is served and the page uses fallback fonts.
func (c *fontController) Stylesheet(ctx *fiber.Ctx) error {
	css, err := c.service.Stylesheet(ctx.Context())
	if err != nil {
		css = ""
	}

	ctx.Set(fiber.HeaderContentType, "text/css; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	return ctx.SendString(css)
}

func (c *fontController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all fonts", res))
}

func (c *fontController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateFontRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create font", res))
}

func (c *fontController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid font id")
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete font", nil))
}
