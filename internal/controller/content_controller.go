package controller

import (
	"site-content-be/internal/dto"
	"site-content-be/internal/pkg/serverutils"
	"site-content-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContentController interface {
	RegisterRoutes(r fiber.Router)
	Render(ctx *fiber.Ctx) error
	Markdown(ctx *fiber.Ctx) error
	Raw(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type contentController struct {
	service   service.IContentService
	jwtSecret string
}

func NewContentController(service service.IContentService, jwtSecret string) IContentController {
	return &contentController{service: service, jwtSecret: jwtSecret}
}

func (c *contentController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware(c.jwtSecret)

	h := r.Group("/content/v1")
	h.Get("", c.List)
	h.Get(":slug", c.Render)
	h.Get(":slug/markdown", c.Markdown)
	h.Get(":slug/raw", auth, c.Raw)
	h.Put(":slug", auth, c.Save)
}

func (c *contentController) Render(ctx *fiber.Ctx) error {
	res, err := c.service.Render(ctx.Context(), ctx.Params("slug"), ctx.Query("locale"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success render content", res))
}

func (c *contentController) Markdown(ctx *fiber.Ctx) error {
	res, err := c.service.Markdown(ctx.Context(), ctx.Params("slug"), ctx.Query("locale"))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return ctx.SendString(res)
}

func (c *contentController) Raw(ctx *fiber.Ctx) error {
	res, err := c.service.Raw(ctx.Context(), ctx.Params("slug"), ctx.Query("locale"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get raw content", res))
}

func (c *contentController) Save(ctx *fiber.Ctx) error {
	var req dto.SaveContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Slug = ctx.Params("slug")
	req.Locale = ctx.Query("locale")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Save(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save content", res))
}

func (c *contentController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context(), ctx.Query("locale"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all content", res))
}
