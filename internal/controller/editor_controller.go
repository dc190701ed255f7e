package controller

import (
	"encoding/json"

	"site-content-be/internal/dto"
	"site-content-be/internal/pkg/logger"
	"site-content-be/internal/pkg/serverutils"
	"site-content-be/internal/service"
	internalWS "site-content-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IEditorController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SetSelection(ctx *fiber.Ctx) error
	Execute(ctx *fiber.Ctx) error
	Undo(ctx *fiber.Ctx) error
	Redo(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
}

type editorController struct {
	service   service.IEditorService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewEditorController(service service.IEditorService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) IEditorController {
	return &editorController{service: service, hub: hub, jwtSecret: jwtSecret, logger: log}
}

func (c *editorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/editor/v1/sessions")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("", c.Open)
	h.Get(":id", c.Show)
	h.Put(":id/selection", c.SetSelection)
	h.Post(":id/commands", c.Execute)
	h.Post(":id/undo", c.Undo)
	h.Post(":id/redo", c.Redo)
	h.Delete(":id", c.Close)
	h.Get(":id/preview", c.Preview)
}

func (c *editorController) Open(ctx *fiber.Ctx) error {
	var req dto.OpenSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Open(ctx.Context(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success open editor session", res))
}

func (c *editorController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get editor session", res))
}

func (c *editorController) SetSelection(ctx *fiber.Ctx) error {
	var req dto.SetSelectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.service.SetSelection(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set selection", res))
}

func (c *editorController) Execute(ctx *fiber.Ctx) error {
	var req dto.CommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Execute(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success execute command", res))
}

func (c *editorController) Undo(ctx *fiber.Ctx) error {
	res, err := c.service.Undo(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success undo", res))
}

func (c *editorController) Redo(ctx *fiber.Ctx) error {
	res, err := c.service.Redo(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success redo", res))
}

func (c *editorController) Close(ctx *fiber.Ctx) error {
	if err := c.service.Close(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success close editor session", nil))
}

// Preview upgrades to a websocket that receives the rendered document after
// every change. The session is checked before the upgrade so a bad id gets a
// plain 404.
func (c *editorController) Preview(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	userID := serverutils.UserID(ctx)
	sessionID := ctx.Params("id")

	initial, err := c.service.Preview(ctx.Context(), userID, sessionID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(initial)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("EditorController", "Preview watcher connected", map[string]interface{}{"session_id": sessionID, "user_id": userID})
		internalWS.ServeWs(c.hub, conn, sessionID, userID, payload)
		c.logger.Info("EditorController", "Preview watcher disconnected", map[string]interface{}{"session_id": sessionID})
	})(ctx)
}
