package controller

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/pkg/serverutils"
	"docchat-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	AttachDocument(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Put("current", c.Select)
	h.Delete(":id", c.Delete)
	h.Post(":id/documents/:docId", c.AttachDocument)
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	if ctx.QueryBool("refresh") {
		return ctx.JSON(serverutils.SuccessResponse("Success refresh sessions", c.service.List(ctx.UserContext())))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", c.service.Sessions()))
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateLocalSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), req.Title, req.DocumentIds)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Select(ctx *fiber.Ctx) error {
	var req dto.SelectSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Select(ctx.UserContext(), req.SessionId); err != nil {
		return err
	}

	if req.SessionId == "" {
		return ctx.JSON(serverutils.SuccessResponse[any]("Success start new chat", nil))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success select session", nil))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) AttachDocument(ctx *fiber.Ctx) error {
	res, err := c.service.AttachDocument(ctx.UserContext(), ctx.Params("id"), ctx.Params("docId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success attach document", res))
}
