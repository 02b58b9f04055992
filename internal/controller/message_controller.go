package controller

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/pkg/serverutils"
	"docchat-client/internal/service"
	"docchat-client/pkg/citation"

	"github.com/gofiber/fiber/v2"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	Timeline(ctx *fiber.Ctx) error
	Segments(ctx *fiber.Ctx) error
}

type messageController struct {
	service service.IMessageService
}

func NewMessageController(service service.IMessageService) IMessageController {
	return &messageController{service: service}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/messages")
	h.Post("", c.Send)
	h.Get("", c.Timeline)
	h.Get(":id/segments", c.Segments)
}

func (c *messageController) Send(ctx *fiber.Ctx) error {
	var req dto.SendLocalMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.UserContext(), req.Message, service.SendOptions{AttachDocumentIds: req.AttachDocumentIds})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", dto.SendLocalMessageResponse{
		SessionId: res.SessionId,
		Reply:     res.Reply,
		Sources:   res.Sources,
		Stale:     res.Stale,
	}))
}

func (c *messageController) Timeline(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get timeline", c.service.Timeline()))
}

func (c *messageController) Segments(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	segments, err := c.service.Segments(id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve citations", dto.MessageSegmentsView{
		MessageId: id,
		Segments:  segments,
		Text:      citation.PlainText(segments),
	}))
}
