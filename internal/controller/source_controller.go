package controller

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/pkg/serverutils"
	"docchat-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	SetActive(ctx *fiber.Ctx) error
	ClearActive(ctx *fiber.Ctx) error
	ChunkDetail(ctx *fiber.Ctx) error
}

type sourceController struct {
	service service.ISourceService
}

func NewSourceController(service service.ISourceService) ISourceController {
	return &sourceController{service: service}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sources")
	h.Get("", c.GetAll)
	h.Put("active", c.SetActive)
	h.Delete("active", c.ClearActive)

	r.Get("/chunks/:id", c.ChunkDetail)
}

func (c *sourceController) GetAll(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get sources", c.service.Sources()))
}

// SetActive answers 200 even when the chunk is not part of the current
// answer; the active source is then left unchanged.
func (c *sourceController) SetActive(ctx *fiber.Ctx) error {
	var req dto.SetActiveSourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if !c.service.SetActiveById(req.ChunkId, req.HighlightedText) {
		return ctx.JSON(serverutils.SuccessResponse("Source is not part of the current answer", c.service.Active()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set active source", c.service.Active()))
}

func (c *sourceController) ClearActive(ctx *fiber.Ctx) error {
	c.service.Clear()
	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear active source", nil))
}

func (c *sourceController) ChunkDetail(ctx *fiber.Ctx) error {
	res, err := c.service.ChunkDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chunk", res))
}
