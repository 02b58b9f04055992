package controller

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/pkg/serverutils"
	"docchat-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFilterController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Input(ctx *fiber.Ctx) error
	Down(ctx *fiber.Ctx) error
	Up(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	ClearLock(ctx *fiber.Ctx) error
}

type filterController struct {
	service service.IFilterService
}

func NewFilterController(service service.IFilterService) IFilterController {
	return &filterController{service: service}
}

func (c *filterController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/filter")
	h.Get("", c.Show)
	h.Put("input", c.Input)
	h.Post("down", c.Down)
	h.Post("up", c.Up)
	h.Post("confirm", c.Confirm)
	h.Post("cancel", c.Cancel)
	h.Delete("", c.ClearLock)
}

func (c *filterController) Show(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get filter", c.service.View()))
}

func (c *filterController) Input(ctx *fiber.Ctx) error {
	var req dto.FilterInputRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update filter", c.service.Input(req.Text)))
}

func (c *filterController) Down(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success move selection", c.service.Down()))
}

func (c *filterController) Up(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success move selection", c.service.Up()))
}

func (c *filterController) Confirm(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success confirm filter", c.service.Confirm()))
}

func (c *filterController) Cancel(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success cancel filter", c.service.Cancel()))
}

func (c *filterController) ClearLock(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success clear filter", c.service.ClearLock()))
}
