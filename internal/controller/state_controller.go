package controller

import (
	"docchat-client/internal/pkg/serverutils"
	"docchat-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStateController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type stateController struct {
	service service.IStateService
}

func NewStateController(service service.IStateService) IStateController {
	return &stateController{service: service}
}

func (c *stateController) RegisterRoutes(r fiber.Router) {
	r.Get("/state", c.Show)
}

func (c *stateController) Show(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get state", c.service.View()))
}
