package rest

import (
	"github.com/hackatransparency/alfred-vision/config"
	"github.com/hackatransparency/alfred-vision/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Health struct{}

func InitRestHealth(app fiber.Router) Health {
	handler := Health{}
	app.Get("/health", handler.GetStatus)

	return handler
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Service healthy",
		Results: map[string]any{
			"version":  config.AppVersion,
			"provider": config.VisionProvider,
		},
	})
}
