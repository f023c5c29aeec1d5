package rest

import (
	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	"github.com/hackatransparency/alfred-vision/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Cache struct {
	Service domainInsight.ICacheUsecase
}

func InitRestCache(app fiber.Router, service domainInsight.ICacheUsecase) Cache {
	rest := Cache{Service: service}
	app.Get("/cache/stats", rest.GetStats)
	app.Post("/cache/clear", rest.ClearCache)

	return rest
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	stats, err := handler.Service.Stats(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: stats,
	})
}

func (handler *Cache) ClearCache(c *fiber.Ctx) error {
	cleared, err := handler.Service.Clear(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache cleared successfully",
		Results: map[string]any{
			"cleared": cleared,
		},
	})
}
