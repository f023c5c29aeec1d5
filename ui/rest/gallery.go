package rest

import (
	domainGallery "github.com/hackatransparency/alfred-vision/domains/gallery"
	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	"github.com/hackatransparency/alfred-vision/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Gallery struct {
	Service domainGallery.IGalleryUsecase
}

func InitRestGallery(app fiber.Router, service domainGallery.IGalleryUsecase) Gallery {
	rest := Gallery{Service: service}
	app.Get("/gallery/images", rest.Images)
	app.Get("/gallery/status", rest.Status)
	app.Post("/gallery/analyze", rest.Analyze)
	app.Post("/gallery/language", rest.SwitchLanguage)

	return rest
}

type analyzeRequest struct {
	Image string `json:"image"`
	Lang  string `json:"lang"`
}

func (handler *Gallery) Images(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Gallery manifest retrieved",
		Results: map[string]any{
			"images": handler.Service.Images(),
		},
	})
}

func (handler *Gallery) Status(c *fiber.Ctx) error {
	outcome, err := handler.Service.Status(c.Query("image"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Analysis status retrieved",
		Results: outcome,
	})
}

func (handler *Gallery) Analyze(c *fiber.Ctx) error {
	var body analyzeRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	outcome, err := handler.Service.Analyze(c.UserContext(), body.Image, domainInsight.Language(body.Lang))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Analysis completed",
		Results: outcome,
	})
}

func (handler *Gallery) SwitchLanguage(c *fiber.Ctx) error {
	var body analyzeRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	outcome, err := handler.Service.SwitchLanguage(c.UserContext(), body.Image, domainInsight.Language(body.Lang))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Language switched",
		Results: outcome,
	})
}
