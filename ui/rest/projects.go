package rest

import (
	domainProject "github.com/hackatransparency/alfred-vision/domains/project"
	"github.com/hackatransparency/alfred-vision/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Projects struct {
	Service domainProject.IProjectUsecase
}

func InitRestProjects(app fiber.Router, service domainProject.IProjectUsecase) Projects {
	rest := Projects{Service: service}
	app.Get("/projects", rest.List)

	return rest
}

func (handler *Projects) List(c *fiber.Ctx) error {
	var query domainProject.Query
	if err := c.QueryParser(&query); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	records, err := handler.Service.Fetch(c.UserContext(), query)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Projects retrieved",
		Results: records,
	})
}
