package handlers

import (
	"errors"

	"inkwell/middleware"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders the site error pages for errors escaping handlers.
// Handlers signal outcomes with fiber.ErrNotFound / fiber.ErrForbidden;
// anything else is treated as a server error and logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	var page string
	switch code {
	case fiber.StatusNotFound:
		page = "errors/404"
	case fiber.StatusForbidden:
		page = "errors/403"
	default:
		if code >= fiber.StatusInternalServerError {
			middleware.Logger.Error("request error",
				"path", c.Path(), "status", code, "err", err.Error())
			page = "errors/500"
		} else {
			return c.Status(code).SendString(err.Error())
		}
	}

	if rErr := c.Status(code).Render(page, fiber.Map{}); rErr != nil {
		return c.SendString(err.Error())
	}
	return nil
}
