package shared

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrorHandler renders AppErrors with their own status and hides everything
// else behind a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := GetAppError(err); ok {
		return ResponseError(c, appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithFields(log.Fields{
		"path":   c.Path(),
		"method": c.Method(),
		"error":  err.Error(),
	}).Error("Unhandled request error")
	return ResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
}
