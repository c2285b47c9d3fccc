package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware logs HTTP requests in a structured format
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		statusCode := c.Response().StatusCode()

		logLevel := slog.LevelInfo
		if statusCode >= 400 && statusCode < 500 {
			logLevel = slog.LevelWarn
		} else if statusCode >= 500 {
			logLevel = slog.LevelError
		}

		logger := slog.With(
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", statusCode),
			slog.Duration("duration", duration),
			slog.String("ip", c.IP()),
			slog.Int("size", len(c.Response().Body())),
		)
		if err != nil {
			logger = logger.With(slog.String("error", err.Error()))
		}

		message := "HTTP request processed"
		if err != nil {
			message = "HTTP request failed"
		}
		logger.Log(c.Context(), logLevel, message)

		return err
	}
}

// CustomErrorHandler converts unhandled errors into the JSON envelope
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return SendError(c, code, "INTERNAL_SERVER_ERROR", err.Error(), nil)
}
