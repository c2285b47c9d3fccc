package api

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError represents an API error response
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(http.StatusOK).JSON(&APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(http.StatusCreated).JSON(&APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	return c.Status(statusCode).JSON(&APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	})
}

// SendBadRequest sends a bad request error response
func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

// SendForbidden sends a forbidden error response
func SendForbidden(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusForbidden, "FORBIDDEN", message, details)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// SendConflict sends a conflict error response
func SendConflict(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusConflict, "CONFLICT", message, details)
}

// SendTooManyRequests sends a rate limited error response
func SendTooManyRequests(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusTooManyRequests, "RATE_LIMITED", message, details)
}

// SendInternalServerError sends an internal server error response
func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}
