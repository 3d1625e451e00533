package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const validationPrefix = "validation failed: "

// mapServiceError translates an error that crossed the service boundary into
// an HTTP response. Errors lose their concrete type in transit, so matching
// happens on the well-known sentinel messages; anything unrecognized is
// logged and reported as a generic internal error.
func mapServiceError(c *fiber.Ctx, err error) error {
	msg := err.Error()

	if idx := strings.Index(msg, validationPrefix); idx >= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Validation failed",
			Details: parseValidationDetails(msg[idx+len(validationPrefix):]),
		})
	}

	switch {
	case strings.Contains(msg, "invalid task id"), strings.Contains(msg, "invalid user id"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid id",
		})
	case strings.Contains(msg, "assigned user not found"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Assigned user not found",
		})
	case strings.Contains(msg, "you cannot deactivate your own account"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "self_deactivation",
			Message: "You cannot deactivate your own account",
		})
	case strings.Contains(msg, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(msg, "user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "User not found",
		})
	case strings.Contains(msg, "access denied"), strings.Contains(msg, "admin role required"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Access denied",
		})
	case strings.Contains(msg, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(msg, "account is deactivated"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Account is deactivated",
		})
	case strings.Contains(msg, "user with this email already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(msg, "invalid email format"),
		strings.Contains(msg, "password must be at least"),
		strings.Contains(msg, "password must be at most"),
		strings.Contains(msg, "first name and last name are required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: capitalize(trimServiceNoise(msg)),
		})
	default:
		// Log the actual error but do not leak internals to the client.
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// parseValidationDetails rebuilds field-level detail from the flattened
// "field: message; field: message" form the error traveled in.
func parseValidationDetails(detail string) []FieldDetail {
	parts := strings.Split(detail, "; ")
	details := make([]FieldDetail, 0, len(parts))
	for _, part := range parts {
		field, message, found := strings.Cut(part, ": ")
		if !found {
			details = append(details, FieldDetail{Message: part})
			continue
		}
		details = append(details, FieldDetail{Field: field, Message: message})
	}
	return details
}

// trimServiceNoise strips transport wrapping so only the sentinel message
// reaches the client.
func trimServiceNoise(msg string) string {
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		tail := msg[idx+2:]
		if tail != "" {
			return tail
		}
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
