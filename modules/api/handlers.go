package api

import (
	"encoding/json"
	"strconv"

	"github.com/example/taskboard/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	taskContainer mono.ServiceContainer
	users         auth.UserPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, taskContainer mono.ServiceContainer, users auth.UserPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		taskContainer: taskContainer,
		users:         users,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "register",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{Email: req.Email, Password: req.Password}
	var resp auth.TokenResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "login",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{RefreshToken: req.RefreshToken}
	var resp auth.TokenResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "refresh-token",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ListUsers returns user summaries for the task assignment dropdown. Any
// active user may call it; the active query filter defaults to active-only.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	var active *bool
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Active must be a boolean")
		}
		active = &parsed
	}

	authReq := auth.ListUsersRequest{Actor: actor, Active: active}
	var resp auth.ListUsersResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "list-users",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetUser returns a full user record. Admin only.
func (h *Handlers) GetUser(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	authReq := auth.GetUserDetailRequest{Actor: actor, UserID: c.Params("id")}
	var resp auth.GetUserDetailResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "get-user-detail",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// SetUserActive activates or deactivates a user account. Admin only, and
// self-deactivation is rejected.
func (h *Handlers) SetUserActive(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	var body SetUserActiveBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.IsActive == nil {
		return badRequest(c, "isActive must be a boolean")
	}

	authReq := auth.SetUserActiveRequest{
		Actor:    actor,
		UserID:   c.Params("id"),
		IsActive: *body.IsActive,
	}
	var resp auth.SetUserActiveResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "set-user-active",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}
