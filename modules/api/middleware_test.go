package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	domain "github.com/example/taskboard/domain/user"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserPort validates exactly one token and fails everything else.
type fakeUserPort struct {
	validToken string
	actor      *domain.Actor
	err        error
}

func (f *fakeUserPort) ValidateToken(_ context.Context, token string) (*domain.Actor, error) {
	if f.err != nil {
		return nil, f.err
	}
	if token == f.validToken {
		return f.actor, nil
	}
	return nil, errors.New("token validation failed: invalid token")
}

func (f *fakeUserPort) GetUser(_ context.Context, _ string) (*domain.Summary, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserPort) GetUsers(_ context.Context, _ []string) (map[string]domain.Summary, error) {
	return nil, errors.New("not implemented")
}

func newProtectedApp(users *fakeUserPort) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(users))
	app.Get("/protected", func(c *fiber.Ctx) error {
		actor, ok := currentActor(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"actorId": actor.ID, "role": actor.Role})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	actor := &domain.Actor{ID: "user-1", Role: domain.RoleUser, IsActive: true}

	t.Run("missing header", func(t *testing.T) {
		app := newProtectedApp(&fakeUserPort{validToken: "good", actor: actor})

		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		app := newProtectedApp(&fakeUserPort{validToken: "good", actor: actor})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		app := newProtectedApp(&fakeUserPort{validToken: "good", actor: actor})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deactivated account gets a specific message", func(t *testing.T) {
		app := newProtectedApp(&fakeUserPort{
			err: errors.New("token validation failed: account is deactivated"),
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer any")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var er ErrorResponse
		require.NoError(t, json.Unmarshal(body, &er))
		assert.Equal(t, "Account is deactivated", er.Message)
	})

	t.Run("valid token resolves the actor", func(t *testing.T) {
		app := newProtectedApp(&fakeUserPort{validToken: "good", actor: actor})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "user-1", payload["actorId"])
	})
}
