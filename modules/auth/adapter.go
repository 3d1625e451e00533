package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskboard/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// UserPort is the interface other modules use to resolve users. The task
// module depends on it for assignee checks and response enrichment; the api
// module uses it to authenticate requests.
type UserPort interface {
	ValidateToken(ctx context.Context, token string) (*domain.Actor, error)
	GetUser(ctx context.Context, userID string) (*domain.Summary, error)
	GetUsers(ctx context.Context, userIDs []string) (map[string]domain.Summary, error)
}

// Adapter implements UserPort against the auth module's service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{
		container: container,
	}
}

// ValidateToken validates an access token and returns the resolved actor.
func (a *Adapter) ValidateToken(ctx context.Context, token string) (*domain.Actor, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid || resp.Actor == nil {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}

	return resp.Actor, nil
}

// GetUser retrieves a user summary by ID.
func (a *Adapter) GetUser(ctx context.Context, userID string) (*domain.Summary, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &resp.User, nil
}

// GetUsers retrieves summaries for a batch of user ids. Unknown ids are
// omitted from the result.
func (a *Adapter) GetUsers(ctx context.Context, userIDs []string) (map[string]domain.Summary, error) {
	req := GetUsersRequest{UserIDs: userIDs}
	var resp GetUsersResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-users",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-users request failed: %w", err)
	}

	return resp.Users, nil
}
