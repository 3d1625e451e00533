package auth

import (
	"time"

	domain "github.com/example/taskboard/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents a response carrying a token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response carrying the
// resolved actor on success.
type ValidateTokenResponse struct {
	Valid bool          `json:"valid"`
	Actor *domain.Actor `json:"actor,omitempty"`
	Error string        `json:"error,omitempty"`
}

// GetUserRequest represents a request for a single user summary.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse represents a single user summary response.
type GetUserResponse struct {
	User domain.Summary `json:"user"`
}

// GetUsersRequest represents a batch user summary request.
type GetUsersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// GetUsersResponse maps each found user id to its summary. Unknown ids are
// absent rather than an error, so callers can enrich partial data.
type GetUsersResponse struct {
	Users map[string]domain.Summary `json:"users"`
}

// ListUsersRequest represents a user listing request. Actor is the requesting
// user; Active filters on the is_active flag and defaults to active-only.
type ListUsersRequest struct {
	Actor  domain.Actor `json:"actor"`
	Active *bool        `json:"active,omitempty"`
}

// UserRecord is the full user shape returned to administrators.
type UserRecord struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListUsersResponse represents a user listing response.
type ListUsersResponse struct {
	Users []UserRecord `json:"users"`
}

// GetUserDetailRequest represents an admin request for a full user record.
type GetUserDetailRequest struct {
	Actor  domain.Actor `json:"actor"`
	UserID string       `json:"user_id"`
}

// GetUserDetailResponse represents a full user record response.
type GetUserDetailResponse struct {
	User UserRecord `json:"user"`
}

// SetUserActiveRequest represents an admin activate/deactivate request.
type SetUserActiveRequest struct {
	Actor    domain.Actor `json:"actor"`
	UserID   string       `json:"user_id"`
	IsActive bool         `json:"is_active"`
}

// SetUserActiveResponse represents the updated user after a status change.
type SetUserActiveResponse struct {
	User UserRecord `json:"user"`
}

func toUserRecord(u *domain.User) UserRecord {
	return UserRecord{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
