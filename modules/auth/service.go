package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	domain "github.com/example/taskboard/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrNameRequired is returned when first or last name is missing.
	ErrNameRequired = errors.New("first name and last name are required")
	// ErrAccountInactive is returned when the account has been deactivated.
	ErrAccountInactive = errors.New("account is deactivated")
	// ErrInvalidUserID is returned when a user id is not a well-formed uuid.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrAdminRequired is returned when a non-admin calls an admin-only operation.
	ErrAdminRequired = errors.New("admin role required")
	// ErrSelfDeactivation is returned when an admin tries to deactivate their own account.
	ErrSelfDeactivation = errors.New("you cannot deactivate your own account")
)

// Service handles account and user-management business logic.
type Service struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewService creates a new Service.
func NewService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new user account with the default user role.
func (s *Service) Register(_ context.Context, firstName, lastName, email, password string) (*domain.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrNameRequired
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	// bcrypt has a 72-byte input limit
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns tokens. Deactivated accounts cannot
// log in.
func (s *Service) Login(_ context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.generateTokenPair(user.ID, user.Email)
}

// RefreshTokens generates new access and refresh tokens.
func (s *Service) RefreshTokens(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.generateTokenPair(user.ID, user.Email)
}

// ValidateToken verifies an access token and resolves the current actor. Role
// and active status come from the database, not the token, so a deactivation
// or role change takes effect on the next request.
func (s *Service) ValidateToken(_ context.Context, token string) (*domain.Actor, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return &domain.Actor{
		ID:       user.ID,
		Role:     user.Role,
		IsActive: user.IsActive,
	}, nil
}

// GetSummary returns the denormalized summary for a user id.
func (s *Service) GetSummary(_ context.Context, userID string) (*domain.Summary, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// GetSummaries resolves summaries for a batch of user ids in one query.
// Unknown ids are omitted from the result.
func (s *Service) GetSummaries(_ context.Context, userIDs []string) (map[string]domain.Summary, error) {
	users, err := s.repo.FindByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	summaries := make(map[string]domain.Summary, len(users))
	for id, u := range users {
		summaries[id] = u.Summary()
	}
	return summaries, nil
}

// ListUsers returns user summaries, sorted by name. Any active user may call
// it (the list feeds the task assignment dropdown). active filters on the
// flag; when nil only active users are returned.
func (s *Service) ListUsers(_ context.Context, active *bool) ([]*domain.User, error) {
	if active == nil {
		defaultActive := true
		active = &defaultActive
	}
	return s.repo.List(active)
}

// GetUserDetail returns the full user record. Admin only.
func (s *Service) GetUserDetail(_ context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminRequired
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}
	return s.repo.FindByID(userID)
}

// SetUserActive activates or deactivates a user account. Admin only, and an
// admin may not deactivate their own account.
func (s *Service) SetUserActive(_ context.Context, actor domain.Actor, userID string, active bool) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminRequired
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user.ID == actor.ID && !active {
		return nil, ErrSelfDeactivation
	}

	if user.IsActive != active {
		if err := s.repo.SetActive(user.ID, active); err != nil {
			return nil, fmt.Errorf("failed to update user status: %w", err)
		}
		user.IsActive = active
	}

	return user, nil
}

func (s *Service) generateTokenPair(userID, email string) (*domain.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}
