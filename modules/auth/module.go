package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domainuser "github.com/example/taskboard/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module owns the users table and provides account and user-management
// services to the rest of the application.
type Module struct {
	db      *gorm.DB
	service *Service
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new auth Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASKBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "taskboard.db"
	}
	return &Module{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// Start opens the database, migrates the user schema and wires the service.
func (m *Module) Start(_ context.Context) error {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domainuser.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(loadJWTConfig())

	m.service = NewService(repo, hasher, jwtManager)

	if err := m.bootstrapAdmin(repo, hasher); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"register": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		},
		"login": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"refresh-token": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh)
		},
		"validate-token": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken)
		},
		"get-user": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		},
		"get-users": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-users", json.Unmarshal, json.Marshal, m.handleGetUsers)
		},
		"list-users": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-users", json.Unmarshal, json.Marshal, m.handleListUsers)
		},
		"get-user-detail": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-user-detail", json.Unmarshal, json.Marshal, m.handleGetUserDetail)
		},
		"set-user-active": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "set-user-active", json.Unmarshal, json.Marshal, m.handleSetUserActive)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-user, get-users, list-users, get-user-detail, set-user-active")
	return nil
}

func (m *Module) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}, nil
}

func (m *Module) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

func (m *Module) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	actor, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		switch {
		case errors.Is(err, ErrExpiredToken):
			errMsg = "token expired"
		case errors.Is(err, ErrAccountInactive):
			errMsg = "account is deactivated"
		}
		// Validation failures are a response, not a transport error.
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ValidateTokenResponse{
		Valid: true,
		Actor: actor,
	}, nil
}

func (m *Module) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	summary, err := m.service.GetSummary(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: *summary}, nil
}

func (m *Module) handleGetUsers(ctx context.Context, req GetUsersRequest, _ *mono.Msg) (GetUsersResponse, error) {
	summaries, err := m.service.GetSummaries(ctx, req.UserIDs)
	if err != nil {
		return GetUsersResponse{}, err
	}
	return GetUsersResponse{Users: summaries}, nil
}

func (m *Module) handleListUsers(ctx context.Context, req ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	users, err := m.service.ListUsers(ctx, req.Active)
	if err != nil {
		return ListUsersResponse{}, err
	}

	resp := ListUsersResponse{Users: make([]UserRecord, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserRecord(u))
	}
	return resp, nil
}

func (m *Module) handleGetUserDetail(ctx context.Context, req GetUserDetailRequest, _ *mono.Msg) (GetUserDetailResponse, error) {
	user, err := m.service.GetUserDetail(ctx, req.Actor, req.UserID)
	if err != nil {
		return GetUserDetailResponse{}, err
	}
	return GetUserDetailResponse{User: toUserRecord(user)}, nil
}

func (m *Module) handleSetUserActive(ctx context.Context, req SetUserActiveRequest, _ *mono.Msg) (SetUserActiveResponse, error) {
	user, err := m.service.SetUserActive(ctx, req.Actor, req.UserID, req.IsActive)
	if err != nil {
		return SetUserActiveResponse{}, err
	}
	return SetUserActiveResponse{User: toUserRecord(user)}, nil
}

// bootstrapAdmin creates an initial admin account from environment variables
// when no admin exists yet, so a fresh deployment has a way in.
func (m *Module) bootstrapAdmin(repo *UserRepository, hasher *PasswordHasher) error {
	email := os.Getenv("TASKBOARD_ADMIN_EMAIL")
	password := os.Getenv("TASKBOARD_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	count, err := repo.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	passwordHash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	admin := &domainuser.User{
		ID:           uuid.New().String(),
		FirstName:    "Admin",
		LastName:     "User",
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domainuser.RoleAdmin,
		IsActive:     true,
	}
	if err := repo.Create(admin); err != nil {
		return err
	}

	log.Printf("[auth] Bootstrapped admin account: %s", email)
	return nil
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	return config
}
