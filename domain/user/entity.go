package user

import (
	"time"
)

// Role distinguishes regular users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user account in the system.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	FirstName    string `gorm:"not null;type:text"`
	LastName     string `gorm:"not null;type:text"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	Role         Role   `gorm:"not null;default:user;type:text"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Actor is the authenticated user behind a request: the identity every core
// operation receives explicitly rather than reading from ambient state.
type Actor struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Summary is the denormalized user shape embedded in task responses, so
// callers never have to resolve raw foreign-key ids themselves.
type Summary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Summary returns the denormalized summary for the user.
func (u *User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// Claims represents the identity carried by a verified JWT.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// TokenPair represents access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
