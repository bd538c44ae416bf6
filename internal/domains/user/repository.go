package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the account owning interviews and answers (pure domain model).
// @Description User account information
type User struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Jane Doe"`
	Email     string    `json:"email" example:"jane@example.com"`
	Password  string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"createdAt" example:"2023-01-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2023-01-01T12:00:00Z"`
}

// CreateUserRequest represents the data needed to register
// @Description Request body for user registration
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"securePassword123"`
}

// LoginRequest represents login credentials
// @Description Request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"securePassword123"`
}

// UserResponse is a user without sensitive information
// @Description User information returned in API responses
type UserResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Jane Doe"`
	Email     string    `json:"email" example:"jane@example.com"`
	CreatedAt time.Time `json:"createdAt" example:"2023-01-01T12:00:00Z"`
}

// ToResponse strips sensitive fields.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// NewUser creates a user with a generated ID.
func NewUser(req CreateUserRequest, hashedPassword string) *User {
	return &User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(user *User) error
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	EmailExists(email string) (bool, error)
}
