package handlers

import (
	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"github.com/xpanvictor/mockmate/internal/domains/readiness"
	"github.com/xpanvictor/mockmate/internal/domains/user"
)

// Response wrapper types for Swagger documentation

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// RegisterResponse represents the response for user registration
type RegisterResponse struct {
	Message string            `json:"message" example:"User registered successfully"`
	User    user.UserResponse `json:"user"`
}

// LoginResponse represents the response for user login
type LoginResponse struct {
	Message string            `json:"message" example:"Login successful"`
	User    user.UserResponse `json:"user"`
	Tokens  user.AuthTokens   `json:"tokens"`
}

// RefreshTokenResponse represents the response for token refresh
type RefreshTokenResponse struct {
	Message string          `json:"message" example:"Token refreshed successfully"`
	Tokens  user.AuthTokens `json:"tokens"`
}

// ProfileResponse represents the response for getting user profile
type ProfileResponse struct {
	User user.UserResponse `json:"user"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" example:"jwt-refresh-token-here"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Total  int64 `json:"total" example:"150"`
	Offset int   `json:"offset" example:"0"`
	Limit  int   `json:"limit" example:"20"`
}

// CreateInterviewResponse represents the response for interview creation
type CreateInterviewResponse struct {
	Message   string                      `json:"message" example:"Interview created successfully"`
	Interview interview.InterviewResponse `json:"interview"`
}

// InterviewDetailResponse represents the response for getting one interview
type InterviewDetailResponse struct {
	Interview interview.InterviewResponse `json:"interview"`
}

// ListInterviewsResponse represents the response for listing interviews
type ListInterviewsResponse struct {
	Interviews []interview.InterviewResponse `json:"interviews"`
	Pagination PaginationInfo                `json:"pagination"`
}

// FeedbackSummaryResponse represents the scored answers for one interview
type FeedbackSummaryResponse struct {
	MockID        string          `json:"mockId"`
	Answers       []answer.Record `json:"answers"`
	AverageRating float64         `json:"averageRating" example:"6.5"`
}

// ReadinessResponse represents the dependency diagnostics report
type ReadinessResponse struct {
	Status string           `json:"status" example:"ok"`
	Report readiness.Report `json:"report"`
}
