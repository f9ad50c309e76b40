// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// AuthRequest is the body for login and signup.
// Credentials are forwarded to the identity collaborator, never persisted.
type AuthRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordChangeRequest is the body for a password change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// UserProfileRequest is the body for a wholesale profile overwrite.
type UserProfileRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"required"`
	Occupation string `json:"occupation"`
	Location   string `json:"location"`
}

// AuthResponse is a successful login or signup.
type AuthResponse struct {
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
	Token   string         `json:"token"`
}

// UserResponse is a successful profile update.
type UserResponse struct {
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
