package models

// RoleAdmin is the role allowed into the sample-data administration views.
const RoleAdmin = "ADMIN"

// User is the minimal profile kept alongside the session token.
type User struct {
	ID       int64  `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	Role     string `json:"role" yaml:"role"`
}

// LoginRequest is the body of /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both /auth/login and /auth/register.
type AuthResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// User extracts the profile part of the response.
func (r *AuthResponse) User() User {
	return User{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		Role:     r.Role,
	}
}

// APIError is the error body produced by the backend.
type APIError struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
}
