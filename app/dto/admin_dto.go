// Package dto contains Data Transfer Objects for API request and response structures
package dto

// AdminLoginRequest is the admin credential payload
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,max=100" example:"admin"`
	Password string `json:"password" validate:"required,max=100" example:"SecurePass123!"`
}

type AdminDTO struct {
	UUID        string  `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Username    string  `json:"username" example:"admin"`
	Email       string  `json:"email" example:"admin@studio.example"`
	Role        string  `json:"role" example:"admin"`
	IsActive    *bool   `json:"is_active" example:"true"`
	LastLoginAt *string `json:"last_login_at,omitempty" example:"2024-01-15T10:30:00Z"`
	CreatedAt   string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

type AdminSessionDTO struct {
	Token     string `json:"token" example:"jwt"`
	ExpiresIn int    `json:"expires_in" example:"86400"`
	ExpiresAt string `json:"expires_at" example:"2024-01-16T10:30:00Z"`
	TokenType string `json:"token_type" example:"Bearer"`
}

type AdminLoginResponse struct {
	Admin   AdminDTO        `json:"admin"`
	Session AdminSessionDTO `json:"session"`
}

// UpdateAdminProfileRequest changes the caller's own email or password.
// A new password requires the current one.
type UpdateAdminProfileRequest struct {
	Email           *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"new@studio.example"`
	CurrentPassword *string `json:"current_password,omitempty" validate:"omitempty,max=100"`
	NewPassword     *string `json:"new_password,omitempty" validate:"omitempty,min=8,max=100"`
}

type CreateAdminRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50" example:"editor"`
	Email    string `json:"email" validate:"required,email,max=255" example:"editor@studio.example"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin super-admin" example:"admin"`
}

type SetAdminStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required" example:"false"`
}

type ListAdminsResponse struct {
	Admins []AdminDTO `json:"admins"`
}
