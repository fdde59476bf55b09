package auth

import (
	"time"

	"github.com/angelmondragon/laptopshop/internal/users"
)

// LoginRequest captures the credentials posted by the login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password,raw" validate:"required"`
}

// RegisterRequest captures the sign-up form.
type RegisterRequest struct {
	FullName        string `json:"full_name" form:"fullName" validate:"required,max=255"`
	Email           string `json:"email" form:"email" validate:"required,email,max=255"`
	Password        string `json:"password" form:"password,raw" validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" form:"confirmPassword,raw" validate:"required,eqfield=Password"`
}

// LoginResponse carries the signed token and the user it was issued to.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *users.UserDTO `json:"user"`
}
