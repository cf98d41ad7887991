package models

import "time"

// User is an account as returned by /me and embedded in posts and comments.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for POST /register.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,min=2,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// AuthResponse is the payload of a successful login or register call.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
