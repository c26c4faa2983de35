package dto

import "time"

type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Phone      string `json:"phone" binding:"required,phone"`
	Password   string `json:"password" binding:"required,min=8,max=100"`
	DeviceID   string `json:"device_id" binding:"omitempty,max=191"`
	DeviceType string `json:"device_type" binding:"omitempty,max=32"`
	FCMToken   string `json:"fcm_token" binding:"required,max=512"`
}

type LoginRequest struct {
	Phone      string `json:"phone" binding:"required,phone"`
	Password   string `json:"password" binding:"required"`
	DeviceID   string `json:"device_id" binding:"omitempty,max=191"`
	DeviceType string `json:"device_type" binding:"omitempty,max=32"`
	FCMToken   string `json:"fcm_token" binding:"required,max=512"`
}

type LogoutRequest struct {
	DeviceID string `json:"device_id" binding:"required,max=191"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse is the success payload of register and login.
type AuthResponse struct {
	User     UserResponse `json:"user"`
	Token    string       `json:"token"`
	DeviceID string       `json:"device_id"`
}

// DeviceResponse lists one entry of the caller's device registry.
// Push tokens are never echoed back to clients.
type DeviceResponse struct {
	DeviceID   string    `json:"device_id"`
	DeviceType string    `json:"device_type"`
	LoggedIn   bool      `json:"logged_in"`
	UpdatedAt  time.Time `json:"updated_at"`
}
