package models

// LoginRequest defines the structure for admin login requests
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed admin token
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
