// Package dto defines data transfer objects for the auth HTTP API.
package dto

// LoginRequest is the JSON body of a login request.
type LoginRequest struct {
	Login string `json:"login" binding:"required"`
}

// TokenResponse carries the session token issued on login.
type TokenResponse struct {
	Token string `json:"token"`
}
