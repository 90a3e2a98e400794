package model

import "github.com/golang-jwt/jwt/v5"

// Role distinguishes operator tokens from player tokens
type Role string

const (
	RoleOperator Role = "operator"
	RolePlayer   Role = "player"
)

// Claims are the JWT claims shared by operator and player tokens
type Claims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for operator login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned after a successful login or token issue
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// MeResponse echoes the identity bound to the caller's token
type MeResponse struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
