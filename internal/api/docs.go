// internal/api/docs.go
package api

import "time"

// These types are for Swagger documentation
type RegisterRequest struct {
    Email    string `json:"email" example:"user@example.com"`
    Password string `json:"password" example:"password123"`
}

type LoginRequest struct {
    Email    string `json:"email" example:"user@example.com"`
    Password string `json:"password" example:"password123"`
}

type WorkspaceResponse struct {
    ID        string    `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
    Name      string    `json:"name" example:"Team X"`
    Slug      string    `json:"slug" example:"team-x"`
    CreatedAt time.Time `json:"created_at"`
}

type CreateWorkspaceRequest struct {
    Name string `json:"name" example:"Team X"`
    Slug string `json:"slug" example:"team-x"`
}

type InviteRequest struct {
    Email string `json:"email" example:"teammate@example.com"`
}

type PasswordResetConfirmRequest struct {
    UID         string `json:"uid" example:"MTIzZTQ1Njc"`
    Token       string `json:"token" example:"eyJhbGciOi..."`
    NewPassword string `json:"new_password" example:"newpassword123"`
}

type ErrorResponse struct {
    Error string `json:"error" example:"Error message"`
}
