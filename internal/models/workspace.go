package models

import "time"

type Workspace struct {
    ID        string    `json:"id"`
    Name      string    `json:"name"`
    Slug      string    `json:"slug"`
    OwnerID   *string   `json:"owner_id"`
    CreatedAt time.Time `json:"created_at"`
}

const (
    RoleOwner  = "owner"
    RoleAdmin  = "admin"
    RoleMember = "member"
)

type Membership struct {
    ID          string    `json:"id"`
    WorkspaceID string    `json:"workspace_id"`
    UserID      string    `json:"user_id"`
    UserEmail   string    `json:"user_email,omitempty"`
    Role        string    `json:"role"`
    IsActive    bool      `json:"is_active"`
    CreatedAt   time.Time `json:"created_at"`
}

type WorkspaceInvite struct {
    Email string `json:"email" binding:"required,email"`
}
