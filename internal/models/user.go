package models

import "time"

type User struct {
    ID              string    `json:"id"`
    Email           string    `json:"email"`
    Password        string    `json:"-"`
    IsEmailVerified bool      `json:"is_email_verified"`
    IsStaff         bool      `json:"is_staff"`
    IsSuperuser     bool      `json:"-"`
    CreatedAt       time.Time `json:"created_at"`
    UpdatedAt       time.Time `json:"updated_at"`
}

// Role is a global, workspace-independent capability grouping.
type Role struct {
    ID          string    `json:"id"`
    Name        string    `json:"name"`
    Description string    `json:"description"`
    CreatedAt   time.Time `json:"created_at"`
}
