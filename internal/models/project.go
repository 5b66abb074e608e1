package models

import "time"

// Project is the workspace-scoped resource. Everything it owns lives and
// dies with its workspace.
type Project struct {
    ID          string    `json:"id"`
    WorkspaceID string    `json:"workspace_id"`
    Name        string    `json:"name"`
    Description string    `json:"description"`
    CreatedBy   *string   `json:"created_by"`
    CreatedAt   time.Time `json:"created_at"`
}
