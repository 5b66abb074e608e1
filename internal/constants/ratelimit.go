package constants

const (
    // Rate limits (requests per minute)
    GlobalAuthLimit = 60 // Login/Register endpoints
    GlobalMailLimit = 20 // Verification/reset email sending
)
