package handlers

import (
	"database/sql"

	"teamspace-api/internal/auth"
	"teamspace-api/internal/mailer"
	"teamspace-api/internal/membership"
)

type Handler struct {
	db        *sql.DB
	sessions  *auth.Sessions
	tokens    *auth.Tokens
	mailer    mailer.Mailer
	authority *membership.Authority
	baseURL   string
}

func NewHandler(db *sql.DB, sessions *auth.Sessions, tokens *auth.Tokens, m mailer.Mailer, authority *membership.Authority, baseURL string) *Handler {
	return &Handler{
		db:        db,
		sessions:  sessions,
		tokens:    tokens,
		mailer:    m,
		authority: authority,
		baseURL:   baseURL,
	}
}
