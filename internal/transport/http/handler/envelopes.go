package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-email-verification/internal/domain"
	"github.com/go-email-verification/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidationEnvelope lists the input fields that failed validation.
type ValidationEnvelope struct {
	Errors validate.Errors `json:"errors"`
}

// VerifiedEnvelope is returned once an email address has been verified.
type VerifiedEnvelope struct {
	Bearer  string       `json:"Bearer,omitempty"`
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// ClaimsEnvelope echoes the identity carried by a valid token.
type ClaimsEnvelope struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expires_at"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
