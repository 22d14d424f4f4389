package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-email-verification/internal/application/verification"
	"github.com/go-email-verification/internal/pkg/validate"
	"github.com/go-email-verification/internal/transport/http/middleware"
)

// EmailVerificationHandler issues verification codes and checks them.
type EmailVerificationHandler struct {
	svc verification.Service
}

func NewEmailVerificationHandler(svc verification.Service) *EmailVerificationHandler {
	return &EmailVerificationHandler{svc: svc}
}

// Request mails a new verification code to the address in the body.
func (h *EmailVerificationHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req verification.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	// Issue failures are transport or template errors; their message is returned to the caller.
	if err := h.svc.Issue(r.Context(), req); err != nil {
		slog.Error("issue verification code", "email", req.Email, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{
		Message: fmt.Sprintf("Verification email was successfully sent to %s", req.Email),
	})
}

// Verify checks the email and code query parameters. It writes a response only on
// failure; on success the verified user is put in the request context for next.
func (h *EmailVerificationHandler) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := verification.VerifyRequest{
			Email: strings.TrimSpace(q.Get("email")),
			Code:  strings.TrimSpace(q.Get("code")),
		}
		if err := validate.Struct(req); err != nil {
			httpError(w, err)
			return
		}
		u, err := h.svc.Verify(r.Context(), req)
		if err != nil {
			httpError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithVerifiedUser(r.Context(), u)))
	})
}
