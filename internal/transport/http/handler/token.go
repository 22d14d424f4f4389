package handler

import (
	"net/http"

	"github.com/go-email-verification/internal/transport/http/middleware"
)

type tokenSigner interface {
	Sign(userID, email string) (string, error)
}

// TokenHandler hands out access tokens to users whose email was verified earlier in the chain.
type TokenHandler struct {
	signer tokenSigner
}

// NewTokenHandler returns a TokenHandler. A nil signer makes it answer without a token.
func NewTokenHandler(signer tokenSigner) *TokenHandler {
	return &TokenHandler{signer: signer}
}

func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.VerifiedUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "verified user missing from request context")
		return
	}
	resp := VerifiedEnvelope{User: u, Message: "email verified"}
	if h.signer != nil {
		bearer, err := h.signer.Sign(u.UserID, u.Email)
		if err != nil {
			httpError(w, err)
			return
		}
		resp.Bearer = bearer
	}
	writeJSON(w, http.StatusOK, resp)
}

// Claims echoes the identity of the caller's Bearer token.
func (h *TokenHandler) Claims(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	resp := ClaimsEnvelope{UserID: claims.UserID, Email: claims.Email}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}
	writeJSON(w, http.StatusOK, resp)
}
