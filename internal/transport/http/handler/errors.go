package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-email-verification/internal/domain"
	"github.com/go-email-verification/internal/pkg/validate"
)

// internalErrorMessage is all a client learns about a storage or transport fault.
const internalErrorMessage = "Internal server error"

// httpError maps service errors to HTTP responses. Unrecognised errors are logged in full
// and answered with a generic 500.
func httpError(w http.ResponseWriter, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{Errors: verrs})
	case errors.Is(err, domain.ErrAlreadyVerified):
		writeError(w, http.StatusBadRequest, "Email is already verified")
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "Verification code is invalid or has expired")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "no account is registered with this email")
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}
