package verification

import (
	"errors"

	"github.com/go-email-verification/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK              = "ok"
	resultError           = "error"
	resultAlreadyVerified = "already_verified"
	resultInvalidCode     = "invalid_code"
	resultUnknownUser     = "unknown_user"
)

var (
	codesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_verification_codes_issued_total",
			Help: "Verification codes issued, by result",
		},
		[]string{"result"},
	)

	verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_verification_attempts_total",
			Help: "Verification attempts, by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(codesIssued)
	prometheus.MustRegister(verifications)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, domain.ErrAlreadyVerified):
		return resultAlreadyVerified
	case errors.Is(err, domain.ErrInvalidCode):
		return resultInvalidCode
	case errors.Is(err, domain.ErrNotFound):
		return resultUnknownUser
	default:
		return resultError
	}
}
