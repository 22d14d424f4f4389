package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-email-verification/internal/application/verification"
	"github.com/go-email-verification/internal/domain"
	jwtinfra "github.com/go-email-verification/internal/infrastructure/jwt"
	"github.com/go-email-verification/internal/transport/http/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) Issue(ctx context.Context, req verification.IssueRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockVerificationSvc) Verify(ctx context.Context, req verification.VerifyRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type stubSigner struct {
	token string
	err   error
}

func (s stubSigner) Sign(userID, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token + ":" + userID + ":" + email, nil
}

type stubMailer struct{ err error }

func (s stubMailer) Verify(context.Context) error { return s.err }

// --- helpers ---

func postRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/v1/email-verification/request", bytes.NewBufferString(body))
}

// serveVerify runs the Verify middleware in front of the token handler, as the router does.
func serveVerify(svc verification.Service, signer tokenSigner, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h := NewEmailVerificationHandler(svc).Verify(http.HandlerFunc(NewTokenHandler(signer).Issue))
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

// --- Request ---

func TestRequest_InvalidBody(t *testing.T) {
	svc := &mockVerificationSvc{}
	rr := httptest.NewRecorder()
	NewEmailVerificationHandler(svc).Request(rr, postRequest("not-json"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestRequest_ValidationFailure(t *testing.T) {
	svc := &mockVerificationSvc{}
	rr := httptest.NewRecorder()
	NewEmailVerificationHandler(svc).Request(rr, postRequest(`{"email":"not-an-email"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var resp ValidationEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	fields := map[string]string{}
	for _, fe := range resp.Errors {
		fields[fe.Field] = fe.Tag
	}
	assert.Equal(t, map[string]string{"email": "email", "name": "required"}, fields)
	svc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestRequest_ServiceFailure(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Issue", mock.Anything, mock.Anything).Return(errors.New("mail transport not ready: dial tcp: refused"))
	rr := httptest.NewRecorder()
	NewEmailVerificationHandler(svc).Request(rr, postRequest(`{"email":"alice@example.com","name":"Alice"}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "refused")
}

func TestRequest_HappyPath(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Issue", mock.Anything, verification.IssueRequest{Email: "alice@example.com", Name: "Alice"}).Return(nil)
	rr := httptest.NewRecorder()
	NewEmailVerificationHandler(svc).Request(rr, postRequest(`{"email":" alice@example.com ","name":"Alice"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Verification email was successfully sent to alice@example.com", resp.Message)
	svc.AssertExpectations(t)
}

// --- Verify ---

func TestVerify_MalformedQuery(t *testing.T) {
	cases := map[string]string{
		"code too short": "/v1/email-verification/verify?email=alice@example.com&code=123",
		"code too long":  "/v1/email-verification/verify?email=alice@example.com&code=123456",
		"invalid email":  "/v1/email-verification/verify?email=alice&code=12345",
		"missing params": "/v1/email-verification/verify",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockVerificationSvc{}
			rr := serveVerify(svc, nil, target)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
		})
	}
}

func TestVerify_BusinessRejections(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("confirm email: %w", domain.ErrAlreadyVerified), http.StatusBadRequest, "Email is already verified"},
		{domain.ErrInvalidCode, http.StatusBadRequest, "Verification code is invalid or has expired"},
		{fmt.Errorf("user with email x: %w", domain.ErrNotFound), http.StatusNotFound, "no account is registered with this email"},
		{errors.New("get verification: timeout"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			svc := &mockVerificationSvc{}
			svc.On("Verify", mock.Anything, mock.Anything).Return(nil, tc.err)
			rr := serveVerify(svc, stubSigner{token: "t"}, "/v1/email-verification/verify?email=alice@example.com&code=12345")

			assert.Equal(t, tc.status, rr.Code)
			var resp MessageEnvelope
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tc.msg, resp.Error)
		})
	}
}

func TestVerify_SuccessReachesTokenHandler(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Verify", mock.Anything, verification.VerifyRequest{Email: "alice@example.com", Code: "12345"}).
		Return(&domain.User{UserID: "u1", Email: "alice@example.com", IsEmailVerified: true}, nil)

	rr := serveVerify(svc, stubSigner{token: "t"}, "/v1/email-verification/verify?email=alice@example.com&code=12345")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp VerifiedEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "t:u1:alice@example.com", resp.Bearer)
	assert.Equal(t, "email verified", resp.Message)
	require.NotNil(t, resp.User)
	assert.True(t, resp.User.IsEmailVerified)
	svc.AssertExpectations(t)
}

func TestVerify_StorageFaultIsOpaque(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Verify", mock.Anything, mock.Anything).Return(nil,
		errors.New("query user by email: AccessDeniedException arn:aws:dynamodb:us-east-1:123:table/users"))
	rr := serveVerify(svc, nil, "/v1/email-verification/verify?email=alice@example.com&code=12345")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "arn:aws")
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Internal server error", resp.Error)
}

// --- TokenHandler ---

func TestTokenIssue_WithoutSigner(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(middleware.WithVerifiedUser(r.Context(), &domain.User{UserID: "u1"}))
	rr := httptest.NewRecorder()
	NewTokenHandler(nil).Issue(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp VerifiedEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Empty(t, resp.Bearer)
	assert.Equal(t, "u1", resp.User.UserID)
}

func TestTokenIssue_SignFailure(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(middleware.WithVerifiedUser(r.Context(), &domain.User{UserID: "u1"}))
	rr := httptest.NewRecorder()
	NewTokenHandler(stubSigner{err: errors.New("sign: bad key")}).Issue(rr, r)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestTokenIssue_NoVerifiedUser(t *testing.T) {
	rr := httptest.NewRecorder()
	NewTokenHandler(nil).Issue(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestTokenClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := &jwtinfra.Claims{
		UserID:           "u1",
		Email:            "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.ClaimsKey, claims))
	rr := httptest.NewRecorder()
	NewTokenHandler(nil).Claims(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp ClaimsEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, ClaimsEnvelope{UserID: "u1", Email: "alice@example.com", ExpiresAt: exp.Unix()}, resp)
}

// --- HealthHandler ---

func withAction(action string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/health-check/"+action, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("action", action)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		mailer readinessCheck
		action string
		status int
	}{
		{"ping", nil, "ping", http.StatusOK},
		{"ready", stubMailer{}, "ready", http.StatusOK},
		{"mail down", stubMailer{err: errors.New("refused")}, "ready", http.StatusServiceUnavailable},
		{"no mailer", nil, "ready", http.StatusServiceUnavailable},
		{"unknown", nil, "dance", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHealthHandler(tc.mailer).Check(rr, withAction(tc.action))
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}
