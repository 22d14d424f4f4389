package domain

import "time"

// PurposeSignup tags codes issued to confirm the address of a new account.
const PurposeSignup = "signup"

// EmailVerification is a pending verification code.
// PK: email, SK: purpose. One record per (email, purpose); a new issuance overwrites it.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL; zero means the record never expires.
type EmailVerification struct {
	Email            string    `json:"email" dynamodbav:"email"`
	Purpose          string    `json:"purpose" dynamodbav:"purpose"`
	VerificationCode int       `json:"verification_code" dynamodbav:"verification_code"`
	MessageID        string    `json:"message_id" dynamodbav:"message_id"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt        int64     `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
}

// Expired reports whether the record is past its TTL at now.
// DynamoDB deletes expired items lazily, so readers must check this themselves.
func (v *EmailVerification) Expired(now time.Time) bool {
	return v.ExpiresAt != 0 && v.ExpiresAt <= now.Unix()
}

// Matches reports whether code is the one carried by the record.
func (v *EmailVerification) Matches(code int) bool {
	return v.VerificationCode == code
}
