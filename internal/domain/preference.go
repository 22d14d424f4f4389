package domain

import "time"

// UserPreference holds per-user settings. A default record is created when the user's email is verified.
type UserPreference struct {
	UserID                 string    `json:"user_id" dynamodbav:"user_id"`
	EnableContextBasedAuth bool      `json:"enable_context_based_auth" dynamodbav:"enable_context_based_auth"`
	CreatedAt              time.Time `json:"created" dynamodbav:"created_at"`
}

// DefaultPreference returns the preference record created on first verification.
func DefaultPreference(userID string, now time.Time) *UserPreference {
	return &UserPreference{
		UserID:                 userID,
		EnableContextBasedAuth: true,
		CreatedAt:              now,
	}
}
