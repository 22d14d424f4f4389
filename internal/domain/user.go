package domain

import "time"

type User struct {
	UserID          string    `json:"id" dynamodbav:"user_id"`
	Email           string    `json:"email" dynamodbav:"email"`
	Name            string    `json:"name" dynamodbav:"name"`
	IsEmailVerified bool      `json:"is_email_verified" dynamodbav:"is_email_verified"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}
