package dynamo

// DynamoDB attribute names used in keys and expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID           = "user_id"
	fieldEmail            = "email"
	fieldPurpose          = "purpose"
	fieldIsEmailVerified  = "is_email_verified"
	fieldUpdatedAt        = "updated_at"
	fieldVerificationCode = "verification_code"
	fieldExpiresAt        = "expires_at"
)

const indexEmail = "email-index"

// conditionalCheckFailed is the CancellationReason code DynamoDB reports for a failed condition.
const conditionalCheckFailed = "ConditionalCheckFailed"
