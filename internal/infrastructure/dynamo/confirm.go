package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-email-verification/internal/config"
	"github.com/go-email-verification/internal/domain"
)

// Positions of the items in the confirmation transaction; CancellationReasons is indexed the same way.
const (
	txUser = iota
	txVerification
	txPreference
)

// EmailConfirmer commits a successful verification across the users, email_verifications
// and user_preferences tables in a single DynamoDB transaction.
type EmailConfirmer struct {
	client API
	users  *UserRepo
	tables config.DynamoTables
	now    func() time.Time
}

func NewEmailConfirmer(client API, tables config.DynamoTables) *EmailConfirmer {
	return &EmailConfirmer{
		client: client,
		users:  NewUserRepo(client, tables.Users),
		tables: tables,
		now:    time.Now,
	}
}

// ConfirmEmail marks the user verified, consumes v and stores pref, all or nothing.
// The user update only applies while the user is unverified and the delete only while the stored
// code still equals v's, so a concurrent verify or re-issue cancels the transaction instead of
// double-applying it. Returns the user as stored after the commit.
func (c *EmailConfirmer) ConfirmEmail(ctx context.Context, userID string, v *domain.EmailVerification, pref *domain.UserPreference) (*domain.User, error) {
	input, err := c.buildTransaction(userID, v, pref)
	if err != nil {
		return nil, err
	}
	if _, err := c.client.TransactWriteItems(ctx, input); err != nil {
		return nil, cancellationError(err, userID)
	}
	return c.users.Get(ctx, userID)
}

func (c *EmailConfirmer) buildTransaction(userID string, v *domain.EmailVerification, pref *domain.UserPreference) (*dynamodb.TransactWriteItemsInput, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldIsEmailVerified: true,
		fieldUpdatedAt:       c.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = fieldUserID
	ue.Names["#ev"] = fieldIsEmailVerified
	ue.Values[":unverified"] = &types.AttributeValueMemberBOOL{Value: false}

	prefItem, err := attributevalue.MarshalMap(pref)
	if err != nil {
		return nil, fmt.Errorf("marshal preference: %w", err)
	}

	items := make([]types.TransactWriteItem, 3)
	items[txUser] = types.TransactWriteItem{Update: &types.Update{
		TableName:                           aws.String(c.tables.Users),
		Key:                                 strKey(fieldUserID, userID),
		UpdateExpression:                    aws.String(ue.Expr),
		ConditionExpression:                 aws.String("attribute_exists(#pk) AND (attribute_not_exists(#ev) OR #ev = :unverified)"),
		ExpressionAttributeNames:            ue.Names,
		ExpressionAttributeValues:           ue.Values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}}
	items[txVerification] = types.TransactWriteItem{Delete: &types.Delete{
		TableName:                aws.String(c.tables.EmailVerifications),
		Key:                      compositeKey(fieldEmail, v.Email, fieldPurpose, v.Purpose),
		ConditionExpression:      aws.String("#code = :code"),
		ExpressionAttributeNames: map[string]string{"#code": fieldVerificationCode},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberN{Value: fmt.Sprint(v.VerificationCode)},
		},
	}}
	items[txPreference] = types.TransactWriteItem{Put: &types.Put{
		TableName: aws.String(c.tables.UserPreferences),
		Item:      prefItem,
	}}
	return &dynamodb.TransactWriteItemsInput{TransactItems: items}, nil
}

// cancellationError maps failed conditions of the confirmation transaction back to domain errors.
func cancellationError(err error, userID string) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return fmt.Errorf("confirm email: %w", err)
	}
	for i, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) != conditionalCheckFailed {
			continue
		}
		switch i {
		case txUser:
			if len(reason.Item) == 0 {
				return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
			}
			return fmt.Errorf("confirm email: %w", domain.ErrAlreadyVerified)
		case txVerification:
			return fmt.Errorf("confirm email: %w", domain.ErrInvalidCode)
		}
	}
	return fmt.Errorf("confirm email: %w", err)
}
