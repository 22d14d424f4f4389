package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-email-verification/internal/domain"
)

// EmailVerificationRepo manages pending email verification codes.
// PK: email, SK: purpose ("signup")
type EmailVerificationRepo struct {
	client    API
	tableName string
}

func NewEmailVerificationRepo(client API, tableName string) *EmailVerificationRepo {
	return &EmailVerificationRepo{client: client, tableName: tableName}
}

// Put stores v, replacing any pending code for the same email and purpose in one write.
func (r *EmailVerificationRepo) Put(ctx context.Context, v *domain.EmailVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put verification: %w", err)
	}
	return nil
}

func (r *EmailVerificationRepo) Get(ctx context.Context, email, purpose string) (*domain.EmailVerification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            compositeKey(fieldEmail, email, fieldPurpose, purpose),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get verification: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.EmailVerification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal verification: %w", err)
	}
	return &v, nil
}

func (r *EmailVerificationRepo) Delete(ctx context.Context, email, purpose string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldEmail, email, fieldPurpose, purpose),
	})
	if err != nil {
		return fmt.Errorf("delete verification: %w", err)
	}
	return nil
}
