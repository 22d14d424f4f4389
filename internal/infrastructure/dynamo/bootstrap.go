package dynamo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-email-verification/internal/config"
)

const tableActiveTimeout = 2 * time.Minute

// tableSpec describes a table by its string key attributes.
type tableSpec struct {
	name       string
	hashKey    string
	rangeKey   string
	emailIndex bool   // adds the email-index GSI on fieldEmail
	ttlAttr    string // enables TTL on this attribute when set
}

// Bootstrap creates the users, email_verifications and user_preferences tables if they are missing.
// Existing tables are left as they are, so it runs on every startup.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tables config.DynamoTables) {
	specs := []tableSpec{
		{name: tables.Users, hashKey: fieldUserID, emailIndex: true},
		// One item per (email, purpose): a new code overwrites the pending one.
		{name: tables.EmailVerifications, hashKey: fieldEmail, rangeKey: fieldPurpose, ttlAttr: fieldExpiresAt},
		{name: tables.UserPreferences, hashKey: fieldUserID},
	}
	for _, spec := range specs {
		ensureTable(ctx, client, spec)
	}
}

func (s tableSpec) createInput() *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{stringAttr(s.hashKey)}
	keys := []types.KeySchemaElement{{AttributeName: aws.String(s.hashKey), KeyType: types.KeyTypeHash}}
	if s.rangeKey != "" {
		attrs = append(attrs, stringAttr(s.rangeKey))
		keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(s.rangeKey), KeyType: types.KeyTypeRange})
	}

	in := &dynamodb.CreateTableInput{
		TableName:            aws.String(s.name),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs,
		KeySchema:            keys,
	}
	if s.emailIndex {
		in.AttributeDefinitions = append(in.AttributeDefinitions, stringAttr(fieldEmail))
		in.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{{
			IndexName:  aws.String(indexEmail),
			KeySchema:  []types.KeySchemaElement{{AttributeName: aws.String(fieldEmail), KeyType: types.KeyTypeHash}},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}}
	}
	return in
}

func stringAttr(name string) types.AttributeDefinition {
	return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
}

func ensureTable(ctx context.Context, client *dynamodb.Client, spec tableSpec) {
	_, err := client.CreateTable(ctx, spec.createInput())
	var inUse *types.ResourceInUseException
	switch {
	case errors.As(err, &inUse):
		slog.Debug("table exists", "table", spec.name)
	case err != nil:
		slog.Warn("could not create table", "table", spec.name, "err", err)
		return
	default:
		slog.Info("created table", "table", spec.name)
		// TTL can only be enabled once the table is ACTIVE.
		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.name)}, tableActiveTimeout); err != nil {
			slog.Warn("table did not become active", "table", spec.name, "err", err)
		}
	}
	if spec.ttlAttr != "" {
		enableTTL(ctx, client, spec.name, spec.ttlAttr)
	}
}

func enableTTL(ctx context.Context, client *dynamodb.Client, tableName, ttlAttr string) {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(ttlAttr),
		},
	})
	if err != nil {
		// Re-enabling TTL on a table that already has it fails with a ValidationException.
		slog.Debug("could not enable TTL", "table", tableName, "err", err)
	}
}
