package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/voyora/wallet-ledger/pkg/models"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

// AppendEntry durably commits a ledger entry. The ledger table is keyed by
// idempotency_key, so the attribute_not_exists condition is the uniqueness
// constraint: two concurrent appends of the same key race safely and exactly
// one wins. Entries are never updated or deleted.
func (s *Store) AppendEntry(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error) {
	entryAV, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.LedgerTableName),
		Item:                entryAV,
		ConditionExpression: aws.String("attribute_not_exists(idempotency_key)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("key %s: %w", entry.IdempotencyKey, storage.ErrDuplicateIdempotencyKey)
		}
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return entry, nil
}

// GetEntryByIdempotencyKey retrieves the ledger entry committed under key.
func (s *Store) GetEntryByIdempotencyKey(ctx context.Context, key string) (*models.LedgerEntry, error) {
	keyAV, err := attributevalue.MarshalMap(map[string]string{"idempotency_key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal idempotency key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.LedgerTableName),
		Key:            keyAV,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("key %s: %w", key, storage.ErrLedgerEntryNotFound)
	}

	var entry models.LedgerEntry
	if err := attributevalue.UnmarshalMap(result.Item, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entry: %w", err)
	}

	return &entry, nil
}

// ListEntriesByCompany queries the company_id-created_at-index GSI for up to
// limit entries strictly after since, in creation order. Passing the
// CreatedAt of the last entry seen resumes the scan.
func (s *Store) ListEntriesByCompany(ctx context.Context, companyID string, since time.Time, limit int32) ([]models.LedgerEntry, error) {
	sinceText, err := since.UTC().MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal since marker: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(companyCreatedAtIndex),
		KeyConditionExpression: aws.String("company_id = :company_id AND created_at > :since"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":company_id": &types.AttributeValueMemberS{Value: companyID},
			":since":      &types.AttributeValueMemberS{Value: string(sinceText)},
		},
		ScanIndexForward: aws.Bool(true),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}
