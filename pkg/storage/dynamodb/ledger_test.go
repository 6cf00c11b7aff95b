package dynamodb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voyora/wallet-ledger/pkg/models"
	"github.com/voyora/wallet-ledger/pkg/storage"
	"github.com/voyora/wallet-ledger/pkg/storage/dynamodb/mocks"
)

func TestAppendEntry(t *testing.T) {
	ctx := context.Background()
	entry := &models.LedgerEntry{
		LedgerId:       "TXN-2026-0000000001",
		CompanyId:      "cmp-1001",
		IdempotencyKey: "key-1",
		Amount:         -120000,
		CreatedAt:      time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(input *awsdynamodb.PutItemInput) bool {
			return *input.TableName == "ledger-test" &&
				*input.ConditionExpression == "attribute_not_exists(idempotency_key)"
		})).Return(&awsdynamodb.PutItemOutput{}, nil)

		store := newTestStore(mockClient)
		committed, err := store.AppendEntry(ctx, entry)

		require.NoError(t, err)
		assert.Equal(t, entry.LedgerId, committed.LedgerId)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Key", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{})

		store := newTestStore(mockClient)
		_, err := store.AppendEntry(ctx, entry)

		assert.ErrorIs(t, err, storage.ErrDuplicateIdempotencyKey)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).
			Return(nil, errors.New("throughput exceeded"))

		store := newTestStore(mockClient)
		_, err := store.AppendEntry(ctx, entry)

		assert.ErrorContains(t, err, "failed to append ledger entry")
	})
}

func TestGetEntryByIdempotencyKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		item, err := attributevalue.MarshalMap(models.LedgerEntry{
			LedgerId:       "TXN-2026-0000000001",
			IdempotencyKey: "key-1",
		})
		require.NoError(t, err)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(input *awsdynamodb.GetItemInput) bool {
			return *input.TableName == "ledger-test" && *input.ConsistentRead
		})).Return(&awsdynamodb.GetItemOutput{Item: item}, nil)

		store := newTestStore(mockClient)
		entry, err := store.GetEntryByIdempotencyKey(ctx, "key-1")

		require.NoError(t, err)
		assert.Equal(t, "TXN-2026-0000000001", entry.LedgerId)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&awsdynamodb.GetItemOutput{Item: nil}, nil)

		store := newTestStore(mockClient)
		_, err := store.GetEntryByIdempotencyKey(ctx, "key-missing")

		assert.ErrorIs(t, err, storage.ErrLedgerEntryNotFound)
	})
}

func TestListEntriesByCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		first, err := attributevalue.MarshalMap(models.LedgerEntry{LedgerId: "TXN-2026-0000000001", CompanyId: "cmp-1001"})
		require.NoError(t, err)
		second, err := attributevalue.MarshalMap(models.LedgerEntry{LedgerId: "TXN-2026-0000000002", CompanyId: "cmp-1001"})
		require.NoError(t, err)

		since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *awsdynamodb.QueryInput) bool {
			sinceAV, ok := input.ExpressionAttributeValues[":since"].(*types.AttributeValueMemberS)
			return ok && sinceAV.Value == "2026-03-01T00:00:00Z" &&
				*input.IndexName == "company_id-created_at-index" &&
				*input.Limit == int32(50) &&
				*input.ScanIndexForward
		})).Return(&awsdynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{first, second},
		}, nil)

		store := newTestStore(mockClient)
		entries, err := store.ListEntriesByCompany(ctx, "cmp-1001", since, 50)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "TXN-2026-0000000001", entries[0].LedgerId)
		mockClient.AssertExpectations(t)
	})

	t.Run("No Limit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *awsdynamodb.QueryInput) bool {
			return input.Limit == nil
		})).Return(&awsdynamodb.QueryOutput{}, nil)

		store := newTestStore(mockClient)
		entries, err := store.ListEntriesByCompany(ctx, "cmp-1001", time.Time{}, 0)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		store := newTestStore(mockClient)
		_, err := store.ListEntriesByCompany(ctx, "cmp-1001", time.Time{}, 0)

		assert.ErrorContains(t, err, "failed to query ledger entries")
	})
}
