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

func TestCompareAndSwapWallet(t *testing.T) {
	ctx := context.Background()
	change := models.WalletChange{
		Balance:           -50000,
		UsedCredit:        50000,
		LastTransactionAt: time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		updated, err := attributevalue.MarshalMap(models.Wallet{
			CompanyId:  "cmp-1001",
			Balance:    -50000,
			UsedCredit: 50000,
			Version:    4,
		})
		require.NoError(t, err)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(input *awsdynamodb.UpdateItemInput) bool {
			version, ok := input.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN)
			return ok && version.Value == "3" &&
				*input.ConditionExpression == "attribute_exists(company_id) AND version = :version" &&
				input.ReturnValues == types.ReturnValueAllNew
		})).Return(&awsdynamodb.UpdateItemOutput{Attributes: updated}, nil)

		store := newTestStore(mockClient)
		wallet, err := store.CompareAndSwapWallet(ctx, "cmp-1001", 3, change)

		require.NoError(t, err)
		assert.Equal(t, int64(-50000), wallet.Balance)
		assert.Equal(t, int64(4), wallet.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Version Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{})

		store := newTestStore(mockClient)
		_, err := store.CompareAndSwapWallet(ctx, "cmp-1001", 3, change)

		assert.ErrorIs(t, err, storage.ErrVersionConflict)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, errors.New("throughput exceeded"))

		store := newTestStore(mockClient)
		_, err := store.CompareAndSwapWallet(ctx, "cmp-1001", 3, change)

		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrVersionConflict)
	})
}
