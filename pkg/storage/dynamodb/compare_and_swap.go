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

// CompareAndSwapWallet applies change to a company's wallet only if its
// stored version still equals expectedVersion. The version check and the
// increment happen in a single conditional UpdateItem, so concurrent writers
// against the same version serialize: exactly one wins, the rest get
// ErrVersionConflict and must re-read.
func (s *Store) CompareAndSwapWallet(ctx context.Context, companyID string, expectedVersion int64, change models.WalletChange) (*models.Wallet, error) {
	balanceAV, err := attributevalue.Marshal(change.Balance)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance: %w", err)
	}
	usedCreditAV, err := attributevalue.Marshal(change.UsedCredit)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal used credit: %w", err)
	}
	blockedAV, err := attributevalue.Marshal(change.BlockedAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blocked amount: %w", err)
	}
	lastTxAV, err := attributevalue.Marshal(change.LastTransactionAt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal last transaction time: %w", err)
	}
	updatedAtAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal updated time: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.WalletsTableName),
		Key: map[string]types.AttributeValue{
			"company_id": &types.AttributeValueMemberS{Value: companyID},
		},
		UpdateExpression:    aws.String("SET balance = :balance, used_credit = :used_credit, blocked_amount = :blocked, last_transaction_at = :last_tx, updated_at = :updated_at, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(company_id) AND version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":balance":     balanceAV,
			":used_credit": usedCreditAV,
			":blocked":     blockedAV,
			":last_tx":     lastTxAV,
			":updated_at":  updatedAtAV,
			":version":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
			":inc":         &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// Missing wallet and stale version are indistinguishable here;
			// the caller's re-read resolves which one it was.
			return nil, fmt.Errorf("company %s at version %d: %w", companyID, expectedVersion, storage.ErrVersionConflict)
		}
		return nil, fmt.Errorf("failed to compare-and-swap wallet: %w", err)
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Attributes, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated wallet: %w", err)
	}

	return &wallet, nil
}
