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

// CreateWallet creates a new wallet record in DynamoDB.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	now := time.Now().UTC()
	wallet.Balance = 0
	wallet.UsedCredit = 0
	wallet.BlockedAmount = 0
	wallet.Version = 0
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	walletAV, err := attributevalue.MarshalMap(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.WalletsTableName),
		Item:                walletAV,
		ConditionExpression: aws.String("attribute_not_exists(company_id)"), // Prevent overwriting existing wallets.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("company %s: %w", wallet.CompanyId, storage.ErrWalletAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create wallet in DynamoDB: %w", err)
	}

	return wallet, nil
}

// GetWallet retrieves a company's wallet from DynamoDB.
func (s *Store) GetWallet(ctx context.Context, companyID string) (*models.Wallet, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"company_id": companyID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet company ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.WalletsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("company %s: %w", companyID, storage.ErrWalletNotFound)
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// ListWallets retrieves all wallets from DynamoDB.
func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(s.WalletsTableName),
			ExclusiveStartKey: startKey,
		}

		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallets table: %w", err)
		}

		var page []models.Wallet
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
		}
		wallets = append(wallets, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return wallets, nil
}
