package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

const companyCreatedAtIndex = "company_id-created_at-index"

// DynamoDBAPI defines the subset of the DynamoDB client used by the store.
// Kept small so tests can mock it.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
//
// Layout: the wallets table is keyed by company_id; the ledger table is keyed
// by idempotency_key, which makes the journal's at-most-once guarantee a
// property of the storage engine rather than an application-level check. The
// company_id-created_at-index GSI serves ordered replay per company.
type Store struct {
	Client           DynamoDBAPI
	WalletsTableName string
	LedgerTableName  string
}

// New creates a new Store.
func New(client DynamoDBAPI, walletsTable, ledgerTable string) *Store {
	return &Store{
		Client:           client,
		WalletsTableName: walletsTable,
		LedgerTableName:  ledgerTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
