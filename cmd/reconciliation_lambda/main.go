package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/voyora/wallet-ledger/pkg/reconcile"
	dydbstore "github.com/voyora/wallet-ledger/pkg/storage/dynamodb"
)

var reconciler *reconcile.Reconciler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	walletsTable := os.Getenv("DYNAMODB_WALLETS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")
	if walletsTable == "" || ledgerTable == "" {
		log.Fatal("DynamoDB table name environment variables are not set")
	}

	queueURL := os.Getenv("RECONCILIATION_QUEUE_URL")
	if queueURL == "" {
		log.Fatal("RECONCILIATION_QUEUE_URL environment variable not set")
	}

	store := dydbstore.New(dynamodb.NewFromConfig(cfg), walletsTable, ledgerTable)
	publisher := reconcile.NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL)
	reconciler = reconcile.New(store, publisher, logger)
}

// HandleRequest is triggered by an EventBridge Schedule. It replays every
// company's ledger against its wallet balance and publishes any drift for
// operator review. It never mutates state.
func HandleRequest(ctx context.Context) error {
	slog.Info("starting ledger reconciliation sweep")

	found, err := reconciler.Run(ctx)
	if err != nil {
		slog.Error("reconciliation sweep finished with errors", "discrepancies", len(found), "error", err)
		return err
	}

	slog.Info("reconciliation sweep finished", "discrepancies", len(found))
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
