package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/voyora/wallet-ledger/pkg/config"
	ledgerhandler "github.com/voyora/wallet-ledger/pkg/handlers/ledger"
	"github.com/voyora/wallet-ledger/pkg/handlers/transactions"
	"github.com/voyora/wallet-ledger/pkg/handlers/wallets"
	"github.com/voyora/wallet-ledger/pkg/ledger"
	"github.com/voyora/wallet-ledger/pkg/middleware"
	"github.com/voyora/wallet-ledger/pkg/reconcile"
	dydbstore "github.com/voyora/wallet-ledger/pkg/storage/dynamodb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load SDK config: %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, cfg.WalletsTableName, cfg.LedgerTableName)

	coordinator := ledger.NewCoordinator(store,
		ledger.WithMaxAttempts(cfg.MaxRetryAttempts),
		ledger.WithBaseBackoff(time.Duration(cfg.BaseBackoffMillis)*time.Millisecond),
		ledger.WithLogger(logger),
	)

	var publisher reconcile.Publisher
	if cfg.DiscrepancyQueueURL != "" {
		publisher = reconcile.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.DiscrepancyQueueURL)
	}
	reconciler := reconcile.New(store, publisher, logger)

	walletsHandler := wallets.NewWalletsHandler(store)
	transactionsHandler := transactions.NewTransactionsHandler(coordinator)
	ledgerHandler := ledgerhandler.NewLedgerHandler(store, reconciler)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)

	router.Post("/wallets", walletsHandler.CreateWallet)
	router.Get("/wallets", walletsHandler.ListWallets)
	router.Get("/wallets/{companyId}", func(w http.ResponseWriter, r *http.Request) {
		walletsHandler.GetWalletByCompanyId(w, r, chi.URLParam(r, "companyId"))
	})
	router.Post("/transactions", transactionsHandler.ApplyTransaction)
	router.Get("/companies/{companyId}/ledger", func(w http.ResponseWriter, r *http.Request) {
		ledgerHandler.ListLedgerEntries(w, r, chi.URLParam(r, "companyId"))
	})
	router.Get("/companies/{companyId}/reconciliation", func(w http.ResponseWriter, r *http.Request) {
		ledgerHandler.GetReconciliationReport(w, r, chi.URLParam(r, "companyId"))
	})

	logger.Info("starting server", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
