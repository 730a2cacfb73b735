package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/corepay/transaction-service/internal/adapter/http/controller"
	"github.com/corepay/transaction-service/internal/adapter/http/middleware"
	"github.com/corepay/transaction-service/internal/adapter/http/router"
	"github.com/corepay/transaction-service/internal/adapter/repository/postgres"
	"github.com/corepay/transaction-service/internal/config"
	"github.com/corepay/transaction-service/internal/logger"
	"github.com/corepay/transaction-service/internal/notifier"
	"github.com/corepay/transaction-service/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

const notificationBufferSize = 256
const notificationWorkers = 5

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	queue := notifier.NewQueue(notificationBufferSize)
	queue.Start(ctx, notificationWorkers, func(ctx context.Context, event notifier.TransactionPostedEvent) {
		logger.Info("transaction notification delivered", logger.Fields{
			"event": logger.SanitizePayload(event),
		})
	})
	defer queue.Close()

	transactionRepo := postgres.NewTransactionRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)

	transactionService := services.NewTransactionService(transactionRepo, queue, cfg.HighValueThreshold)
	accountService := services.NewAccountService(accountRepo, customerRepo)
	customerService := services.NewCustomerService(customerRepo)

	mux := router.New(
		controller.NewTransactionController(transactionService),
		controller.NewAccountController(accountService),
		controller.NewCustomerController(customerService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", logger.Fields{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
