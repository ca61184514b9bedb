package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/leggyong/berkeley-expense2/internal/application/service"
	"github.com/leggyong/berkeley-expense2/internal/config"
	"github.com/leggyong/berkeley-expense2/internal/infrastructure/persistence/repository"
	"github.com/leggyong/berkeley-expense2/internal/infrastructure/persistence/sqlite"
	"github.com/leggyong/berkeley-expense2/internal/infrastructure/storage"
	httpserver "github.com/leggyong/berkeley-expense2/internal/interfaces/http"
	"github.com/leggyong/berkeley-expense2/pkg/database"
	"github.com/leggyong/berkeley-expense2/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting expense claim service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)

	userRepo := repository.NewUserRepository(db.DB, logger)
	expenseRepo := repository.NewExpenseRepository(db.DB, logger)
	claimRepo := repository.NewClaimRepository(db.DB, logger)
	seqRepo := repository.NewSequenceRepository(db.DB, logger)

	receiptStorage := storage.NewLocalReceiptStorage(cfg.Storage.ReceiptsDir, logger)

	svcLogger := utils.NewKVLogger(logger)
	directoryService := service.NewDirectoryService(userRepo, svcLogger)
	stagingService := service.NewStagingService(expenseRepo, svcLogger)
	claimService := service.NewClaimService(claimRepo, expenseRepo, seqRepo, txManager, svcLogger)
	exportService := service.NewExportService(claimService, svcLogger)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		directoryService,
		stagingService,
		claimService,
		exportService,
		receiptStorage,
		svcLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
