package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/config"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/providers/ethereum"
	"github.com/artivio/artivio-chain/internal/store"
	"github.com/artivio/artivio-chain/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.Bool("once", false, "Run a single pass and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadMirrorSyncConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "mirror-sync",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting mirror sync")

	clock := adapter.NewClock()

	mirror, closeMirror := openMirror(ctx, cfg.Mirror, cfg.Database)
	defer closeMirror()

	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err))
	}
	defer ethClient.Close()

	// Reads only; the operator key is not needed here
	contractLedger, err := ethereum.NewContractClient(ctx, ethereum.Config{
		ContractAddress: cfg.Ethereum.ContractAddress,
		ChainID:         cfg.Ethereum.ChainID,
		PollInterval:    cfg.Ethereum.PollInterval,
	}, ethClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create contract client", zap.Error(err))
	}

	mirrorSync := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{
		BatchSize:      cfg.MirrorSync.BatchSize,
		WorkerPoolSize: cfg.MirrorSync.Worker.WorkerPoolSize,
		Interval:       cfg.MirrorSync.Interval,
	}, mirror, contractLedger, clock)

	if *once {
		report, err := mirrorSync.RunOnce(ctx)
		if err != nil {
			logger.FatalCtx(ctx, "Mirror sync pass failed", zap.Error(err))
		}
		if report.Unknown > 0 || report.Failed > 0 {
			logger.WarnCtx(ctx, "Mirror sync pass finished with findings",
				zap.Int32("unknown", report.Unknown),
				zap.Int32("failed", report.Failed),
			)
		}
		return
	}

	errChan := make(chan error, 1)
	go func() {
		if err := mirrorSync.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Give the in-flight batch time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := mirrorSync.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, fmt.Errorf("mirror sync did not stop cleanly: %w", err))
	}
	cancel()

	logger.Info("Mirror sync stopped")
}

// openMirror connects the configured mirror backend and returns a close function
func openMirror(ctx context.Context, mirrorCfg config.MirrorConfig, dbCfg config.DatabaseConfig) (store.Store, func()) {
	if mirrorCfg.Driver == config.MirrorDriverFirestore {
		var opts []option.ClientOption
		if mirrorCfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(mirrorCfg.CredentialsFile))
		}
		client, err := firestore.NewClient(ctx, mirrorCfg.FirestoreProjectID, opts...)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create Firestore client", zap.Error(err))
		}
		return store.NewFirestoreStore(client, mirrorCfg.TokensCollection, mirrorCfg.ProvenanceCollection), func() {
			_ = client.Close()
		}
	}

	db, err := gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", dbCfg.Host))
	}
	if err := store.ConfigureConnectionPool(db, dbCfg.MaxOpenConns, dbCfg.MaxIdleConns, dbCfg.ConnMaxLifetime, dbCfg.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	return store.NewPGStore(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
