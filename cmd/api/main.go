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
	"github.com/artivio/artivio-chain/internal/api/middleware"
	"github.com/artivio/artivio-chain/internal/api/rest"
	"github.com/artivio/artivio-chain/internal/api/server"
	"github.com/artivio/artivio-chain/internal/api/shared/constants"
	"github.com/artivio/artivio-chain/internal/config"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/messaging"
	"github.com/artivio/artivio-chain/internal/minting"
	"github.com/artivio/artivio-chain/internal/pinning"
	"github.com/artivio/artivio-chain/internal/providers/ethereum"
	"github.com/artivio/artivio-chain/internal/providers/jetstream"
	"github.com/artivio/artivio-chain/internal/ratelimit"
	"github.com/artivio/artivio-chain/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		Release:         constants.SERVICE_NAME + "@" + constants.SERVICE_VERSION,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "artivio-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Artivio chain API")

	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Open the off-chain mirror
	mirror, closeMirror := openMirror(ctx, cfg.Mirror, cfg.Database)
	defer closeMirror()

	// Connect to the ledger
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err))
	}
	defer ethClient.Close()

	contractLedger, err := ethereum.NewContractClient(ctx, ethereum.Config{
		ContractAddress:    cfg.Ethereum.ContractAddress,
		PrivateKey:         cfg.Ethereum.PrivateKey,
		ChainID:            cfg.Ethereum.ChainID,
		PollInterval:       cfg.Ethereum.PollInterval,
		GasLimitMultiplier: cfg.Ethereum.GasLimitMultiplier,
	}, ethClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create contract client", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to ledger",
		zap.String("chain", string(contractLedger.Chain())),
		zap.String("contract", contractLedger.ContractAddress().Hex()),
	)

	// Token events are published only when a broker is configured
	var publisher messaging.Publisher = messaging.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))
	} else {
		logger.WarnCtx(ctx, "NATS url not configured, token events will not be published")
	}
	defer publisher.Close()

	referenceSale, err := cfg.Minting.ReferenceSale()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid royalty reference sale", zap.Error(err))
	}

	mintingService := minting.NewService(minting.Config{
		DefaultRoyaltyBps:    cfg.Minting.DefaultRoyaltyBps,
		ConfirmationTimeout:  cfg.Minting.ConfirmationTimeout,
		ReadTimeout:          cfg.Minting.ReadTimeout,
		RoyaltyReferenceSale: referenceSale,
		LicensePolicy:        cfg.Minting.LicensePolicy,
	}, contractLedger, mirror, publisher, clock)

	pinningClient := pinning.NewPinataClient(pinning.Config{
		JWT:        cfg.Pinata.JWT,
		APIURL:     cfg.Pinata.APIURL,
		GatewayURL: cfg.Pinata.GatewayURL,
	}, adapter.NewHTTPClient(cfg.Pinata.HTTPTimeout), jsonAdapter, clock)

	var authenticator *middleware.Authenticator
	if cfg.Auth.Enabled() {
		authenticator, err = middleware.NewAuthenticator(middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create authenticator", zap.Error(err))
		}
	} else {
		logger.WarnCtx(ctx, "No credentials configured, mutating endpoints are open")
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		var redisClient adapter.RedisClient
		if cfg.Redis.Addr != "" {
			redisClient = adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			defer redisClient.Close()
		}
		limiter, err = ratelimit.NewLimiter(ctx, ratelimit.Config{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		}, redisClient)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create rate limiter", zap.Error(err))
		}
	}

	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		BasePath:       cfg.Server.BasePath,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Info: rest.ServiceInfo{
			Chain:    contractLedger.Chain(),
			Contract: contractLedger.ContractAddress().Hex(),
			BasePath: cfg.Server.BasePath,
		},
	}

	srv := server.New(serverConfig, mintingService, pinningClient, authenticator, limiter)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// In-flight mints may be waiting on confirmations
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, fmt.Errorf("server forced to shutdown: %w", err))
	}

	logger.Info("API server stopped")
}

// openMirror connects the configured mirror backend and returns a close function
func openMirror(ctx context.Context, mirrorCfg config.MirrorConfig, dbCfg config.DatabaseConfig) (store.Store, func()) {
	switch mirrorCfg.Driver {
	case config.MirrorDriverFirestore:
		var opts []option.ClientOption
		if mirrorCfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(mirrorCfg.CredentialsFile))
		}
		client, err := firestore.NewClient(ctx, mirrorCfg.FirestoreProjectID, opts...)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create Firestore client", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to Firestore", zap.String("project_id", mirrorCfg.FirestoreProjectID))
		return store.NewFirestoreStore(client, mirrorCfg.TokensCollection, mirrorCfg.ProvenanceCollection), func() {
			_ = client.Close()
		}

	default:
		db, err := gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", dbCfg.Host))
		}
		if err := store.ConfigureConnectionPool(db, dbCfg.MaxOpenConns, dbCfg.MaxIdleConns, dbCfg.ConnMaxLifetime, dbCfg.ConnMaxIdleTime); err != nil {
			logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to database",
			zap.Int("max_open_conns", dbCfg.MaxOpenConns),
			zap.Int("max_idle_conns", dbCfg.MaxIdleConns),
		)
		return store.NewPGStore(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}
}
