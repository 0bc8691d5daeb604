package sweeper

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/ledger"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/store"
	"github.com/artivio/artivio-chain/internal/store/schema"
)

const (
	DEFAULT_SYNC_INTERVAL    = 10 * time.Minute
	DEFAULT_SYNC_BATCH_SIZE  = 100
	DEFAULT_SYNC_POOL_SIZE   = 10
	DEFAULT_READ_MAX_ELAPSED = 2 * time.Minute
)

// MirrorSyncConfig holds configuration for the mirror sync sweeper
type MirrorSyncConfig struct {
	BatchSize      int           // Mirror records read per page
	WorkerPoolSize int           // Concurrent ledger readers
	Interval       time.Duration // Sleep between full passes

	// ReadRetry bounds the retries of a single ledger read
	ReadRetry adapter.RetryPolicy
}

// SyncReport counts the outcome of one full pass over the mirror
type SyncReport struct {
	Checked  int32
	Updated  int32
	Unknown  int32
	Failed   int32
	Duration time.Duration
}

// MirrorSync re-reads the ledger for every mirrored token and refreshes drifted records
type MirrorSync interface {
	Sweeper

	// RunOnce performs a single full pass over the mirror
	RunOnce(ctx context.Context) (*SyncReport, error)
}

type mirrorSync struct {
	config    MirrorSyncConfig
	store     store.Store
	ledger    ledger.Ledger
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewMirrorSync creates a new mirror sync sweeper
func NewMirrorSync(config MirrorSyncConfig, st store.Store, l ledger.Ledger, clock adapter.Clock) MirrorSync {
	if config.BatchSize <= 0 {
		config.BatchSize = DEFAULT_SYNC_BATCH_SIZE
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = DEFAULT_SYNC_POOL_SIZE
	}
	if config.Interval <= 0 {
		config.Interval = DEFAULT_SYNC_INTERVAL
	}
	if config.ReadRetry.MaxElapsedTime <= 0 {
		config.ReadRetry = adapter.RetryPolicy{
			InitialInterval: 2 * time.Second,
			MaxInterval:     30 * time.Second,
			MaxElapsedTime:  DEFAULT_READ_MAX_ELAPSED,
		}
	}

	return &mirrorSync{
		config:    config,
		store:     st,
		ledger:    l,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *mirrorSync) Name() string {
	return "mirror-sync"
}

// Start runs full passes separated by the configured interval
func (s *mirrorSync) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting mirror sync",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("interval", s.config.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Mirror sync stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Mirror sync stop requested")
			return nil
		default:
		}

		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}

		s.sleep(ctx, s.config.Interval)
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *mirrorSync) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping mirror sync")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Mirror sync stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Mirror sync stop interrupted by context timeout")
		return ctx.Err()
	}
}

// RunOnce pages through the mirror newest first and checks each page through a worker pool
func (s *mirrorSync) RunOnce(ctx context.Context) (*SyncReport, error) {
	startTime := s.clock.Now()
	var checked, updated, unknown, failed atomic.Int32

	for offset := 0; ; offset += s.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tokens, err := s.store.ListTokens(ctx, store.TokenFilter{Limit: s.config.BatchSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("failed to list mirrored tokens: %w", err)
		}
		if len(tokens) == 0 {
			break
		}

		pool := pond.NewPool(
			s.config.WorkerPoolSize,
			pond.WithQueueSize(len(tokens)),
			pond.WithContext(ctx),
		)
		for i := range tokens {
			token := tokens[i]
			pool.Submit(func() {
				checked.Add(1)
				switch s.syncToken(ctx, &token) {
				case syncUpdated:
					updated.Add(1)
				case syncUnknown:
					unknown.Add(1)
				case syncFailed:
					failed.Add(1)
				}
			})
		}
		pool.StopAndWait()

		if len(tokens) < s.config.BatchSize {
			break
		}
	}

	report := &SyncReport{
		Checked:  checked.Load(),
		Updated:  updated.Load(),
		Unknown:  unknown.Load(),
		Failed:   failed.Load(),
		Duration: s.clock.Since(startTime),
	}
	logger.InfoCtx(ctx, "Mirror sync pass completed",
		zap.Int32("checked", report.Checked),
		zap.Int32("updated", report.Updated),
		zap.Int32("unknown", report.Unknown),
		zap.Int32("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	)

	return report, nil
}

type syncOutcome int

const (
	syncUnchanged syncOutcome = iota
	syncUpdated
	syncUnknown
	syncFailed
)

// syncToken compares one mirror record with the ledger and merges the ledger's values on drift
func (s *mirrorSync) syncToken(ctx context.Context, token *schema.Token) syncOutcome {
	ctx = logger.WithFields(ctx, zap.String("token_id", token.TokenID))

	id, err := domain.ParseTokenID(token.TokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Mirror record has an invalid token id", zap.Error(err))
		return syncFailed
	}

	var exists bool
	if err := s.readWithRetry(ctx, "exists", func() (err error) {
		exists, err = s.ledger.Exists(ctx, id)
		return err
	}); err != nil {
		logger.ErrorCtx(ctx, err)
		return syncFailed
	}
	if !exists {
		// Mirror records are never removed here; a missing token needs an operator
		logger.WarnCtx(ctx, "Mirrored token is unknown to the ledger",
			zap.String("tx_hash", token.TxHash),
			zap.String("chain", token.Chain),
		)
		return syncUnknown
	}

	var uri string
	if err := s.readWithRetry(ctx, "uri", func() (err error) {
		uri, err = s.ledger.URI(ctx, id)
		return err
	}); err != nil {
		logger.ErrorCtx(ctx, err)
		return syncFailed
	}

	update := store.TokenUpdate{}
	if uri != token.TokenURI {
		update.TokenURI = &uri
	}

	if token.Kind == schema.KindRights {
		var supply *big.Int
		if err := s.readWithRetry(ctx, "totalSupply", func() (err error) {
			supply, err = s.ledger.TotalSupply(ctx, id)
			return err
		}); err != nil {
			logger.ErrorCtx(ctx, err)
			return syncFailed
		}
		amount := supply.String()
		if token.Amount == nil || *token.Amount != amount {
			update.Amount = &amount
		}
	}

	if update.TokenURI == nil && update.Amount == nil {
		return syncUnchanged
	}

	update.UpdatedAt = s.clock.Now().UTC()
	if err := s.store.MergeToken(ctx, token.TokenID, update); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to refresh mirror record: %w", err))
		return syncFailed
	}

	logger.InfoCtx(ctx, "Mirror record refreshed from ledger",
		zap.Bool("token_uri_changed", update.TokenURI != nil),
		zap.Bool("amount_changed", update.Amount != nil),
	)
	return syncUpdated
}

// readWithRetry retries a ledger read with exponential backoff; not-found answers are final
func (s *mirrorSync) readWithRetry(ctx context.Context, name string, read func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.ReadRetry.InitialInterval
	b.MaxInterval = s.config.ReadRetry.MaxInterval
	b.MaxElapsedTime = s.config.ReadRetry.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	operation := func() error {
		err := read()
		if errors.Is(err, domain.ErrTokenNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Ledger read failed, retrying",
			zap.String("read", name),
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return fmt.Errorf("ledger %s read failed after %d attempts: %w", name, attemptCount+1, err)
	}

	return nil
}

// sleep waits for the given duration unless the context is done or a stop is requested
func (s *mirrorSync) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
