package minting

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/ledger"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/messaging"
	"github.com/artivio/artivio-chain/internal/store"
	"github.com/artivio/artivio-chain/internal/store/schema"
	"github.com/artivio/artivio-chain/internal/types"
)

const (
	opMintCoA          = "mintCoA"
	opMintRights       = "mintRights"
	opBindLicense      = "bindLicense"
	opRecordProvenance = "recordProvenanceNote"

	// mirrorWriteTimeout bounds every best-effort write after confirmation
	mirrorWriteTimeout = 10 * time.Second

	// detailsProvenanceLimit is the number of provenance events returned with token details
	detailsProvenanceLimit = 100
)

// DefaultRoyaltyReferenceSale is 1e18 base units, one whole unit of the native currency
var DefaultRoyaltyReferenceSale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Config holds the minting service settings
type Config struct {
	DefaultRoyaltyBps    int
	ConfirmationTimeout  time.Duration
	ReadTimeout          time.Duration
	RoyaltyReferenceSale *big.Int
	LicensePolicy        string
}

// Service translates application requests into ledger transactions and keeps the mirror in step
//
//go:generate mockgen -source=service.go -destination=../mocks/minting.go -package=mocks -mock_names=Service=MockMintingService
type Service interface {
	// MintCertificate mints the CoA token of a sku and waits for confirmation
	MintCertificate(ctx context.Context, req MintCertificateRequest) (*MintResult, error)

	// MintRightsBundle mints a batch of rights tokens of a sku and waits for confirmation
	MintRightsBundle(ctx context.Context, req MintRightsRequest) (*MintResult, error)

	// BindLicense binds a license document to a minted token
	BindLicense(ctx context.Context, req BindLicenseRequest) (*BindLicenseResult, error)

	// RecordProvenanceNote appends a provenance reference on the ledger and its summary in the mirror
	RecordProvenanceNote(ctx context.Context, req ProvenanceNoteRequest) (*ProvenanceNoteResult, error)

	// GetTokenInfo reads a token from the ledger, failing with domain.ErrTokenNotFound if it does not exist
	GetTokenInfo(ctx context.Context, tokenID *big.Int) (*TokenInfo, error)

	// GetTokenDetails returns the ledger view together with the mirror record and provenance events
	GetTokenDetails(ctx context.Context, tokenID *big.Int) (*TokenDetails, error)

	// VerifyToken cross-checks a token against the ledger. Failures are reported in the result.
	VerifyToken(ctx context.Context, tokenID *big.Int) *VerificationResult

	// ListTokens lists mirrored tokens
	ListTokens(ctx context.Context, filter store.TokenFilter) ([]schema.Token, error)

	// Stats returns mirror statistics
	Stats(ctx context.Context) (*store.Stats, error)
}

type service struct {
	cfg       Config
	ledger    ledger.Ledger
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewService creates a minting service. A nil publisher disables event publishing.
func NewService(cfg Config, l ledger.Ledger, s store.Store, publisher messaging.Publisher, clock adapter.Clock) Service {
	if cfg.ConfirmationTimeout <= 0 {
		cfg.ConfirmationTimeout = 2 * time.Minute
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.RoyaltyReferenceSale == nil || cfg.RoyaltyReferenceSale.Sign() <= 0 {
		cfg.RoyaltyReferenceSale = DefaultRoyaltyReferenceSale
	}
	if cfg.LicensePolicy == "" {
		cfg.LicensePolicy = domain.LICENSE_POLICY_OVERWRITE
	}
	if publisher == nil {
		publisher = messaging.NewNoopPublisher()
	}
	return &service{
		cfg:       cfg,
		ledger:    l,
		store:     s,
		publisher: publisher,
		clock:     clock,
	}
}

type mintParams struct {
	op     string
	kind   domain.TokenKind
	to     common.Address
	sku    *big.Int
	uri    string
	amount *big.Int
	bps    uint16
}

func (s *service) MintCertificate(ctx context.Context, req MintCertificateRequest) (*MintResult, error) {
	params, err := s.validateMint(req.SKU, req.ArtisanAddress, req.TokenURI, req.RoyaltyBps)
	if err != nil {
		return nil, err
	}
	params.op = opMintCoA
	params.kind = domain.KindCoA
	params.amount = big.NewInt(1)

	return s.mint(ctx, params)
}

func (s *service) MintRightsBundle(ctx context.Context, req MintRightsRequest) (*MintResult, error) {
	params, err := s.validateMint(req.SKU, req.ArtisanAddress, req.TokenURI, req.RoyaltyBps)
	if err != nil {
		return nil, err
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: must be a positive integer", domain.ErrInvalidAmount)
	}
	params.op = opMintRights
	params.kind = domain.KindRights
	params.amount = new(big.Int).Set(req.Amount)

	return s.mint(ctx, params)
}

func (s *service) validateMint(sku *big.Int, artisan, tokenURI string, royaltyBps *int) (*mintParams, error) {
	if err := domain.ValidateSKU(sku); err != nil {
		return nil, err
	}
	to, err := types.ParseEthereumAddress(artisan)
	if err != nil {
		return nil, err
	}
	tokenURI = strings.TrimSpace(tokenURI)
	if !types.IsValidURI(tokenURI) {
		return nil, fmt.Errorf("%w: tokenURI must be an absolute uri", domain.ErrInvalidInput)
	}

	bps := s.cfg.DefaultRoyaltyBps
	if royaltyBps != nil {
		bps = *royaltyBps
	}
	if bps < 0 || bps > domain.MAX_ROYALTY_BPS {
		return nil, fmt.Errorf("%w: %d is outside [0, %d]", domain.ErrInvalidRoyalty, bps, domain.MAX_ROYALTY_BPS)
	}

	return &mintParams{to: to, sku: new(big.Int).Set(sku), uri: tokenURI, bps: uint16(bps)}, nil
}

func (s *service) mint(ctx context.Context, p *mintParams) (*MintResult, error) {
	// validated sku and kind always encode
	tokenID, err := domain.EncodeTokenID(p.sku, p.kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConfirmationTimeout)
	defer cancel()

	var sub *ledger.Submission
	switch p.kind {
	case domain.KindCoA:
		sub, err = s.ledger.MintCoA(ctx, p.to, p.sku, p.uri, p.bps)
	default:
		sub, err = s.ledger.MintRights(ctx, p.to, p.sku, p.uri, p.amount, p.bps)
	}
	if err != nil {
		logger.WarnCtx(ctx, "Mint submission failed",
			zap.String("op", p.op), zap.String("tokenID", tokenID.String()), zap.Error(err))
		return nil, domain.NewOperationError(p.op, domain.ErrMintFailed, err, "")
	}
	logger.InfoCtx(ctx, "Mint submitted",
		zap.String("op", p.op), zap.String("tokenID", tokenID.String()), zap.String("txHash", sub.TxHash))

	receipt, err := s.ledger.WaitConfirmed(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionReverted) {
			// a competing mint may have won between pre-flight and inclusion
			if s.existsAfterRevert(ctx, tokenID) {
				err = fmt.Errorf("%w: %w", domain.ErrTokenAlreadyExists, err)
			}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			reportPendingMint(ctx, p, tokenID, sub.TxHash)
		}
		return nil, s.confirmationError(ctx, p.op, domain.ErrMintFailed, err, sub.TxHash)
	}

	result := &MintResult{
		TokenID:     tokenID,
		SKU:         p.sku,
		Kind:        p.kind,
		Amount:      p.amount,
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
	}
	logger.InfoCtx(ctx, "Mint confirmed",
		zap.String("op", p.op),
		zap.String("tokenID", tokenID.String()),
		zap.String("txHash", receipt.TxHash),
		zap.Uint64("blockNumber", receipt.BlockNumber))

	s.mirrorMint(ctx, p, result)
	return result, nil
}

func (s *service) existsAfterRevert(ctx context.Context, tokenID *big.Int) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorWriteTimeout)
	defer cancel()
	exists, err := s.ledger.Exists(ctx, tokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to re-check reverted mint", zap.String("tokenID", tokenID.String()), zap.Error(err))
		return false
	}
	return exists
}

// reportPendingMint records what is needed to backfill the mirror once the transaction lands.
// mirror-sync only refreshes existing records, so nothing else will create this one.
func reportPendingMint(ctx context.Context, p *mintParams, tokenID *big.Int, txHash string) {
	logger.ErrorCtx(ctx, fmt.Errorf("mint of token %s still pending, mirror record not written", tokenID),
		zap.String("op", p.op),
		zap.String("tokenID", tokenID.String()),
		zap.String("sku", p.sku.String()),
		zap.String("kind", p.kind.String()),
		zap.String("artisan", p.to.Hex()),
		zap.String("tokenURI", p.uri),
		zap.String("amount", p.amount.String()),
		zap.Uint16("royaltyBps", p.bps),
		zap.String("txHash", txHash),
	)
}

// confirmationError classifies a WaitConfirmed failure. Deadline expiry leaves the transaction pending.
func (s *service) confirmationError(ctx context.Context, op string, kind, err error, txHash string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		logger.WarnCtx(ctx, "Transaction not confirmed in time",
			zap.String("op", op), zap.String("txHash", txHash), zap.Duration("timeout", s.cfg.ConfirmationTimeout))
		return domain.NewOperationError(op, domain.ErrConfirmationTimeout, err, txHash)
	}
	logger.WarnCtx(ctx, "Transaction failed", zap.String("op", op), zap.String("txHash", txHash), zap.Error(err))
	return domain.NewOperationError(op, kind, err, txHash)
}

func (s *service) mirrorMint(ctx context.Context, p *mintParams, result *MintResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorWriteTimeout)
	defer cancel()

	now := s.clock.Now().UTC()
	record := &schema.Token{
		TokenID:         result.TokenID.String(),
		SKU:             p.sku.String(),
		Kind:            schema.Kind(p.kind.String()),
		ArtisanID:       p.to.Hex(),
		TokenURI:        p.uri,
		RoyaltyBps:      int(p.bps),
		TxHash:          result.TxHash,
		BlockNumber:     int64(result.BlockNumber),
		ContractAddress: s.ledger.ContractAddress().Hex(),
		Chain:           string(s.ledger.Chain()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.kind == domain.KindRights {
		record.Amount = types.StringPtr(p.amount.String())
	}
	if err := s.store.PutToken(ctx, record); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mirror minted token: %w", err), zap.String("tokenID", record.TokenID))
	}

	did := domain.NewDID(record.ArtisanID, s.ledger.Chain())
	s.publish(ctx, &domain.TokenEvent{
		Type:        domain.EventTypeMinted,
		TokenID:     record.TokenID,
		SKU:         record.SKU,
		Kind:        string(record.Kind),
		ArtisanDID:  &did,
		Amount:      types.StringPtr(p.amount.String()),
		TxHash:      result.TxHash,
		BlockNumber: result.BlockNumber,
		Timestamp:   now,
	})
}

func (s *service) publish(ctx context.Context, event *domain.TokenEvent) {
	event.Chain = s.ledger.Chain()
	event.ContractAddress = s.ledger.ContractAddress().Hex()
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to publish %s event: %w", event.Type, err), zap.String("tokenID", event.TokenID))
	}
}

func (s *service) BindLicense(ctx context.Context, req BindLicenseRequest) (*BindLicenseResult, error) {
	licenseCID := strings.TrimSpace(req.LicenseCID)
	if req.TokenID == nil || req.TokenID.Sign() < 0 {
		return nil, fmt.Errorf("%w: tokenId is required", domain.ErrInvalidTokenID)
	}
	if licenseCID == "" {
		return nil, fmt.Errorf("%w: licenseCid is required", domain.ErrInvalidInput)
	}
	tokenID := req.TokenID.String()

	if s.cfg.LicensePolicy == domain.LICENSE_POLICY_IMMUTABLE {
		if err := s.checkLicenseUnbound(ctx, tokenID, licenseCID); err != nil {
			return nil, domain.NewOperationError(opBindLicense, domain.ErrBindLicenseFailed, err, "")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConfirmationTimeout)
	defer cancel()

	sub, err := s.ledger.BindLicense(ctx, req.TokenID, licenseCID)
	if err != nil {
		logger.WarnCtx(ctx, "License binding rejected", zap.String("tokenID", tokenID), zap.Error(err))
		return nil, domain.NewOperationError(opBindLicense, domain.ErrBindLicenseFailed, err, "")
	}

	receipt, err := s.ledger.WaitConfirmed(ctx, sub)
	if err != nil {
		return nil, s.confirmationError(ctx, opBindLicense, domain.ErrBindLicenseFailed, err, sub.TxHash)
	}

	recordedAt := s.clock.Now().UTC()
	logger.InfoCtx(ctx, "License bound",
		zap.String("tokenID", tokenID), zap.String("licenseCID", licenseCID), zap.String("txHash", receipt.TxHash))

	mirrorCtx, mirrorCancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorWriteTimeout)
	defer mirrorCancel()
	update := store.TokenUpdate{LicenseCID: types.StringPtr(licenseCID), UpdatedAt: recordedAt}
	if err := s.store.MergeToken(mirrorCtx, tokenID, update); err != nil {
		logger.ErrorCtx(mirrorCtx, fmt.Errorf("failed to mirror license binding: %w", err), zap.String("tokenID", tokenID))
	}
	s.publish(mirrorCtx, &domain.TokenEvent{
		Type:        domain.EventTypeLicenseBound,
		TokenID:     tokenID,
		LicenseCID:  types.StringPtr(licenseCID),
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		Timestamp:   recordedAt,
	})

	return &BindLicenseResult{TxHash: receipt.TxHash, RecordedAt: recordedAt}, nil
}

// checkLicenseUnbound enforces the immutable policy against the mirror.
// The ledger does not guard rebinding, so a mirror read failure lets the binding through.
func (s *service) checkLicenseUnbound(ctx context.Context, tokenID, licenseCID string) error {
	record, err := s.store.GetToken(ctx, tokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Could not check existing license binding", zap.String("tokenID", tokenID), zap.Error(err))
		return nil
	}
	if record == nil || types.StringNilOrEmpty(record.LicenseCID) || *record.LicenseCID == licenseCID {
		return nil
	}
	return fmt.Errorf("%w: token %s is bound to %s", domain.ErrLicenseAlreadyBound, tokenID, *record.LicenseCID)
}

func (s *service) RecordProvenanceNote(ctx context.Context, req ProvenanceNoteRequest) (*ProvenanceNoteResult, error) {
	ref := strings.TrimSpace(req.Ref)
	if req.TokenID == nil || req.TokenID.Sign() < 0 {
		return nil, fmt.Errorf("%w: tokenId is required", domain.ErrInvalidTokenID)
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: ref is required", domain.ErrInvalidInput)
	}
	tokenID := req.TokenID.String()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConfirmationTimeout)
	defer cancel()

	sub, err := s.ledger.RecordProvenanceNote(ctx, req.TokenID, ref)
	if err != nil {
		logger.WarnCtx(ctx, "Provenance note rejected", zap.String("tokenID", tokenID), zap.Error(err))
		return nil, domain.NewOperationError(opRecordProvenance, domain.ErrProvenanceFailed, err, "")
	}

	receipt, err := s.ledger.WaitConfirmed(ctx, sub)
	if err != nil {
		return nil, s.confirmationError(ctx, opRecordProvenance, domain.ErrProvenanceFailed, err, sub.TxHash)
	}

	recordedAt := s.clock.Now().UTC()
	eventID := ulid.MustNewDefault(recordedAt).String()
	logger.InfoCtx(ctx, "Provenance note recorded",
		zap.String("tokenID", tokenID), zap.String("eventID", eventID), zap.String("txHash", receipt.TxHash))

	mirrorCtx, mirrorCancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorWriteTimeout)
	defer mirrorCancel()
	event := &schema.ProvenanceEvent{
		ID:                 eventID,
		TokenID:            tokenID,
		Ref:                ref,
		TxHash:             types.StringPtr(receipt.TxHash),
		BlockchainRecorded: true,
		Timestamp:          recordedAt,
	}
	if summary := strings.TrimSpace(req.Summary); summary != "" {
		event.Summary = types.StringPtr(summary)
	}
	if _, err := s.store.AppendProvenance(mirrorCtx, event); err != nil {
		logger.ErrorCtx(mirrorCtx, fmt.Errorf("failed to mirror provenance note: %w", err), zap.String("tokenID", tokenID))
	}
	s.publish(mirrorCtx, &domain.TokenEvent{
		Type:          domain.EventTypeProvenanceRecorded,
		TokenID:       tokenID,
		ProvenanceRef: types.StringPtr(ref),
		TxHash:        receipt.TxHash,
		BlockNumber:   receipt.BlockNumber,
		Timestamp:     recordedAt,
	})

	return &ProvenanceNoteResult{EventID: eventID, TxHash: receipt.TxHash, RecordedAt: recordedAt}, nil
}

func (s *service) GetTokenInfo(ctx context.Context, tokenID *big.Int) (*TokenInfo, error) {
	if tokenID == nil || tokenID.Sign() < 0 {
		return nil, domain.ErrInvalidTokenID
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	exists, err := s.ledger.Exists(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrTokenNotFound, tokenID.String())
	}

	uri, err := s.ledger.URI(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to read token uri: %w", err)
	}
	supply, err := s.ledger.TotalSupply(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to read total supply: %w", err)
	}

	sku, kind := domain.DecodeTokenID(tokenID)
	return &TokenInfo{
		TokenID:     new(big.Int).Set(tokenID),
		SKU:         sku,
		Kind:        kind,
		TokenURI:    uri,
		TotalSupply: supply,
		Exists:      true,
	}, nil
}

func (s *service) GetTokenDetails(ctx context.Context, tokenID *big.Int) (*TokenDetails, error) {
	info, err := s.GetTokenInfo(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	details := &TokenDetails{Info: info, ProvenanceEvents: []schema.ProvenanceEvent{}}
	id := tokenID.String()

	record, err := s.store.GetToken(ctx, id)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read mirror record", zap.String("tokenID", id), zap.Error(err))
	} else {
		details.Record = record
	}

	events, err := s.store.ListProvenance(ctx, id, detailsProvenanceLimit)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read provenance events", zap.String("tokenID", id), zap.Error(err))
	} else if events != nil {
		details.ProvenanceEvents = events
	}

	return details, nil
}

func (s *service) ListTokens(ctx context.Context, filter store.TokenFilter) ([]schema.Token, error) {
	return s.store.ListTokens(ctx, filter)
}

func (s *service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.GetStats(ctx)
}
