package minting

import (
	"context"
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/logger"
)

func (s *service) VerifyToken(ctx context.Context, tokenID *big.Int) *VerificationResult {
	info, err := s.GetTokenInfo(ctx, tokenID)
	if err != nil {
		return invalidResult(ctx, tokenID, err)
	}

	readCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	royalty, err := s.ledger.RoyaltyInfo(readCtx, tokenID, s.cfg.RoyaltyReferenceSale)
	if err != nil {
		return invalidResult(ctx, tokenID, err)
	}

	return &VerificationResult{
		Valid:       true,
		TokenID:     info.TokenID,
		SKU:         info.SKU,
		Kind:        info.Kind,
		TokenURI:    info.TokenURI,
		TotalSupply: info.TotalSupply,
		Royalty: &Royalty{
			Receiver: royalty.Receiver.Hex(),
			Bps:      RoyaltyBpsFromAmount(royalty.Amount, s.cfg.RoyaltyReferenceSale),
		},
	}
}

func invalidResult(ctx context.Context, tokenID *big.Int, err error) *VerificationResult {
	result := &VerificationResult{Valid: false, TokenID: tokenID, Err: err}
	if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrInvalidTokenID) {
		result.Error = err.Error()
		return result
	}

	logger.WarnCtx(ctx, "Token verification failed", zap.Error(err))
	result.Error = "token could not be verified against the ledger"
	return result
}

// RoyaltyBpsFromAmount recovers basis points from a royalty amount quoted against reference,
// rounding half up: (amount*10000 + reference/2) / reference.
// The result is clamped to 10000.
func RoyaltyBpsFromAmount(amount, reference *big.Int) uint16 {
	if amount == nil || reference == nil || reference.Sign() <= 0 || amount.Sign() <= 0 {
		return 0
	}

	bps := new(big.Int).Mul(amount, big.NewInt(domain.MAX_ROYALTY_BPS))
	bps.Add(bps, new(big.Int).Rsh(reference, 1))
	bps.Quo(bps, reference)

	if bps.Cmp(big.NewInt(domain.MAX_ROYALTY_BPS)) > 0 {
		return domain.MAX_ROYALTY_BPS
	}
	return uint16(bps.Uint64())
}
