package minting

import (
	"math/big"
	"time"

	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/store/schema"
)

// MintCertificateRequest mints the certificate-of-authenticity token of a sku.
// A nil RoyaltyBps uses the configured default.
type MintCertificateRequest struct {
	SKU            *big.Int
	ArtisanAddress string
	TokenURI       string
	RoyaltyBps     *int
}

// MintRightsRequest mints Amount units of the rights token of a sku
type MintRightsRequest struct {
	SKU            *big.Int
	ArtisanAddress string
	TokenURI       string
	Amount         *big.Int
	RoyaltyBps     *int
}

// MintResult is returned once a mint transaction is confirmed
type MintResult struct {
	TokenID     *big.Int
	SKU         *big.Int
	Kind        domain.TokenKind
	Amount      *big.Int
	TxHash      string
	BlockNumber uint64
}

type BindLicenseRequest struct {
	TokenID    *big.Int
	LicenseCID string
}

// BindLicenseResult carries the service wall clock time, not the block time
type BindLicenseResult struct {
	TxHash     string
	RecordedAt time.Time
}

// ProvenanceNoteRequest records Ref on the ledger; Summary is kept in the mirror only
type ProvenanceNoteRequest struct {
	TokenID *big.Int
	Ref     string
	Summary string
}

type ProvenanceNoteResult struct {
	EventID    string
	TxHash     string
	RecordedAt time.Time
}

// TokenInfo is the ledger view of a token
type TokenInfo struct {
	TokenID     *big.Int
	SKU         *big.Int
	Kind        domain.TokenKind
	TokenURI    string
	TotalSupply *big.Int
	Exists      bool
}

// TokenDetails merges the ledger view with the mirror record and its provenance.
// Record is nil when the mirror has no copy of the token.
type TokenDetails struct {
	Info             *TokenInfo
	Record           *schema.Token
	ProvenanceEvents []schema.ProvenanceEvent
}

type Royalty struct {
	Receiver string
	Bps      uint16
}

// VerificationResult is either a valid token with its royalty terms or Valid=false with a reason
type VerificationResult struct {
	Valid       bool
	TokenID     *big.Int
	SKU         *big.Int
	Kind        domain.TokenKind
	TokenURI    string
	TotalSupply *big.Int
	Royalty     *Royalty
	Error       string
	// Err is the underlying failure, for logging only
	Err error
}
