package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/artivio/artivio-chain/internal/domain"
)

// Submission identifies a transaction accepted by the ledger but not yet confirmed
type Submission struct {
	TxHash string
	Nonce  uint64
}

// Receipt is the confirmation of a submitted transaction
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	Success     bool
}

// RoyaltyInfo is the result of an EIP-2981 royalty query
type RoyaltyInfo struct {
	Receiver common.Address
	Amount   *big.Int
}

// Ledger is the token contract as seen by the service.
// Mutating calls return once the transaction is submitted; WaitConfirmed blocks until it is mined.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Ledger=MockLedger
type Ledger interface {
	// MintCoA mints the single certificate-of-authenticity token for a sku
	MintCoA(ctx context.Context, to common.Address, sku *big.Int, tokenURI string, royaltyBps uint16) (*Submission, error)

	// MintRights mints a fungible batch of rights tokens for a sku
	MintRights(ctx context.Context, to common.Address, sku *big.Int, tokenURI string, amount *big.Int, royaltyBps uint16) (*Submission, error)

	// BindLicense associates a license document with an existing token
	BindLicense(ctx context.Context, tokenID *big.Int, licenseCID string) (*Submission, error)

	// RecordProvenanceNote appends a provenance reference to an existing token
	RecordProvenanceNote(ctx context.Context, tokenID *big.Int, ref string) (*Submission, error)

	// WaitConfirmed blocks until the submission is mined or ctx is done.
	// A mined but failed transaction returns its receipt together with domain.ErrTransactionReverted.
	WaitConfirmed(ctx context.Context, sub *Submission) (*Receipt, error)

	// URI returns the metadata uri of a token
	URI(ctx context.Context, tokenID *big.Int) (string, error)

	// Exists reports whether a token has been minted
	Exists(ctx context.Context, tokenID *big.Int) (bool, error)

	// TotalSupply returns the number of units of a token in existence
	TotalSupply(ctx context.Context, tokenID *big.Int) (*big.Int, error)

	// RoyaltyInfo returns the royalty receiver and amount for a sale price
	RoyaltyInfo(ctx context.Context, tokenID *big.Int, salePrice *big.Int) (*RoyaltyInfo, error)

	// ContractAddress returns the address of the token contract
	ContractAddress() common.Address

	// Chain returns the network the contract lives on
	Chain() domain.Chain
}
