package schema

import (
	"time"
)

// Kind is the token class stored in the mirror
type Kind string

const (
	// KindCoA is the single certificate-of-authenticity token of a sku
	KindCoA Kind = "CoA"
	// KindRights is the fungible rights token of a sku
	KindRights Kind = "Rights"
)

// Token represents the tokens table: the off-chain mirror of a minted token.
// The same struct is stored as a document in the Firestore tokens collection.
type Token struct {
	// TokenID is the decimal ledger token id and the primary key
	TokenID string `gorm:"column:token_id;primaryKey;type:text" firestore:"tokenId"`
	// SKU is the decimal product identifier the token was derived from
	SKU string `gorm:"column:sku;not null;type:text;index:idx_tokens_sku" firestore:"sku"`
	// Kind is CoA or Rights
	Kind Kind `gorm:"column:kind;not null;type:text;index:idx_tokens_kind" firestore:"kind"`
	// ArtisanID is the checksummed address that received the token and its royalties
	ArtisanID string `gorm:"column:artisan_id;not null;type:text;index:idx_tokens_artisan_id" firestore:"artisanAddress"`
	// TokenURI is the metadata uri recorded at mint
	TokenURI string `gorm:"column:token_uri;not null;type:text" firestore:"tokenURI"`
	// RoyaltyBps is the royalty in basis points
	RoyaltyBps int `gorm:"column:royalty_bps;not null" firestore:"royaltyBps"`
	// Amount is the minted supply for rights tokens (nil for CoA)
	Amount *string `gorm:"column:amount;type:text" firestore:"amount,omitempty"`
	// TxHash is the hash of the mint transaction
	TxHash string `gorm:"column:tx_hash;not null;type:text" firestore:"txHash"`
	// BlockNumber is the block the mint was confirmed in
	BlockNumber int64 `gorm:"column:block_number;not null" firestore:"blockNumber"`
	// ContractAddress is the token contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text" firestore:"contractAddress"`
	// Chain is the CAIP-2 network identifier
	Chain string `gorm:"column:chain;not null;type:text" firestore:"chain"`
	// LicenseCID is the most recently bound license document
	LicenseCID *string `gorm:"column:license_cid;type:text" firestore:"licenseCid,omitempty"`
	// CreatedAt is when the mirror record was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_tokens_created_at" firestore:"createdAt"`
	// UpdatedAt is when the mirror record was last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null" firestore:"updatedAt"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
