package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainPolygonMainnet  Chain = "eip155:137"
	ChainPolygonAmoy     Chain = "eip155:80002"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainLocalDev        Chain = "eip155:31337"
)

// ChainFromID maps an EIP-155 chain id to its CAIP-2 identifier
func ChainFromID(chainID int64) Chain {
	return Chain(fmt.Sprintf("eip155:%d", chainID))
}

// NetworkName returns a human readable name for known networks
func (c Chain) NetworkName() string {
	switch c {
	case ChainPolygonMainnet:
		return "polygon"
	case ChainPolygonAmoy:
		return "polygon-amoy"
	case ChainEthereumSepolia:
		return "sepolia"
	case ChainLocalDev:
		return "localhost"
	default:
		return string(c)
	}
}

// EventType represents a token lifecycle event published after ledger confirmation
type EventType string

const (
	EventTypeMinted             EventType = "token.minted"
	EventTypeLicenseBound       EventType = "license.bound"
	EventTypeProvenanceRecorded EventType = "provenance.recorded"
)

// TokenEvent is the message published to the event stream
type TokenEvent struct {
	Type            EventType `json:"type"`
	Chain           Chain     `json:"chain"`
	ContractAddress string    `json:"contract_address"`
	TokenID         string    `json:"token_id"`
	SKU             string    `json:"sku"`
	Kind            string    `json:"kind"`
	ArtisanDID      *DID      `json:"artisan_did,omitempty"`
	Amount          *string   `json:"amount,omitempty"`
	LicenseCID      *string   `json:"license_cid,omitempty"`
	ProvenanceRef   *string   `json:"provenance_ref,omitempty"`
	TxHash          string    `json:"tx_hash"`
	BlockNumber     uint64    `json:"block_number"`
	Timestamp       time.Time `json:"timestamp"`
}

// DID represents a Decentralized Identifier (W3C standard)
type DID string

// NewDID creates a did:pkh identifier for an account on a chain
// Reference: https://github.com/w3c-ccg/did-pkh
func NewDID(address string, chain Chain) DID {
	return DID(fmt.Sprintf("did:pkh:%s:%s", strings.ToLower(string(chain)), strings.ToLower(address)))
}

func (d DID) String() string {
	return string(d)
}

// NormalizeAddress returns the EIP-55 checksummed form of a hex address
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		return common.HexToAddress(address).Hex()
	}
	return address
}
