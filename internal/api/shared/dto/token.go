package dto

import (
	"time"

	"github.com/artivio/artivio-chain/internal/minting"
	"github.com/artivio/artivio-chain/internal/store/schema"
)

// TokenResponse represents a token as read from the ledger, with its mirror record
type TokenResponse struct {
	TokenID     string `json:"tokenId"`
	SKU         string `json:"sku"`
	Kind        string `json:"kind"`
	TokenURI    string `json:"tokenURI"`
	TotalSupply string `json:"totalSupply"`
	Exists      bool   `json:"exists"`

	Record           *TokenRecordResponse      `json:"record"`
	ProvenanceEvents []ProvenanceEventResponse `json:"provenanceEvents"`
}

// TokenRecordResponse represents a mirrored token record
type TokenRecordResponse struct {
	TokenID         string    `json:"tokenId"`
	SKU             string    `json:"sku"`
	Kind            string    `json:"kind"`
	ArtisanID       string    `json:"artisanId"`
	TokenURI        string    `json:"tokenURI"`
	RoyaltyBps      int       `json:"royaltyBps"`
	Amount          *string   `json:"amount,omitempty"`
	TxHash          string    `json:"txHash"`
	BlockNumber     int64     `json:"blockNumber"`
	ContractAddress string    `json:"contractAddress"`
	Chain           string    `json:"chain"`
	LicenseCID      *string   `json:"licenseCid,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProvenanceEventResponse represents a mirrored provenance event
type ProvenanceEventResponse struct {
	ID                 string    `json:"id"`
	TokenID            string    `json:"tokenId"`
	Ref                string    `json:"ref"`
	Summary            *string   `json:"summary,omitempty"`
	TxHash             *string   `json:"txHash,omitempty"`
	BlockchainRecorded bool      `json:"blockchainRecorded"`
	Timestamp          time.Time `json:"timestamp"`
}

// NewTokenResponse maps the ledger view and mirror record of a token
func NewTokenResponse(details *minting.TokenDetails) TokenResponse {
	info := details.Info
	resp := TokenResponse{
		TokenID:          info.TokenID.String(),
		SKU:              info.SKU.String(),
		Kind:             info.Kind.String(),
		TokenURI:         info.TokenURI,
		Exists:           info.Exists,
		ProvenanceEvents: NewProvenanceEventResponses(details.ProvenanceEvents),
	}
	if info.TotalSupply != nil {
		resp.TotalSupply = info.TotalSupply.String()
	}
	if details.Record != nil {
		record := NewTokenRecordResponse(*details.Record)
		resp.Record = &record
	}
	return resp
}

// NewTokenRecordResponse maps a mirror record
func NewTokenRecordResponse(t schema.Token) TokenRecordResponse {
	return TokenRecordResponse{
		TokenID:         t.TokenID,
		SKU:             t.SKU,
		Kind:            string(t.Kind),
		ArtisanID:       t.ArtisanID,
		TokenURI:        t.TokenURI,
		RoyaltyBps:      t.RoyaltyBps,
		Amount:          t.Amount,
		TxHash:          t.TxHash,
		BlockNumber:     t.BlockNumber,
		ContractAddress: t.ContractAddress,
		Chain:           t.Chain,
		LicenseCID:      t.LicenseCID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// NewTokenRecordResponses maps a list of mirror records, never returning nil
func NewTokenRecordResponses(tokens []schema.Token) []TokenRecordResponse {
	out := make([]TokenRecordResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, NewTokenRecordResponse(t))
	}
	return out
}

// NewProvenanceEventResponses maps a list of provenance events, never returning nil
func NewProvenanceEventResponses(events []schema.ProvenanceEvent) []ProvenanceEventResponse {
	out := make([]ProvenanceEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, ProvenanceEventResponse{
			ID:                 e.ID,
			TokenID:            e.TokenID,
			Ref:                e.Ref,
			Summary:            e.Summary,
			TxHash:             e.TxHash,
			BlockchainRecorded: e.BlockchainRecorded,
			Timestamp:          e.Timestamp,
		})
	}
	return out
}
