package dto

import (
	"time"

	"github.com/artivio/artivio-chain/internal/minting"
)

// MintCoAResponse represents the response for a confirmed certificate mint
type MintCoAResponse struct {
	TokenID     string `json:"tokenId"`
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
}

// MintRightsResponse represents the response for a confirmed rights mint
type MintRightsResponse struct {
	TokenID     string `json:"tokenId"`
	Amount      string `json:"amount"`
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
}

// BindLicenseResponse represents the response for a confirmed license binding
type BindLicenseResponse struct {
	OK         bool      `json:"ok"`
	TxHash     string    `json:"txHash"`
	RecordedAt time.Time `json:"recordedAt"`
}

// ProvenanceNoteResponse represents the response for a confirmed provenance note
type ProvenanceNoteResponse struct {
	OK         bool      `json:"ok"`
	EventID    string    `json:"eventId"`
	TxHash     string    `json:"txHash"`
	RecordedAt time.Time `json:"recordedAt"`
}

// RoyaltyResponse represents the royalty terms read from the ledger
type RoyaltyResponse struct {
	Receiver string `json:"receiver"`
	Bps      uint16 `json:"bps"`
}

// VerifyResponse represents the outcome of a token verification
type VerifyResponse struct {
	Valid       bool             `json:"valid"`
	TokenID     string           `json:"tokenId"`
	SKU         string           `json:"sku,omitempty"`
	Kind        string           `json:"kind,omitempty"`
	TokenURI    string           `json:"tokenURI,omitempty"`
	TotalSupply string           `json:"totalSupply,omitempty"`
	Royalty     *RoyaltyResponse `json:"royalty,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// NewVerifyResponse maps a verification result
func NewVerifyResponse(r *minting.VerificationResult) VerifyResponse {
	resp := VerifyResponse{
		Valid:    r.Valid,
		TokenURI: r.TokenURI,
		Error:    r.Error,
	}
	if r.TokenID != nil {
		resp.TokenID = r.TokenID.String()
	}
	if r.Valid {
		resp.Kind = r.Kind.String()
	}
	if r.SKU != nil {
		resp.SKU = r.SKU.String()
	}
	if r.TotalSupply != nil {
		resp.TotalSupply = r.TotalSupply.String()
	}
	if r.Royalty != nil {
		resp.Royalty = &RoyaltyResponse{Receiver: r.Royalty.Receiver, Bps: r.Royalty.Bps}
	}
	return resp
}

// ListTokensResponse represents a page of mirrored tokens
type ListTokensResponse struct {
	Tokens []TokenRecordResponse `json:"tokens"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// StatsResponse represents dashboard statistics of the mirror
type StatsResponse struct {
	TotalTokens   int64                     `json:"totalTokens"`
	TotalCoA      int64                     `json:"totalCoA"`
	TotalRights   int64                     `json:"totalRights"`
	TotalArtisans int64                     `json:"totalArtisans"`
	TotalEvents   int64                     `json:"totalEvents"`
	RecentTokens  []TokenRecordResponse     `json:"recentTokens"`
	RecentEvents  []ProvenanceEventResponse `json:"recentEvents"`
}

// ServiceInfoResponse describes the running service
type ServiceInfoResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Network   string   `json:"network"`
	Chain     string   `json:"chain"`
	Contract  string   `json:"contract"`
	Endpoints []string `json:"endpoints"`
}
