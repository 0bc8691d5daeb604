package dto

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	apierrors "github.com/artivio/artivio-chain/internal/api/shared/errors"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/minting"
	"github.com/artivio/artivio-chain/internal/pinning"
	"github.com/artivio/artivio-chain/internal/types"
)

// MintCoARequest represents the request body for minting a certificate of authenticity.
// Numeric fields accept JSON numbers or decimal strings.
type MintCoARequest struct {
	SKU        json.Number  `json:"sku"`
	ArtisanID  string       `json:"artisanId"`
	TokenURI   string       `json:"tokenURI"`
	RoyaltyBps *json.Number `json:"royaltyBps,omitempty"`
}

// Parse validates the request body and converts it to a minting request
func (r *MintCoARequest) Parse() (*minting.MintCertificateRequest, error) {
	sku, err := parseSKU(r.SKU)
	if err != nil {
		return nil, err
	}
	if err := validateArtisan(r.ArtisanID); err != nil {
		return nil, err
	}
	if err := validateTokenURI(r.TokenURI); err != nil {
		return nil, err
	}
	royalty, err := parseRoyaltyBps(r.RoyaltyBps)
	if err != nil {
		return nil, err
	}

	return &minting.MintCertificateRequest{
		SKU:            sku,
		ArtisanAddress: strings.TrimSpace(r.ArtisanID),
		TokenURI:       r.TokenURI,
		RoyaltyBps:     royalty,
	}, nil
}

// MintRightsRequest represents the request body for minting a rights bundle
type MintRightsRequest struct {
	SKU        json.Number  `json:"sku"`
	ArtisanID  string       `json:"artisanId"`
	TokenURI   string       `json:"tokenURI"`
	Amount     json.Number  `json:"amount"`
	RoyaltyBps *json.Number `json:"royaltyBps,omitempty"`
}

// Parse validates the request body and converts it to a minting request
func (r *MintRightsRequest) Parse() (*minting.MintRightsRequest, error) {
	sku, err := parseSKU(r.SKU)
	if err != nil {
		return nil, err
	}
	if err := validateArtisan(r.ArtisanID); err != nil {
		return nil, err
	}
	if err := validateTokenURI(r.TokenURI); err != nil {
		return nil, err
	}

	if !types.IsPositiveNumeric(r.Amount.String()) {
		return nil, apierrors.NewValidationError("amount must be a positive integer")
	}
	amount, _ := new(big.Int).SetString(r.Amount.String(), 10)

	royalty, err := parseRoyaltyBps(r.RoyaltyBps)
	if err != nil {
		return nil, err
	}

	return &minting.MintRightsRequest{
		SKU:            sku,
		ArtisanAddress: strings.TrimSpace(r.ArtisanID),
		TokenURI:       r.TokenURI,
		Amount:         amount,
		RoyaltyBps:     royalty,
	}, nil
}

// UploadMetadataRequest represents the request body for pinning token metadata
type UploadMetadataRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	ImageCID    string                 `json:"imageCID"`
	ExternalURL string                 `json:"externalUrl"`
	Attributes  []pinning.Attribute    `json:"attributes"`
	License     map[string]interface{} `json:"license"`
	Provenance  map[string]interface{} `json:"provenance"`
}

// Parse validates the request body
func (r *UploadMetadataRequest) Parse() (*pinning.NFTMetadataInput, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, apierrors.NewValidationError("name is required")
	}
	if strings.TrimSpace(r.ImageCID) == "" {
		return nil, apierrors.NewValidationError("imageCID is required")
	}
	if r.ExternalURL != "" && !types.IsValidURL(r.ExternalURL) {
		return nil, apierrors.NewValidationError("externalUrl must be an http(s) URL")
	}

	return &pinning.NFTMetadataInput{
		Name:        r.Name,
		Description: r.Description,
		ImageCID:    strings.TrimSpace(r.ImageCID),
		ExternalURL: r.ExternalURL,
		Attributes:  r.Attributes,
		License:     r.License,
		Provenance:  r.Provenance,
	}, nil
}

// BindLicenseRequest represents the request body for binding a license to a token
type BindLicenseRequest struct {
	TokenID    json.Number `json:"tokenId"`
	LicenseCID string      `json:"licenseCid"`
}

// Parse validates the request body
func (r *BindLicenseRequest) Parse() (*minting.BindLicenseRequest, error) {
	tokenID, err := ParseTokenID(r.TokenID.String())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.LicenseCID) == "" {
		return nil, apierrors.NewValidationError("licenseCid is required")
	}

	return &minting.BindLicenseRequest{
		TokenID:    tokenID,
		LicenseCID: strings.TrimSpace(r.LicenseCID),
	}, nil
}

// ProvenanceNoteRequest represents the request body for recording a provenance note
type ProvenanceNoteRequest struct {
	TokenID json.Number `json:"tokenId"`
	Ref     string      `json:"ref"`
	Summary *string     `json:"summary,omitempty"`
}

// Parse validates the request body
func (r *ProvenanceNoteRequest) Parse() (*minting.ProvenanceNoteRequest, error) {
	tokenID, err := ParseTokenID(r.TokenID.String())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Ref) == "" {
		return nil, apierrors.NewValidationError("ref is required")
	}

	var summary string
	if r.Summary != nil {
		summary = strings.TrimSpace(*r.Summary)
	}

	return &minting.ProvenanceNoteRequest{
		TokenID: tokenID,
		Ref:     strings.TrimSpace(r.Ref),
		Summary: summary,
	}, nil
}

// VerifyRequest represents the request body for verifying a token
type VerifyRequest struct {
	TokenID json.Number `json:"tokenId"`
}

// UploadJSONRequest represents the request body for pinning arbitrary JSON
type UploadJSONRequest struct {
	Data     json.RawMessage `json:"data"`
	FileName string          `json:"fileName"`
}

// Validate validates the request body
func (r *UploadJSONRequest) Validate() error {
	trimmed := strings.TrimSpace(string(r.Data))
	if trimmed == "" || trimmed == "null" {
		return apierrors.NewValidationError("data is required")
	}
	return nil
}

// ParseTokenID validates a decimal token id from a path or body
func ParseTokenID(s string) (*big.Int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, apierrors.NewValidationError("tokenId is required")
	}
	id, err := domain.ParseTokenID(s)
	if err != nil {
		return nil, apierrors.NewValidationError(fmt.Sprintf("tokenId must be a non-negative integer: %s", s))
	}
	return id, nil
}

func parseSKU(n json.Number) (*big.Int, error) {
	if n.String() == "" {
		return nil, apierrors.NewValidationError("sku is required")
	}
	if !types.IsPositiveNumeric(n.String()) {
		return nil, apierrors.NewValidationError("sku must be a positive integer")
	}
	sku, err := domain.ParseSKU(n.String())
	if err != nil {
		return nil, apierrors.NewValidationError("sku is out of range")
	}
	return sku, nil
}

func validateArtisan(address string) error {
	if strings.TrimSpace(address) == "" {
		return apierrors.NewValidationError("artisanId is required")
	}
	if _, err := types.ParseEthereumAddress(address); err != nil {
		return apierrors.NewValidationError("artisanId must be a valid account address")
	}
	return nil
}

func validateTokenURI(uri string) error {
	if uri == "" {
		return apierrors.NewValidationError("tokenURI is required")
	}
	if !types.IsValidURI(uri) {
		return apierrors.NewValidationError("tokenURI must be an absolute URI")
	}
	return nil
}

func parseRoyaltyBps(n *json.Number) (*int, error) {
	if n == nil {
		return nil, nil
	}
	bps, err := strconv.Atoi(n.String())
	if err != nil || bps < 0 || bps > domain.MAX_ROYALTY_BPS {
		return nil, apierrors.NewValidationError(fmt.Sprintf("royaltyBps must be an integer between 0 and %d", domain.MAX_ROYALTY_BPS))
	}
	return &bps, nil
}
