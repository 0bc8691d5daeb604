package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/types"
)

const (
	// MaxFileSize is the largest file accepted for pinning
	MaxFileSize = 10 << 20

	defaultJSONFileName = "data.json"
	licenseFileName     = "license.json"
	rightsNotice        = "See license."
)

var whitespace = regexp.MustCompile(`\s+`)

// Config holds the Pinata credentials and endpoints
type Config struct {
	JWT        string
	APIURL     string
	GatewayURL string
}

// Client pins documents and files to IPFS
//
//go:generate mockgen -source=pinata.go -destination=../mocks/pinning.go -package=mocks -mock_names=Client=MockPinningClient
type Client interface {
	// UploadJSON pins data as canonical JSON under fileName
	UploadJSON(ctx context.Context, data interface{}, fileName string) (*PinResult, error)

	// UploadFile pins raw file content
	UploadFile(ctx context.Context, fileName string, content []byte) (*PinResult, error)

	// UploadNFTMetadata builds and pins a token metadata document
	UploadNFTMetadata(ctx context.Context, input NFTMetadataInput) (*PinResult, error)

	// UploadLicense builds and pins a machine-readable license
	UploadLicense(ctx context.Context, input LicenseInput) (*LicenseResult, error)

	// Usage returns the pinned data totals, or nil when Pinata does not report them
	Usage(ctx context.Context) (*Usage, error)
}

type pinataClient struct {
	cfg        Config
	httpClient adapter.HTTPClient
	json       adapter.JSON
	clock      adapter.Clock
}

// NewPinataClient creates a Pinata backed pinning client
func NewPinataClient(cfg Config, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, clock adapter.Clock) Client {
	if cfg.APIURL == "" {
		cfg.APIURL = domain.DEFAULT_PINATA_API_URL
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = domain.DEFAULT_PINATA_GATEWAY_URL
	}
	cfg.APIURL = strings.TrimSuffix(cfg.APIURL, "/")
	cfg.GatewayURL = strings.TrimSuffix(cfg.GatewayURL, "/")

	return &pinataClient{
		cfg:        cfg,
		httpClient: httpClient,
		json:       jsonAdapter,
		clock:      clock,
	}
}

type pinataMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues"`
}

type pinJSONRequest struct {
	PinataContent  json.RawMessage `json:"pinataContent"`
	PinataMetadata pinataMetadata  `json:"pinataMetadata"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (c *pinataClient) headers() http.Header {
	return http.Header{"Authorization": []string{"Bearer " + c.cfg.JWT}}
}

func (c *pinataClient) result(cid string) *PinResult {
	return &PinResult{
		CID:        cid,
		IPFSURL:    domain.IPFS_URL_PREFIX + cid,
		GatewayURL: fmt.Sprintf("%s/ipfs/%s", c.cfg.GatewayURL, cid),
	}
}

func (c *pinataClient) UploadJSON(ctx context.Context, data interface{}, fileName string) (*PinResult, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: no data provided", domain.ErrInvalidInput)
	}
	if fileName == "" {
		fileName = defaultJSONFileName
	}

	content, err := c.json.MarshalCanonical(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json content: %w", err)
	}
	body, err := c.json.Marshal(pinJSONRequest{
		PinataContent: content,
		PinataMetadata: pinataMetadata{
			Name: fileName,
			KeyValues: map[string]string{
				"uploadedAt": c.clock.Now().UTC().Format(time.RFC3339),
				"type":       "metadata",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode pin request: %w", err)
	}

	headers := c.headers()
	headers.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Post(ctx, c.cfg.APIURL+"/pinning/pinJSONToIPFS", headers, body)
	if err != nil {
		return nil, fmt.Errorf("%w: upload json: %w", domain.ErrPinningFailed, err)
	}

	return c.decodePin(ctx, resp, fileName)
}

func (c *pinataClient) UploadFile(ctx context.Context, fileName string, content []byte) (*PinResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", domain.ErrInvalidInput)
	}
	if len(content) > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, MaxFileSize)
	}
	if fileName == "" {
		fileName = "file"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	partHeader.Set("Content-Type", mimetype.Detect(content).String())
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}

	meta, err := c.json.Marshal(pinataMetadata{
		Name:      fileName,
		KeyValues: map[string]string{"uploadedAt": c.clock.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode pin metadata: %w", err)
	}
	if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
		return nil, fmt.Errorf("failed to write metadata field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	headers := c.headers()
	headers.Set("Content-Type", writer.FormDataContentType())
	resp, err := c.httpClient.Post(ctx, c.cfg.APIURL+"/pinning/pinFileToIPFS", headers, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: upload file: %w", domain.ErrPinningFailed, err)
	}

	return c.decodePin(ctx, resp, fileName)
}

func (c *pinataClient) decodePin(ctx context.Context, resp []byte, fileName string) (*PinResult, error) {
	var pinned pinResponse
	if err := c.json.Unmarshal(resp, &pinned); err != nil {
		return nil, fmt.Errorf("%w: failed to decode pin response: %w", domain.ErrPinningFailed, err)
	}
	if pinned.IpfsHash == "" {
		return nil, fmt.Errorf("%w: pin response has no hash", domain.ErrPinningFailed)
	}

	logger.InfoCtx(ctx, "Pinned content", zap.String("fileName", fileName), zap.String("cid", pinned.IpfsHash))
	return c.result(pinned.IpfsHash), nil
}

func (c *pinataClient) UploadNFTMetadata(ctx context.Context, input NFTMetadataInput) (*PinResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(input.ImageCID) == "" {
		return nil, fmt.Errorf("%w: imageCID is required", domain.ErrInvalidInput)
	}

	return c.UploadJSON(ctx, BuildNFTMetadata(input), whitespace.ReplaceAllString(input.Name, "_")+"_metadata.json")
}

// BuildNFTMetadata fills the metadata document, replacing absent collections by empty ones
func BuildNFTMetadata(input NFTMetadataInput) NFTMetadata {
	metadata := NFTMetadata{
		Name:         input.Name,
		Description:  input.Description,
		Image:        domain.IPFS_URL_PREFIX + strings.TrimPrefix(input.ImageCID, domain.IPFS_URL_PREFIX),
		ExternalURL:  input.ExternalURL,
		Attributes:   input.Attributes,
		License:      input.License,
		Provenance:   input.Provenance,
		RightsNotice: rightsNotice,
	}
	if metadata.Attributes == nil {
		metadata.Attributes = []Attribute{}
	}
	if metadata.License == nil {
		metadata.License = map[string]interface{}{}
	}
	if metadata.Provenance == nil {
		metadata.Provenance = map[string]interface{}{}
	}
	return metadata
}

func (c *pinataClient) UploadLicense(ctx context.Context, input LicenseInput) (*LicenseResult, error) {
	pinned, err := c.UploadJSON(ctx, BuildLicenseDocument(input), licenseFileName)
	if err != nil {
		return nil, err
	}

	result := &LicenseResult{
		Type:               input.Type,
		Editions:           input.Editions,
		MachineReadableURL: pinned.IPFSURL,
		CID:                pinned.CID,
	}
	if input.PDFURL != "" {
		result.HumanReadableURL = types.StringPtr(input.PDFURL)
	}
	return result, nil
}

// BuildLicenseDocument applies the license defaults
func BuildLicenseDocument(input LicenseInput) LicenseDocument {
	doc := LicenseDocument{
		Type:             defaultString(input.Type, "reproduction-limited"),
		Scope:            defaultString(input.Scope, "personal"),
		Territory:        defaultString(input.Territory, "worldwide"),
		Term:             defaultString(input.Term, "perpetual"),
		Attribution:      true,
		CommercialUse:    input.CommercialUse,
		Modifications:    input.Modifications,
		ResaleConditions: input.ResaleConditions,
	}
	if input.Attribution != nil {
		doc.Attribution = *input.Attribution
	}
	if doc.ResaleConditions == nil {
		doc.ResaleConditions = map[string]interface{}{}
	}
	return doc
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func (c *pinataClient) Usage(ctx context.Context) (*Usage, error) {
	var usage Usage
	if err := c.httpClient.GetJSON(ctx, c.cfg.APIURL+"/data/userPinnedDataTotal", c.headers(), &usage); err != nil {
		logger.WarnCtx(ctx, "Could not fetch Pinata usage", zap.Error(err))
		return nil, nil
	}
	return &usage, nil
}
