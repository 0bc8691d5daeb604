package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/api/shared/constants"
	"github.com/artivio/artivio-chain/internal/api/shared/dto"
	apierrors "github.com/artivio/artivio-chain/internal/api/shared/errors"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/minting"
	"github.com/artivio/artivio-chain/internal/pinning"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// ServiceInfo describes the service and its endpoints
	// GET /
	ServiceInfo(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// MintCoA mints the certificate of authenticity of a sku
	// POST /mint-coa
	MintCoA(c *gin.Context)

	// MintRights mints a rights bundle of a sku
	// POST /mint-rights
	MintRights(c *gin.Context)

	// UploadMetadata pins token metadata
	// POST /upload-metadata
	UploadMetadata(c *gin.Context)

	// GetToken reads a token from the ledger together with its mirror record
	// GET /token/:tokenId
	GetToken(c *gin.Context)

	// BindLicense binds a pinned license to a token
	// POST /bind-license
	BindLicense(c *gin.Context)

	// RecordProvenanceNote records a provenance reference for a token
	// POST /provenance-note
	RecordProvenanceNote(c *gin.Context)

	// Verify cross-checks a token against the ledger
	// POST /verify and GET /verify/:tokenId
	Verify(c *gin.Context)

	// ListTokens lists mirrored tokens
	// GET /tokens?artisan=<address>&kind=<CoA|Rights>&sku=<sku>&limit=<limit>&offset=<offset>
	ListTokens(c *gin.Context)

	// Stats returns mirror statistics
	// GET /stats
	Stats(c *gin.Context)

	// UploadFile pins a multipart file
	// POST /ipfs/upload-file
	UploadFile(c *gin.Context)

	// UploadJSON pins arbitrary JSON
	// POST /ipfs/upload-json
	UploadJSON(c *gin.Context)

	// UploadLicense pins a machine-readable license
	// POST /ipfs/upload-license
	UploadLicense(c *gin.Context)

	// PinningUsage reports the pinning account usage
	// GET /ipfs/usage
	PinningUsage(c *gin.Context)
}

// ServiceInfo identifies the ledger the service writes to
type ServiceInfo struct {
	Chain    domain.Chain
	Contract string
	BasePath string
}

type handler struct {
	debug   bool
	info    ServiceInfo
	minting minting.Service
	pinning pinning.Client
}

// NewHandler creates a new REST API handler
func NewHandler(debug bool, info ServiceInfo, mintingService minting.Service, pinningClient pinning.Client) Handler {
	return &handler{
		debug:   debug,
		info:    info,
		minting: mintingService,
		pinning: pinningClient,
	}
}

func (h *handler) ServiceInfo(c *gin.Context) {
	endpoints := make([]string, 0, len(routeTable))
	for _, r := range routeTable {
		endpoints = append(endpoints, r.method+" "+h.info.BasePath+r.path)
	}

	c.JSON(http.StatusOK, dto.ServiceInfoResponse{
		Service:   constants.SERVICE_NAME,
		Version:   constants.SERVICE_VERSION,
		Network:   h.info.Chain.NetworkName(),
		Chain:     string(h.info.Chain),
		Contract:  h.info.Contract,
		Endpoints: endpoints,
	})
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": constants.SERVICE_NAME,
	})
}

func (h *handler) MintCoA(c *gin.Context) {
	var body dto.MintCoARequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	req, err := body.Parse()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.minting.MintCertificate(c.Request.Context(), *req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MintCoAResponse{
		TokenID:     result.TokenID.String(),
		TxHash:      result.TxHash,
		BlockNumber: result.BlockNumber,
	})
}

func (h *handler) MintRights(c *gin.Context) {
	var body dto.MintRightsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	req, err := body.Parse()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.minting.MintRightsBundle(c.Request.Context(), *req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MintRightsResponse{
		TokenID:     result.TokenID.String(),
		Amount:      result.Amount.String(),
		TxHash:      result.TxHash,
		BlockNumber: result.BlockNumber,
	})
}

func (h *handler) UploadMetadata(c *gin.Context) {
	var body dto.UploadMetadataRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	input, err := body.Parse()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.pinning.UploadNFTMetadata(c.Request.Context(), *input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) GetToken(c *gin.Context) {
	tokenID, err := dto.ParseTokenID(c.Param("tokenId"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	details, err := h.minting.GetTokenDetails(c.Request.Context(), tokenID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTokenResponse(details))
}

func (h *handler) BindLicense(c *gin.Context) {
	var body dto.BindLicenseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	req, err := body.Parse()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.minting.BindLicense(c.Request.Context(), *req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BindLicenseResponse{
		OK:         true,
		TxHash:     result.TxHash,
		RecordedAt: result.RecordedAt,
	})
}

func (h *handler) RecordProvenanceNote(c *gin.Context) {
	var body dto.ProvenanceNoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	req, err := body.Parse()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.minting.RecordProvenanceNote(c.Request.Context(), *req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProvenanceNoteResponse{
		OK:         true,
		EventID:    result.EventID,
		TxHash:     result.TxHash,
		RecordedAt: result.RecordedAt,
	})
}

func (h *handler) Verify(c *gin.Context) {
	raw := c.Param("tokenId")
	if c.Request.Method == http.MethodPost {
		var body dto.VerifyRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBadRequest(c, "Invalid request body", err.Error())
			return
		}
		raw = body.TokenID.String()
	}

	tokenID, err := dto.ParseTokenID(raw)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result := h.minting.VerifyToken(c.Request.Context(), tokenID)
	if result.Err != nil && !errors.Is(result.Err, domain.ErrTokenNotFound) {
		logger.WarnCtx(c.Request.Context(), "Token verification failed",
			zap.String("tokenId", tokenID.String()),
			zap.Error(result.Err),
		)
	}

	c.JSON(http.StatusOK, dto.NewVerifyResponse(result))
}

func (h *handler) ListTokens(c *gin.Context) {
	params, err := ParseListTokensQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}

	tokens, err := h.minting.ListTokens(c.Request.Context(), params.Filter())
	if err != nil {
		respondInternalError(c, err, "Failed to list tokens")
		return
	}

	c.JSON(http.StatusOK, dto.ListTokensResponse{
		Tokens: dto.NewTokenRecordResponses(tokens),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

func (h *handler) Stats(c *gin.Context) {
	stats, err := h.minting.Stats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to load stats")
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalTokens:   stats.TotalTokens,
		TotalCoA:      stats.TotalCoA,
		TotalRights:   stats.TotalRights,
		TotalArtisans: stats.TotalArtisans,
		TotalEvents:   stats.TotalEvents,
		RecentTokens:  dto.NewTokenRecordResponses(stats.RecentTokens),
		RecentEvents:  dto.NewProvenanceEventResponses(stats.RecentEvents),
	})
}

func (h *handler) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MAX_UPLOAD_SIZE)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusRequestEntityTooLarge, apierrors.NewPayloadTooLargeError("File exceeds the 10MB limit"))
			return
		}
		respondBadRequest(c, "A file field is required", err.Error())
		return
	}
	if fileHeader.Size > pinning.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, apierrors.NewPayloadTooLargeError("File exceeds the 10MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "Failed to read upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondInternalError(c, err, "Failed to read upload")
		return
	}

	result, err := h.pinning.UploadFile(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) UploadJSON(c *gin.Context) {
	var body dto.UploadJSONRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := body.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.pinning.UploadJSON(c.Request.Context(), body.Data, body.FileName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) UploadLicense(c *gin.Context) {
	var body pinning.LicenseInput
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if body.Editions != nil && *body.Editions <= 0 {
		respondValidationError(c, apierrors.NewValidationError("editions must be positive"))
		return
	}

	result, err := h.pinning.UploadLicense(c.Request.Context(), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) PinningUsage(c *gin.Context) {
	usage, err := h.pinning.Usage(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if usage == nil {
		c.JSON(http.StatusServiceUnavailable, apierrors.NewServiceError("Pinning usage unavailable"))
		return
	}

	c.JSON(http.StatusOK, usage)
}
