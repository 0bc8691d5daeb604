package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/artivio/artivio-chain/internal/api/shared/errors"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondValidationError responds with a validation error. Errors already shaped as
// an APIError keep their details.
func respondValidationError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadRequest, apiErr)
		return
	}
	c.JSON(http.StatusBadRequest, apierrors.NewValidationError(err.Error()))
}

// respondInternalError responds with an internal server error and logs the cause
func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message))
}

// validationErrors are rejected inputs whose message is safe to echo back
var validationErrors = []error{
	domain.ErrInvalidInput,
	domain.ErrInvalidAddress,
	domain.ErrInvalidRoyalty,
	domain.ErrInvalidSKU,
	domain.ErrInvalidKind,
	domain.ErrInvalidAmount,
	domain.ErrInvalidTokenID,
}

// ledgerErrors are failures of the ledger or an upstream service, reported without their cause
var ledgerErrors = []error{
	domain.ErrSubmissionFailed,
	domain.ErrInsufficientFunds,
	domain.ErrTransactionReverted,
	domain.ErrMintFailed,
	domain.ErrBindLicenseFailed,
	domain.ErrProvenanceFailed,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondServiceError maps a minting or pinning failure to a response.
// Root causes are only logged; conflicts and not-found take precedence over the operation kind.
func respondServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var opErr *domain.OperationError
	txHash := ""
	if errors.As(err, &opErr) {
		txHash = opErr.TxHash
	}

	switch {
	case isAny(err, validationErrors):
		c.JSON(http.StatusBadRequest, apierrors.NewValidationError(err.Error()))

	case errors.Is(err, domain.ErrTokenAlreadyExists):
		logger.WarnCtx(ctx, "Token already exists", zap.Error(err))
		c.JSON(http.StatusConflict, apierrors.NewConflictError("Token already exists"))

	case errors.Is(err, domain.ErrLicenseAlreadyBound):
		c.JSON(http.StatusConflict, apierrors.NewConflictError("License already bound"))

	case errors.Is(err, domain.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, apierrors.NewNotFoundError("Token not found"))

	case errors.Is(err, domain.ErrConfirmationTimeout):
		logger.ErrorCtx(ctx, err, zap.String("txHash", txHash))
		details := []string{}
		if txHash != "" {
			details = append(details, "txHash: "+txHash)
		}
		c.JSON(http.StatusGatewayTimeout, apierrors.NewGatewayTimeoutError("Transaction was not confirmed in time", details...))

	case errors.Is(err, domain.ErrPinningFailed):
		logger.ErrorCtx(ctx, err)
		c.JSON(http.StatusBadGateway, apierrors.NewServiceError("Pinning service request failed"))

	case isAny(err, ledgerErrors):
		logger.ErrorCtx(ctx, err, zap.String("txHash", txHash))
		c.JSON(http.StatusBadGateway, apierrors.NewLedgerError("Ledger operation failed"))

	default:
		respondInternalError(c, err, "Internal server error")
	}
}
