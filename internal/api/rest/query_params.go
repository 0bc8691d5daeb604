package rest

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/artivio/artivio-chain/internal/api/shared/constants"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/store"
	"github.com/artivio/artivio-chain/internal/store/schema"
	"github.com/artivio/artivio-chain/internal/types"
)

// ListTokensQueryParams holds query parameters for GET /tokens
type ListTokensQueryParams struct {
	// Filters
	Artisan string `form:"artisan"`
	Kind    string `form:"kind"`
	SKU     string `form:"sku"`

	// Pagination
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ParseListTokensQuery parses query parameters for GET /tokens
func ParseListTokensQuery(c *gin.Context) (*ListTokensQueryParams, error) {
	var params ListTokensQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limits
	if params.Limit <= 0 {
		params.Limit = constants.DEFAULT_TOKENS_LIMIT
	}
	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}

	return &params, nil
}

// Validate validates the query parameters
func (p *ListTokensQueryParams) Validate() error {
	if p.Offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}
	if p.Artisan != "" && !types.IsEthereumAddress(p.Artisan) {
		return fmt.Errorf("invalid artisan address: %s", p.Artisan)
	}
	if p.Kind != "" {
		if _, err := domain.ParseTokenKind(p.Kind); err != nil {
			return fmt.Errorf("kind must be CoA or Rights")
		}
	}
	if p.SKU != "" {
		if _, err := domain.ParseSKU(p.SKU); err != nil {
			return fmt.Errorf("sku must be a positive integer")
		}
	}
	return nil
}

// Filter converts the query parameters to a store filter
func (p *ListTokensQueryParams) Filter() store.TokenFilter {
	filter := store.TokenFilter{
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if sku, err := domain.ParseSKU(p.SKU); err == nil {
		filter.SKU = sku.String()
	}
	if artisan := strings.TrimSpace(p.Artisan); artisan != "" {
		filter.ArtisanID = domain.NormalizeAddress(artisan)
	}
	if kind, err := domain.ParseTokenKind(p.Kind); err == nil {
		filter.Kind = schema.Kind(kind.String())
	}
	return filter
}
