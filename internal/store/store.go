package store

import (
	"context"
	"time"

	"github.com/artivio/artivio-chain/internal/store/schema"
)

const (
	// DefaultListLimit is used when a list call does not specify a limit
	DefaultListLimit = 50
	// MaxListLimit caps every list call
	MaxListLimit = 500

	recentTokensLimit = 5
	recentEventsLimit = 10
)

// TokenFilter narrows ListTokens. Empty fields do not filter.
type TokenFilter struct {
	ArtisanID string
	Kind      schema.Kind
	SKU       string
	Limit     int
	Offset    int
}

// TokenUpdate lists the fields MergeToken may change. Nil fields are left untouched.
type TokenUpdate struct {
	TokenURI   *string
	Amount     *string
	LicenseCID *string
	UpdatedAt  time.Time
}

// Stats summarises the mirror for dashboards
type Stats struct {
	TotalTokens   int64
	TotalCoA      int64
	TotalRights   int64
	TotalArtisans int64
	TotalEvents   int64
	RecentTokens  []schema.Token
	RecentEvents  []schema.ProvenanceEvent
}

// Store is the off-chain record mirror. Records are keyed by token id and writes are idempotent.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// PutToken inserts or replaces the mirror record of a token, keeping its creation time and license
	PutToken(ctx context.Context, token *schema.Token) error
	// GetToken retrieves a token record, or nil when the mirror has none
	GetToken(ctx context.Context, tokenID string) (*schema.Token, error)
	// MergeToken updates selected fields of an existing record; domain.ErrTokenNotFound if absent
	MergeToken(ctx context.Context, tokenID string, update TokenUpdate) error
	// ListTokens returns token records newest first
	ListTokens(ctx context.Context, filter TokenFilter) ([]schema.Token, error)
	// AppendProvenance stores a provenance event and returns its id
	AppendProvenance(ctx context.Context, event *schema.ProvenanceEvent) (string, error)
	// ListProvenance returns the provenance events of a token newest first
	ListProvenance(ctx context.Context, tokenID string, limit int) ([]schema.ProvenanceEvent, error)
	// ListRecentProvenance returns the latest provenance events across all tokens
	ListRecentProvenance(ctx context.Context, limit int) ([]schema.ProvenanceEvent, error)
	// GetStats returns aggregate counts and the most recent records
	GetStats(ctx context.Context) (*Stats, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
