package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 10
	}
	if maxIdleConns == 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// PutToken upserts a token record keyed by token id
func (s *pgStore) PutToken(ctx context.Context, token *schema.Token) error {
	now := time.Now().UTC()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = token.CreatedAt
	}

	// created_at and license_cid survive a re-put
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sku",
				"kind",
				"artisan_id",
				"token_uri",
				"royalty_bps",
				"amount",
				"tx_hash",
				"block_number",
				"contract_address",
				"chain",
				"updated_at",
			}),
		}).
		Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to put token: %w", err)
	}

	return nil
}

// GetToken retrieves a token by its ledger id
func (s *pgStore) GetToken(ctx context.Context, tokenID string) (*schema.Token, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &token, nil
}

// MergeToken updates the non-nil fields of an existing token
func (s *pgStore) MergeToken(ctx context.Context, tokenID string, update TokenUpdate) error {
	updatedAt := update.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	fields := map[string]interface{}{"updated_at": updatedAt}
	if update.TokenURI != nil {
		fields["token_uri"] = *update.TokenURI
	}
	if update.Amount != nil {
		fields["amount"] = *update.Amount
	}
	if update.LicenseCID != nil {
		fields["license_cid"] = *update.LicenseCID
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("token_id = ?", tokenID).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to merge token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTokenNotFound, tokenID)
	}

	return nil
}

// ListTokens returns tokens matching the filter, newest first
func (s *pgStore) ListTokens(ctx context.Context, filter TokenFilter) ([]schema.Token, error) {
	query := s.db.WithContext(ctx).Model(&schema.Token{})
	if filter.ArtisanID != "" {
		query = query.Where("artisan_id = ?", filter.ArtisanID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.SKU != "" {
		query = query.Where("sku = ?", filter.SKU)
	}

	var tokens []schema.Token
	err := query.
		Order("created_at DESC").
		Order("token_id ASC").
		Limit(normalizeLimit(filter.Limit)).
		Offset(max(filter.Offset, 0)).
		Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	return tokens, nil
}

// AppendProvenance inserts a provenance event, assigning a ULID when the event has no id
func (s *pgStore) AppendProvenance(ctx context.Context, event *schema.ProvenanceEvent) (string, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.ID == "" {
		event.ID = ulid.MustNewDefault(event.Timestamp).String()
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return "", fmt.Errorf("failed to append provenance event: %w", err)
	}

	return event.ID, nil
}

// ListProvenance returns the provenance events of a token, newest first
func (s *pgStore) ListProvenance(ctx context.Context, tokenID string, limit int) ([]schema.ProvenanceEvent, error) {
	var events []schema.ProvenanceEvent
	err := s.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(normalizeLimit(limit)).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list provenance events: %w", err)
	}

	return events, nil
}

// ListRecentProvenance returns the latest provenance events across all tokens
func (s *pgStore) ListRecentProvenance(ctx context.Context, limit int) ([]schema.ProvenanceEvent, error) {
	var events []schema.ProvenanceEvent
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(normalizeLimit(limit)).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent provenance events: %w", err)
	}

	return events, nil
}

// GetStats aggregates token and event counts
func (s *pgStore) GetStats(ctx context.Context) (*Stats, error) {
	var counts struct {
		TotalTokens   int64 `gorm:"column:total_tokens"`
		TotalCoA      int64 `gorm:"column:total_coa"`
		TotalRights   int64 `gorm:"column:total_rights"`
		TotalArtisans int64 `gorm:"column:total_artisans"`
	}
	err := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Select(
			"COUNT(*) AS total_tokens, "+
				"COUNT(*) FILTER (WHERE kind = ?) AS total_coa, "+
				"COUNT(*) FILTER (WHERE kind = ?) AS total_rights, "+
				"COUNT(DISTINCT artisan_id) AS total_artisans",
			schema.KindCoA, schema.KindRights,
		).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	var totalEvents int64
	if err := s.db.WithContext(ctx).Model(&schema.ProvenanceEvent{}).Count(&totalEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count provenance events: %w", err)
	}

	recentTokens, err := s.ListTokens(ctx, TokenFilter{Limit: recentTokensLimit})
	if err != nil {
		return nil, err
	}
	recentEvents, err := s.ListRecentProvenance(ctx, recentEventsLimit)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalTokens:   counts.TotalTokens,
		TotalCoA:      counts.TotalCoA,
		TotalRights:   counts.TotalRights,
		TotalArtisans: counts.TotalArtisans,
		TotalEvents:   totalEvents,
		RecentTokens:  recentTokens,
		RecentEvents:  recentEvents,
	}, nil
}
