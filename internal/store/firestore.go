package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/oklog/ulid/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/store/schema"
)

type firestoreStore struct {
	client               *firestore.Client
	tokensCollection     string
	provenanceCollection string
}

// NewFirestoreStore creates a Store backed by two Firestore collections.
// Empty collection names fall back to nft_tokens and provenance_events.
func NewFirestoreStore(client *firestore.Client, tokensCollection, provenanceCollection string) Store {
	if tokensCollection == "" {
		tokensCollection = domain.DEFAULT_TOKENS_COLLECTION
	}
	if provenanceCollection == "" {
		provenanceCollection = domain.DEFAULT_PROVENANCE_COLLECTION
	}
	return &firestoreStore{
		client:               client,
		tokensCollection:     tokensCollection,
		provenanceCollection: provenanceCollection,
	}
}

func (s *firestoreStore) tokens() *firestore.CollectionRef {
	return s.client.Collection(s.tokensCollection)
}

func (s *firestoreStore) events() *firestore.CollectionRef {
	return s.client.Collection(s.provenanceCollection)
}

// PutToken writes the token document, keeping createdAt and licenseCid of an existing one
func (s *firestoreStore) PutToken(ctx context.Context, token *schema.Token) error {
	now := time.Now().UTC()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = token.CreatedAt
	}

	ref := s.tokens().Doc(token.TokenID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		record := *token
		if err == nil && doc.Exists() {
			var existing schema.Token
			if err := doc.DataTo(&existing); err != nil {
				return err
			}
			record.CreatedAt = existing.CreatedAt
			if record.LicenseCID == nil {
				record.LicenseCID = existing.LicenseCID
			}
		}
		return tx.Set(ref, &record)
	})
	if err != nil {
		return fmt.Errorf("failed to put token: %w", err)
	}

	return nil
}

// GetToken reads a token document
func (s *firestoreStore) GetToken(ctx context.Context, tokenID string) (*schema.Token, error) {
	doc, err := s.tokens().Doc(tokenID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	var token schema.Token
	if err := doc.DataTo(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}

// MergeToken updates selected fields; Firestore rejects updates of missing documents
func (s *firestoreStore) MergeToken(ctx context.Context, tokenID string, update TokenUpdate) error {
	updatedAt := update.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	updates := []firestore.Update{{Path: "updatedAt", Value: updatedAt}}
	if update.TokenURI != nil {
		updates = append(updates, firestore.Update{Path: "tokenURI", Value: *update.TokenURI})
	}
	if update.Amount != nil {
		updates = append(updates, firestore.Update{Path: "amount", Value: *update.Amount})
	}
	if update.LicenseCID != nil {
		updates = append(updates, firestore.Update{Path: "licenseCid", Value: *update.LicenseCID})
	}

	if _, err := s.tokens().Doc(tokenID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: %s", domain.ErrTokenNotFound, tokenID)
		}
		return fmt.Errorf("failed to merge token: %w", err)
	}

	return nil
}

// ListTokens queries token documents newest first
func (s *firestoreStore) ListTokens(ctx context.Context, filter TokenFilter) ([]schema.Token, error) {
	query := s.tokens().Query
	if filter.ArtisanID != "" {
		query = query.Where("artisanAddress", "==", filter.ArtisanID)
	}
	if filter.Kind != "" {
		query = query.Where("kind", "==", string(filter.Kind))
	}
	if filter.SKU != "" {
		query = query.Where("sku", "==", filter.SKU)
	}
	query = query.OrderBy("createdAt", firestore.Desc).Limit(normalizeLimit(filter.Limit))
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var tokens []schema.Token
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list tokens: %w", err)
		}
		var token schema.Token
		if err := doc.DataTo(&token); err != nil {
			return nil, fmt.Errorf("failed to decode token %s: %w", doc.Ref.ID, err)
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// AppendProvenance writes a provenance document under a ULID
func (s *firestoreStore) AppendProvenance(ctx context.Context, event *schema.ProvenanceEvent) (string, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.ID == "" {
		event.ID = ulid.MustNewDefault(event.Timestamp).String()
	}

	if _, err := s.events().Doc(event.ID).Create(ctx, event); err != nil {
		return "", fmt.Errorf("failed to append provenance event: %w", err)
	}

	return event.ID, nil
}

// ListProvenance returns the events of a token newest first
func (s *firestoreStore) ListProvenance(ctx context.Context, tokenID string, limit int) ([]schema.ProvenanceEvent, error) {
	query := s.events().
		Where("tokenId", "==", tokenID).
		OrderBy("timestamp", firestore.Desc).
		Limit(normalizeLimit(limit))
	return s.queryEvents(ctx, query)
}

// ListRecentProvenance returns the latest events across all tokens
func (s *firestoreStore) ListRecentProvenance(ctx context.Context, limit int) ([]schema.ProvenanceEvent, error) {
	query := s.events().
		OrderBy("timestamp", firestore.Desc).
		Limit(normalizeLimit(limit))
	return s.queryEvents(ctx, query)
}

func (s *firestoreStore) queryEvents(ctx context.Context, query firestore.Query) ([]schema.ProvenanceEvent, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var events []schema.ProvenanceEvent
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list provenance events: %w", err)
		}
		var event schema.ProvenanceEvent
		if err := doc.DataTo(&event); err != nil {
			return nil, fmt.Errorf("failed to decode provenance event %s: %w", doc.Ref.ID, err)
		}
		events = append(events, event)
	}

	return events, nil
}

// GetStats scans the token collection once; the event count only reads document names
func (s *firestoreStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	artisans := make(map[string]struct{})

	iter := s.tokens().Select("kind", "artisanAddress").Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count tokens: %w", err)
		}

		stats.TotalTokens++
		data := doc.Data()
		switch data["kind"] {
		case string(schema.KindCoA):
			stats.TotalCoA++
		case string(schema.KindRights):
			stats.TotalRights++
		}
		if artisan, ok := data["artisanAddress"].(string); ok && artisan != "" {
			artisans[artisan] = struct{}{}
		}
	}
	stats.TotalArtisans = int64(len(artisans))

	eventIter := s.events().Select().Documents(ctx)
	defer eventIter.Stop()
	for {
		_, err := eventIter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count provenance events: %w", err)
		}
		stats.TotalEvents++
	}

	var err error
	if stats.RecentTokens, err = s.ListTokens(ctx, TokenFilter{Limit: recentTokensLimit}); err != nil {
		return nil, err
	}
	if stats.RecentEvents, err = s.ListRecentProvenance(ctx, recentEventsLimit); err != nil {
		return nil, err
	}

	return stats, nil
}
