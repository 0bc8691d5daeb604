package schema

import "time"

// ProvenanceEvent represents the provenance_events table: free-form notes attached to a token.
// The reference is recorded on the ledger; the summary only lives here.
type ProvenanceEvent struct {
	// ID is a ULID, so lexical order is creation order
	ID string `gorm:"column:id;primaryKey;type:text" firestore:"id"`
	// TokenID references the token the note belongs to
	TokenID string `gorm:"column:token_id;not null;type:text;index:idx_provenance_events_token_id_timestamp,priority:1" firestore:"tokenId"`
	// Ref is the reference string recorded on the ledger
	Ref string `gorm:"column:ref;not null;type:text" firestore:"ref"`
	// Summary is an optional human readable description
	Summary *string `gorm:"column:summary;type:text" firestore:"summary,omitempty"`
	// TxHash is the hash of the recording transaction
	TxHash *string `gorm:"column:tx_hash;type:text" firestore:"txHash,omitempty"`
	// BlockchainRecorded is true when the ref was confirmed on the ledger
	BlockchainRecorded bool `gorm:"column:blockchain_recorded;not null;default:false" firestore:"blockchainRecorded"`
	// Timestamp is the service wall-clock time of the recording
	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_provenance_events_token_id_timestamp,priority:2,sort:desc" firestore:"timestamp"`
}

// TableName specifies the table name for the ProvenanceEvent model
func (ProvenanceEvent) TableName() string {
	return "provenance_events"
}
