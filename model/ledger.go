package model

import (
	"encoding/json"
	"time"
)

type KVEntry struct {
	StorageKey string    `json:"storage_key" gorm:"column:storage_key;primaryKey;size:255"`
	Value      []byte    `json:"value" gorm:"not null"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null"`
}

type Balance struct {
	Account   string    `json:"account" gorm:"primaryKey;size:128"`
	Token     string    `json:"token" gorm:"primaryKey;size:128"`
	Amount    int64     `json:"amount" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

type Event struct {
	ID        string          `json:"id" gorm:"primaryKey;type:text;not null"`
	Sequence  uint64          `json:"sequence" gorm:"not null;index"`
	Ledger    uint64          `json:"ledger" gorm:"not null"`
	Timestamp uint64          `json:"timestamp" gorm:"not null"`
	Topic     string          `json:"topic" gorm:"not null;index;size:64"`
	Account   string          `json:"account" gorm:"index;size:128"`
	Payload   json.RawMessage `json:"payload" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null"`
}

type ContractMetadata struct {
	Name    string `json:"name"`
	Version uint32 `json:"version"`
}

type ArchiveCheckpoint struct {
	Sequence   uint64 `json:"sequence"`
	Object     string `json:"object"`
	ArchivedAt uint64 `json:"archived_at"`
}

// PlatformSettings holds the fee charged on tips, in basis points of the
// tipped amount.
type PlatformSettings struct {
	FeeBasisPoints uint32 `json:"fee_basis_points"`
}

func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{FeeBasisPoints: 200}
}
