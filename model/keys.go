package model

import "fmt"

// DataKey identifies a record in the keyed store. Implementations are plain
// comparable structs, so two keys naming the same record are == to each other.
type DataKey interface {
	StorageKey() string
}

type AdminKey struct{}

func (AdminKey) StorageKey() string { return "admin" }

type MetadataKey struct{}

func (MetadataKey) StorageKey() string { return "metadata" }

type RateLimitConfigKey struct{}

func (RateLimitConfigKey) StorageKey() string { return "rate_limit_config" }

type ReputationKey struct {
	Account string
}

func (k ReputationKey) StorageKey() string { return "reputation/" + k.Account }

type OverrideKey struct {
	Account string
}

func (k OverrideKey) StorageKey() string { return "override/" + k.Account }

type LastActionKey struct {
	Account string
	Action  ActionType
}

func (k LastActionKey) StorageKey() string {
	return fmt.Sprintf("last_action/%s/%s", k.Account, k.Action)
}

type DailyStatsKey struct {
	Account string
}

func (k DailyStatsKey) StorageKey() string { return "daily_stats/" + k.Account }

type HourlyXpKey struct {
	Account string
	Hour    uint64
}

func (k HourlyXpKey) StorageKey() string {
	return fmt.Sprintf("hourly_xp/%s/%d", k.Account, k.Hour)
}

type ProfileKey struct {
	Account string
}

func (k ProfileKey) StorageKey() string { return "profile/" + k.Account }

type TreasuryKey struct {
	Token string
}

func (k TreasuryKey) StorageKey() string { return "treasury/" + k.Token }

type FeesCollectedKey struct {
	Token string
}

func (k FeesCollectedKey) StorageKey() string { return "fees_collected/" + k.Token }

type FeesWithdrawnKey struct {
	Token string
}

func (k FeesWithdrawnKey) StorageKey() string { return "fees_withdrawn/" + k.Token }

type PlatformSettingsKey struct{}

func (PlatformSettingsKey) StorageKey() string { return "platform_settings" }

type ClaimWindowConfigKey struct{}

func (ClaimWindowConfigKey) StorageKey() string { return "claim_window_config" }

type NextClaimIDKey struct{}

func (NextClaimIDKey) StorageKey() string { return "next_claim_id" }

type ClaimKey struct {
	ID uint64
}

func (k ClaimKey) StorageKey() string { return fmt.Sprintf("claim/%d", k.ID) }

type ClaimsByCreatorKey struct {
	Account string
}

func (k ClaimsByCreatorKey) StorageKey() string { return "claims_by_creator/" + k.Account }

type ClaimsByRecipientKey struct {
	Account string
}

func (k ClaimsByRecipientKey) StorageKey() string { return "claims_by_recipient/" + k.Account }

// EscrowBalanceKey tracks custody held for pending claims of one token,
// kept apart from the treasury balance.
type EscrowBalanceKey struct {
	Token string
}

func (k EscrowBalanceKey) StorageKey() string { return "escrow/" + k.Token }

type ArchiveCheckpointKey struct{}

func (ArchiveCheckpointKey) StorageKey() string { return "archive_checkpoint" }
