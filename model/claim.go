package model

type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimClaimed   ClaimStatus = "claimed"
	ClaimCancelled ClaimStatus = "cancelled"
	// ClaimExpired is never stored; it is derived from a pending claim whose
	// expiry ledger has been reached.
	ClaimExpired ClaimStatus = "expired"
)

type Claim struct {
	ID              uint64      `json:"id"`
	Creator         string      `json:"creator"`
	Recipient       string      `json:"recipient"`
	Token           string      `json:"token"`
	Amount          int64       `json:"amount"`
	Status          ClaimStatus `json:"status"`
	CreatedAt       uint64      `json:"created_at"`
	CreatedAtLedger uint64      `json:"created_at_ledger"`
	ExpiresAtLedger uint64      `json:"expires_at_ledger"`
	ClaimedBy       *string     `json:"claimed_by,omitempty"`
	ClaimedAt       *uint64     `json:"claimed_at,omitempty"`
	CancelledAt     *uint64     `json:"cancelled_at,omitempty"`
}

// IsExpiredAt reports whether the claim can no longer be collected at ledger
// sequence seq. The last claimable ledger is ExpiresAtLedger-1.
func (c *Claim) IsExpiredAt(seq uint64) bool {
	return seq >= c.ExpiresAtLedger
}

type ClaimWindowConfig struct {
	Enabled bool `json:"enabled"`
	// ClaimValidityWindow is measured in ledgers from creation.
	ClaimValidityWindow uint64 `json:"claim_validity_window"`
}
