package shared

const (
	// Account is the fiber locals key holding the authenticated account.
	Account = "account"

	ActionMessage     = "message"
	ActionTip         = "tip"
	ActionTransfer    = "transfer"
	ActionTipReceived = "tip_received"

	ClaimStatusPending   = "pending"
	ClaimStatusClaimed   = "claimed"
	ClaimStatusCancelled = "cancelled"
	ClaimStatusExpired   = "expired"

	MaxPageSize = 50
)
