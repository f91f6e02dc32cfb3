package dto

// ==================== THROTTLE REQUEST DTOs ====================

type RateLimitConfigRequest struct {
	MessageCooldown    uint64 `json:"message_cooldown" example:"60"`
	TipCooldown        uint64 `json:"tip_cooldown" example:"300"`
	TransferCooldown   uint64 `json:"transfer_cooldown" example:"600"`
	DailyMessageLimit  uint32 `json:"daily_message_limit" example:"100"`
	DailyTipLimit      uint32 `json:"daily_tip_limit" example:"50"`
	DailyTransferLimit uint32 `json:"daily_transfer_limit" example:"20"`
}

func (r RateLimitConfigRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SetReputationRequest struct {
	Score uint32 `json:"score" example:"80"`
}

func (r SetReputationRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SetOverrideRequest struct {
	Exempt bool `json:"exempt" example:"true"`
}

func (r SetOverrideRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ThrottleStatusParams are the path parameters of the status lookup.
type ThrottleStatusParams struct {
	Account string `params:"account" validate:"required,account"`
	Action  string `params:"action" validate:"required,action"`
}

func (r ThrottleStatusParams) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== THROTTLE RESPONSE DTOs ====================

// ThrottleStatusResponse reports what the throttle would decide for an
// account and action at the current ledger time.
type ThrottleStatusResponse struct {
	Account      string  `json:"account" example:"alice"`
	Action       string  `json:"action" example:"message"`
	Exempt       bool    `json:"exempt"`
	Reputation   uint32  `json:"reputation" example:"50"`
	Cooldown     uint64  `json:"cooldown" example:"45"`
	DailyCap     uint64  `json:"daily_cap" example:"150"`
	UsedToday    uint32  `json:"used_today" example:"3"`
	Remaining    uint64  `json:"remaining" example:"147"`
	LastActionAt *uint64 `json:"last_action_at,omitempty"`
	RetryAt      *uint64 `json:"retry_at,omitempty"`
	Allowed      bool    `json:"allowed"`
	Reason       string  `json:"reason,omitempty" example:"COOLDOWN_ACTIVE"`
}

type XPAwardResponse struct {
	Account  string `json:"account" example:"alice"`
	XP       uint64 `json:"xp" example:"120"`
	OldLevel uint32 `json:"old_level" example:"1"`
	NewLevel uint32 `json:"new_level" example:"2"`
}
