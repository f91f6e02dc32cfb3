package model

import "fmt"

type ActionType string

const (
	ActionMessage     ActionType = "message"
	ActionTip         ActionType = "tip"
	ActionTransfer    ActionType = "transfer"
	ActionTipReceived ActionType = "tip_received"
)

func ParseActionType(s string) (ActionType, error) {
	switch a := ActionType(s); a {
	case ActionMessage, ActionTip, ActionTransfer, ActionTipReceived:
		return a, nil
	}
	return "", fmt.Errorf("unknown action type %q", s)
}

type RateLimitConfig struct {
	MessageCooldown    uint64 `json:"message_cooldown"`  // seconds
	TipCooldown        uint64 `json:"tip_cooldown"`      // seconds
	TransferCooldown   uint64 `json:"transfer_cooldown"` // seconds
	DailyMessageLimit  uint32 `json:"daily_message_limit"`
	DailyTipLimit      uint32 `json:"daily_tip_limit"`
	DailyTransferLimit uint32 `json:"daily_transfer_limit"`
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MessageCooldown:    60,  // 1 minute
		TipCooldown:        300, // 5 minutes
		TransferCooldown:   600, // 10 minutes
		DailyMessageLimit:  100,
		DailyTipLimit:      50,
		DailyTransferLimit: 20,
	}
}

type DailyStats struct {
	MessageCount  uint32 `json:"message_count"`
	TipCount      uint32 `json:"tip_count"`
	TransferCount uint32 `json:"transfer_count"`
	LastDay       uint64 `json:"last_day"` // epoch day
}

func (s DailyStats) Count(action ActionType) uint32 {
	switch action {
	case ActionMessage:
		return s.MessageCount
	case ActionTip:
		return s.TipCount
	case ActionTransfer:
		return s.TransferCount
	}
	return 0
}

type UserProfile struct {
	Account  string `json:"account"`
	XP       uint64 `json:"xp"`
	Level    uint32 `json:"level"`
	JoinDate uint64 `json:"join_date"`
}
