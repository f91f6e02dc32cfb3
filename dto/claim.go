package dto

import "github.com/whsper-labs/whsper_api/model"

// ==================== CLAIM REQUEST DTOs ====================

type CreateClaimRequest struct {
	Recipient string `json:"recipient" validate:"required,account" example:"bob"`
	Token     string `json:"token" validate:"required,account" example:"WHSP"`
	Amount    int64  `json:"amount" example:"250"`
}

func (r CreateClaimRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ClaimWindowConfigRequest struct {
	Enabled             bool   `json:"enabled" example:"true"`
	ClaimValidityWindow uint64 `json:"claim_validity_window" example:"17280"`
}

func (r ClaimWindowConfigRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ListClaimsQuery struct {
	Limit       uint32 `query:"limit" example:"20"`
	PendingOnly bool   `query:"pending_only" example:"true"`
}

// ==================== CLAIM RESPONSE DTOs ====================

type ClaimResponse struct {
	model.Claim
	// Expired is true when the claim is still pending but its expiry ledger
	// has been reached.
	Expired bool `json:"expired"`
}

type CreateClaimResponse struct {
	ClaimID uint64 `json:"claim_id" example:"1"`
}

type EscrowBalanceResponse struct {
	Token   string `json:"token" example:"WHSP"`
	Balance int64  `json:"balance" example:"1000"`
}
