package dto

// ==================== PLATFORM REQUEST DTOs ====================

type InitRequest struct {
	Name    string `json:"name" validate:"required,max=64" example:"Whsper"`
	Version uint32 `json:"version" example:"1"`
}

func (r InitRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SendTipRequest struct {
	Receiver string `json:"receiver" validate:"required,account" example:"bob"`
	Token    string `json:"token" validate:"required,account" example:"WHSP"`
	Amount   int64  `json:"amount" example:"100"`
}

func (r SendTipRequest) Validate() error {
	return GetValidator().Struct(r)
}

type TransferRequest struct {
	Recipient string `json:"recipient" validate:"required,account" example:"bob"`
	Token     string `json:"token" validate:"required,account" example:"WHSP"`
	Amount    int64  `json:"amount" example:"500"`
	WithClaim bool   `json:"with_claim" example:"false"`
}

func (r TransferRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateFeeRequest struct {
	FeeBasisPoints uint32 `json:"fee_basis_points" validate:"max=10000" example:"250"`
}

func (r UpdateFeeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type WithdrawFeesRequest struct {
	Token     string `json:"token" validate:"required,account" example:"WHSP"`
	Recipient string `json:"recipient" validate:"required,account" example:"ops"`
	Amount    int64  `json:"amount" example:"40"`
}

func (r WithdrawFeesRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateAdminRequest struct {
	NewAdmin string `json:"new_admin" validate:"required,account" example:"carol"`
}

func (r UpdateAdminRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== PLATFORM RESPONSE DTOs ====================

type InitResponse struct {
	Admin   string `json:"admin" example:"admin"`
	Name    string `json:"name" example:"Whsper"`
	Version uint32 `json:"version" example:"1"`
}

type TipResponse struct {
	Sender   string `json:"sender" example:"alice"`
	Receiver string `json:"receiver" example:"bob"`
	Token    string `json:"token" example:"WHSP"`
	Amount   int64  `json:"amount" example:"100"`
	Fee      int64  `json:"fee" example:"2"`
	Net      int64  `json:"net" example:"98"`
}

type TransferResponse struct {
	Sender    string  `json:"sender" example:"alice"`
	Recipient string  `json:"recipient" example:"bob"`
	Token     string  `json:"token" example:"WHSP"`
	Amount    int64   `json:"amount" example:"500"`
	ClaimID   *uint64 `json:"claim_id,omitempty" example:"3"`
}

type BalanceResponse struct {
	Account string `json:"account" example:"alice"`
	Token   string `json:"token" example:"WHSP"`
	Balance int64  `json:"balance" example:"1000"`
}

type TreasuryResponse struct {
	Token   string `json:"token" example:"WHSP"`
	Balance int64  `json:"balance" example:"42"`
}

type ArchiveResponse struct {
	Object       string `json:"object,omitempty" example:"events/1-120-0190c8a2.jsonl"`
	FromSequence uint64 `json:"from_sequence" example:"1"`
	ToSequence   uint64 `json:"to_sequence" example:"120"`
	EventCount   int    `json:"event_count" example:"120"`
}

type WithdrawFeesResponse struct {
	Token           string `json:"token" example:"WHSP"`
	Recipient       string `json:"recipient" example:"ops"`
	Amount          int64  `json:"amount" example:"40"`
	TreasuryBalance int64  `json:"treasury_balance" example:"2"`
}

type TreasuryAnalyticsResponse struct {
	Token          string `json:"token" example:"WHSP"`
	CurrentBalance int64  `json:"current_balance" example:"2"`
	TotalCollected int64  `json:"total_collected" example:"42"`
	TotalWithdrawn int64  `json:"total_withdrawn" example:"40"`
	FeeBasisPoints uint32 `json:"fee_basis_points" example:"200"`
}
