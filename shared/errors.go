package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the typed failure returned by every entry point. Two AppErrors
// are equal under errors.Is when their codes match.
type AppError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newAppError(statusCode int, code, message string) *AppError {
	return &AppError{StatusCode: statusCode, Code: code, Message: message}
}

// Configuration lifecycle
var (
	ErrNotInitialized     = newAppError(http.StatusConflict, "NOT_INITIALIZED", "Contract is not initialized")
	ErrAlreadyInitialized = newAppError(http.StatusConflict, "ALREADY_INITIALIZED", "Contract is already initialized")
	ErrInvalidConfig      = newAppError(http.StatusBadRequest, "INVALID_CONFIG", "Invalid configuration")
)

// Authorization
var (
	ErrUnauthenticated        = newAppError(http.StatusUnauthorized, "UNAUTHENTICATED", "Unauthorized")
	ErrUnauthorized           = newAppError(http.StatusForbidden, "UNAUTHORIZED", "Caller is not allowed to perform this action")
	ErrUnauthorizedNotCreator = newAppError(http.StatusForbidden, "UNAUTHORIZED_NOT_CREATOR", "Only the claim creator can cancel it")
)

// Throttle rejections
var (
	ErrCooldownActive    = newAppError(http.StatusTooManyRequests, "COOLDOWN_ACTIVE", "Rate limit exceeded: cooldown active")
	ErrDailyLimitReached = newAppError(http.StatusTooManyRequests, "DAILY_LIMIT_REACHED", "Rate limit exceeded: daily limit reached")
	ErrXpRateLimited     = newAppError(http.StatusTooManyRequests, "XP_RATE_LIMITED", "Hourly experience limit reached")
)

// Claim escrow
var (
	ErrClaimNotFound         = newAppError(http.StatusNotFound, "CLAIM_NOT_FOUND", "Claim not found")
	ErrClaimExpired          = newAppError(http.StatusGone, "CLAIM_EXPIRED", "Claim has expired")
	ErrClaimNotExpired       = newAppError(http.StatusConflict, "CLAIM_NOT_EXPIRED", "Claim has not expired yet")
	ErrClaimAlreadyClaimed   = newAppError(http.StatusConflict, "CLAIM_ALREADY_CLAIMED", "Claim was already claimed")
	ErrClaimAlreadyCancelled = newAppError(http.StatusConflict, "CLAIM_ALREADY_CANCELLED", "Claim was already cancelled")
	ErrClaimWindowDisabled   = newAppError(http.StatusConflict, "CLAIM_WINDOW_DISABLED", "Claimable transfers are disabled")
)

// Funds and accounts
var (
	ErrInvalidAmount        = newAppError(http.StatusBadRequest, "INVALID_AMOUNT", "Invalid amount")
	ErrInsufficientBalance  = newAppError(http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Insufficient balance")
	ErrInsufficientTreasury = newAppError(http.StatusUnprocessableEntity, "INSUFFICIENT_TREASURY_BALANCE", "Insufficient treasury balance")
	ErrReservedAccount      = newAppError(http.StatusForbidden, "RESERVED_ACCOUNT", "Account is reserved for contract custody")
	ErrUserNotFound         = newAppError(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
)

var ErrArchiveUnavailable = newAppError(http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Event archive is not configured")

func NewBadRequestError(err error, message string) *AppError {
	if message == "" {
		message = "Bad Request"
	}
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		Err:        err,
	}
}

// WithData returns a copy of e carrying data, leaving the sentinel untouched.
func (e *AppError) WithData(data interface{}) *AppError {
	cp := *e
	cp.Data = data
	return &cp
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
