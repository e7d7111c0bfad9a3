package domain

import (
	"errors"
	"fmt"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// AsAppError unwraps err to an AppError, folding anything else into a
// generic internal error so handlers never leak raw error text.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal("unexpected error", err)
}

// Validation errors.

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "validation_error", Message: msg, Status: 400}
}

func ErrBadAddress(addr string) *AppError {
	return &AppError{Code: "bad_address", Message: fmt.Sprintf("not a valid wallet address: %s", addr), Status: 400}
}

func ErrBadAmount(msg string) *AppError {
	return &AppError{Code: "bad_amount", Message: msg, Status: 400}
}

// Authentication errors.

func ErrNoToken() *AppError {
	return &AppError{Code: "no_token", Message: "missing bearer token", Status: 401}
}

func ErrBadToken() *AppError {
	return &AppError{Code: "bad_token", Message: "invalid session token", Status: 401}
}

func ErrTokenExpired() *AppError {
	return &AppError{Code: "token_expired", Message: "session token expired", Status: 401}
}

func ErrBadSignature() *AppError {
	return &AppError{Code: "bad_signature", Message: "signature does not match wallet", Status: 401}
}

func ErrNoChallenge() *AppError {
	return &AppError{Code: "no_challenge", Message: "no pending challenge for wallet", Status: 401}
}

func ErrChallengeMismatch() *AppError {
	return &AppError{Code: "challenge_mismatch", Message: "nonce or message does not match issued challenge", Status: 401}
}

func ErrChallengeExpired() *AppError {
	return &AppError{Code: "challenge_expired", Message: "challenge expired, request a new one", Status: 401}
}

func ErrOperatorKeyRequired() *AppError {
	return &AppError{Code: "operator_key_required", Message: "missing or wrong operator key", Status: 401}
}

// Authorization errors.

func ErrNotSeated() *AppError {
	return &AppError{Code: "not_seated", Message: "wallet is not seated at the table", Status: 403}
}

func ErrNotShooter() *AppError {
	return &AppError{Code: "not_shooter", Message: "only the current shooter may roll", Status: 403}
}

func ErrNotYourTurn() *AppError {
	return &AppError{Code: "not_your_turn", Message: "action is not on this seat", Status: 403}
}

// Phase errors.

func ErrBadPhase(msg string) *AppError {
	return &AppError{Code: "bad_phase", Message: msg, Status: 409}
}

func ErrCannotAct(msg string) *AppError {
	return &AppError{Code: "cannot_act", Message: msg, Status: 409}
}

func ErrActiveBets() *AppError {
	return &AppError{Code: "active_bets", Message: "cannot leave with active bets on the table", Status: 409}
}

func ErrHandInProgress() *AppError {
	return &AppError{Code: "hand_in_progress", Message: "cannot stand while holding cards in an active hand", Status: 409}
}

// Resource errors.

func ErrInsufficientChips() *AppError {
	return &AppError{Code: "insufficient_chips", Message: "insufficient chips", Status: 400}
}

func ErrBelowMinimum(what, min string) *AppError {
	return &AppError{Code: "below_minimum", Message: fmt.Sprintf("%s below minimum of %s", what, min), Status: 400}
}

func ErrTableFull() *AppError {
	return &AppError{Code: "table_full", Message: "no free seats", Status: 409}
}

func ErrSeatOccupied(seat int) *AppError {
	return &AppError{Code: "seat_occupied", Message: fmt.Sprintf("seat %d is occupied", seat), Status: 409}
}

func ErrBuyInOutOfRange(min, max string) *AppError {
	return &AppError{Code: "buyin_out_of_range", Message: fmt.Sprintf("buy-in must be between %s and %s", min, max), Status: 400}
}

func ErrBetOutOfRange(min, max string) *AppError {
	return &AppError{Code: "bet_out_of_range", Message: fmt.Sprintf("bet must be between %s and %s", min, max), Status: 400}
}

// Duplicate errors.

func ErrDuplicateBet(kind string) *AppError {
	return &AppError{Code: "duplicate_bet", Message: fmt.Sprintf("an active %s bet already exists", kind), Status: 409}
}

func ErrCashoutNotPending(id string) *AppError {
	return &AppError{Code: "cashout_not_pending", Message: fmt.Sprintf("cashout %s is not pending", id), Status: 409}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "not_found", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

// Rate limiting.

func ErrRateLimited(retryAfterSec int) *AppError {
	return &AppError{Code: "rate_limited", Message: fmt.Sprintf("rate limit exceeded, retry in %ds", retryAfterSec), Status: 429}
}

// Server errors.

func ErrJournalWrite(cause error) *AppError {
	return &AppError{Code: "journal_write", Message: "failed to persist ledger state", Status: 500, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "internal_error", Message: msg, Status: 500, Cause: cause}
}
