package services

import "errors"

// Expected failure conditions, surfaced to handlers as typed errors rather
// than panics. Validation errors are never retried; ErrExternalService on
// wallet calls must propagate so the caller can retry with the same
// idempotency key.
var (
	ErrInvalidWager         = errors.New("wager out of range")
	ErrInvalidRisk          = errors.New("risk level out of range")
	ErrInvalidProbability   = errors.New("win probability out of range")
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrSessionAlreadyActive = errors.New("player already has an active game")
	ErrInvalidState         = errors.New("game is not in a valid state for this action")
	ErrSessionNotFound      = errors.New("game not found")
	ErrUnauthorized         = errors.New("not authorized")
	ErrExternalService      = errors.New("external service unavailable")
)
