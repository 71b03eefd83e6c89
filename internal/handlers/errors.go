package handlers

import (
	"errors"
	"net/http"

	"github.com/poolotto/poolotto-backend/internal/engine"
	"github.com/poolotto/poolotto-backend/internal/services"
)

// statusFromError maps engine and service errors to HTTP status codes.
// Validation rejections are 400, liquidity and settlement failures are 409
// because the operation is retryable against the same round.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownTier):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrTierInactive),
		errors.Is(err, engine.ErrAlreadyEntered),
		errors.Is(err, engine.ErrWrongEntryFee),
		errors.Is(err, engine.ErrTierFull),
		errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrRoundNotFull):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInsufficientLiquidity),
		errors.Is(err, engine.ErrTransferFailed),
		errors.Is(err, engine.ErrReentrantCall):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotOperator):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
