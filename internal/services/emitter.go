package services

import (
	"golang.org/x/exp/slog"

	"github.com/poolotto/poolotto-backend/internal/engine"
	"github.com/poolotto/poolotto-backend/internal/utils"
)

// LogEmitter writes engine events to the structured log.
type LogEmitter struct{}

// NewLogEmitter creates a new LogEmitter
func NewLogEmitter() *LogEmitter {
	return &LogEmitter{}
}

// Emit logs one engine event
func (e *LogEmitter) Emit(ev engine.Event) {
	switch ev.Type {
	case engine.EventEntered:
		slog.Info("entry admitted",
			"tier", ev.Tier,
			"account", ev.Account,
			"fee", utils.FormatTokens(ev.Amount),
		)
	case engine.EventWinnerSelected:
		slog.Info("winner selected",
			"tier", ev.Tier,
			"winner", ev.Account,
			"prize", utils.FormatTokens(ev.PrizeAmount),
		)
	case engine.EventFundsDistributed:
		slog.Info("funds distributed",
			"tier", ev.Tier,
			"prize", utils.FormatTokens(ev.PrizeAmount),
			"profit", utils.FormatTokens(ev.ProfitAmount),
		)
	case engine.EventTierActivated:
		slog.Info("tier activation changed", "tier", ev.Tier, "active", ev.Active)
	}
}
