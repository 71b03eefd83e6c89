package engine

import "time"

// EventType identifies an engine event.
type EventType string

const (
	EventEntered          EventType = "ENTERED"
	EventWinnerSelected   EventType = "WINNER_SELECTED"
	EventFundsDistributed EventType = "FUNDS_DISTRIBUTED"
	EventTierActivated    EventType = "TIER_ACTIVATED"
)

// Event is emitted by the engine after a state change has committed. Events
// for a draw that rolls back are never emitted.
type Event struct {
	Type         EventType `json:"type"`
	Tier         int       `json:"tier,omitempty"`
	Account      Account   `json:"account,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	PrizeAmount  int64     `json:"prizeAmount,omitempty"`
	ProfitAmount int64     `json:"profitAmount,omitempty"`
	Active       bool      `json:"active,omitempty"`
	At           time.Time `json:"at"`
}

// Emitter receives engine events.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Event) {}
