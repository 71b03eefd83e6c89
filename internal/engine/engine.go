// Package engine implements the tiered pooled-entry lottery state machine:
// entry admission, the capacity-triggered draw, winner selection, fund
// settlement against a custody ledger, and round reset.
package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"time"
)

// Account identifies a participant, the operator, or any payout recipient.
type Account string

// TierConfig is the immutable configuration of one lottery tier. All amounts
// are in the custody token's smallest unit.
type TierConfig struct {
	EntryFee        int64 `json:"entryFee"`
	PrizeAmount     int64 `json:"prizeAmount"`
	ProfitAmount    int64 `json:"profitAmount"`
	MaxParticipants int   `json:"maxParticipants"`
}

// Validate checks that the tier can always cover its own payouts: the prize
// and profit together must not exceed the fees collectible in one round.
func (c TierConfig) Validate() error {
	if c.EntryFee <= 0 {
		return fmt.Errorf("entry fee must be positive, got %d", c.EntryFee)
	}
	if c.MaxParticipants <= 0 {
		return fmt.Errorf("max participants must be positive, got %d", c.MaxParticipants)
	}
	if c.PrizeAmount < 0 || c.ProfitAmount < 0 {
		return fmt.Errorf("prize and profit amounts must not be negative")
	}
	if c.PrizeAmount+c.ProfitAmount > c.EntryFee*int64(c.MaxParticipants) {
		return fmt.Errorf("payouts %d exceed collectible fees %d",
			c.PrizeAmount+c.ProfitAmount, c.EntryFee*int64(c.MaxParticipants))
	}
	return nil
}

// Ledger is the pooled custody balance the engine settles against. A Transfer
// may run recipient-supplied code (a receiver hook) before committing, which
// is the reentrancy hazard the engine defends against.
type Ledger interface {
	// CustodyBalance reports the funds available for payouts.
	CustodyBalance() int64
	// Credit adds funds to the custody balance.
	Credit(amount int64)
	// Transfer moves funds from custody to an account. It must either fully
	// commit or leave both balances untouched and return an error.
	Transfer(to Account, amount int64) error
	// Reverse undoes a committed Transfer, moving funds back into custody.
	Reverse(from Account, amount int64)
	// Sweep moves the entire custody balance to an account and returns the
	// amount moved.
	Sweep(to Account) int64
}

// DrawResult describes a completed draw.
type DrawResult struct {
	Tier         int       `json:"tier"`
	Winner       Account   `json:"winner"`
	PrizeAmount  int64     `json:"prizeAmount"`
	ProfitAmount int64     `json:"profitAmount"`
	Participants int       `json:"participants"`
	DrawnAt      time.Time `json:"drawnAt"`
}

// TierStatus is a read-only snapshot of one tier's live round.
type TierStatus struct {
	Tier         int        `json:"tier"`
	Config       TierConfig `json:"config"`
	Participants int        `json:"participants"`
	Active       bool       `json:"active"`
}

type tierRound struct {
	participants []Account
	entered      map[Account]bool
	active       bool
}

// Params configures a new Engine.
type Params struct {
	// Operator receives profit payouts and may call the restricted
	// operations.
	Operator Account
	// Identity is a stable deployment identifier mixed into the draw seed,
	// standing in for the contract address of the original scheme.
	Identity string
	// Tiers maps tier id to its immutable configuration.
	Tiers map[int]TierConfig
	// Ledger holds the pooled custody balance.
	Ledger Ledger
	// Emitter receives engine events. Optional; defaults to NoopEmitter.
	Emitter Emitter
	// Now overrides the time source. Optional; used in tests.
	Now func() time.Time
	// Finality returns the most recent finalization hash observed by the
	// deployment. It is the block-hash component of the draw seed and is
	// expected to be publicly reconstructible. Optional.
	Finality func() []byte
}

// Engine owns all lottery state for one deployment. Methods are not safe for
// concurrent use; callers serialize access (the service layer holds a mutex
// around every call). The busy guard below is not a substitute for that: it
// exists to reject reentrant mutating calls issued from payout receiver hooks
// while a draw is settling, which would otherwise observe the engine
// mid-operation or deadlock on an ordinary mutex.
type Engine struct {
	operator Account
	identity string
	tiers    map[int]TierConfig
	rounds   map[int]*tierRound
	ledger   Ledger
	emitter  Emitter
	nowFn    func() time.Time
	finality func() []byte
	busy     bool
}

// New constructs an engine with one live, active round per configured tier.
func New(p Params) (*Engine, error) {
	if p.Operator == "" {
		return nil, fmt.Errorf("engine: operator account is required")
	}
	if p.Ledger == nil {
		return nil, fmt.Errorf("engine: ledger is required")
	}
	if len(p.Tiers) == 0 {
		return nil, fmt.Errorf("engine: at least one tier is required")
	}
	for id, cfg := range p.Tiers {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("engine: tier %d: %w", id, err)
		}
	}

	e := &Engine{
		operator: p.Operator,
		identity: p.Identity,
		tiers:    make(map[int]TierConfig, len(p.Tiers)),
		rounds:   make(map[int]*tierRound, len(p.Tiers)),
		ledger:   p.Ledger,
		emitter:  p.Emitter,
		nowFn:    p.Now,
		finality: p.Finality,
	}
	if e.emitter == nil {
		e.emitter = NoopEmitter{}
	}
	if e.nowFn == nil {
		e.nowFn = time.Now
	}
	if e.finality == nil {
		e.finality = systemFinality
	}
	for id, cfg := range p.Tiers {
		e.tiers[id] = cfg
		e.rounds[id] = &tierRound{entered: make(map[Account]bool), active: true}
	}
	return e, nil
}

// Operator returns the configured operator account.
func (e *Engine) Operator() Account { return e.operator }

func (e *Engine) begin() error {
	if e.busy {
		return ErrReentrantCall
	}
	e.busy = true
	return nil
}

func (e *Engine) end() { e.busy = false }

// Enter admits payer into a tier's live round for exactly the tier entry fee.
// When the admission fills the round the draw runs synchronously inside the
// same call and its result is returned.
//
// Validation errors leave the engine untouched. ErrInsufficientLiquidity or
// ErrTransferFailed mean the admission itself committed but the triggered
// draw did not; the round stays full and the draw can be retried.
func (e *Engine) Enter(tier int, payer Account, amount int64) (*DrawResult, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	cfg, ok := e.tiers[tier]
	if !ok {
		return nil, ErrUnknownTier
	}
	round := e.rounds[tier]
	if !round.active {
		return nil, ErrTierInactive
	}
	if round.entered[payer] {
		return nil, ErrAlreadyEntered
	}
	if amount != cfg.EntryFee {
		return nil, ErrWrongEntryFee
	}
	if len(round.participants) >= cfg.MaxParticipants {
		return nil, ErrTierFull
	}

	e.ledger.Credit(cfg.EntryFee)
	round.participants = append(round.participants, payer)
	round.entered[payer] = true
	e.emitter.Emit(Event{
		Type:    EventEntered,
		Tier:    tier,
		Account: payer,
		Amount:  amount,
		At:      e.nowFn(),
	})

	if len(round.participants) == cfg.MaxParticipants {
		return e.draw(tier)
	}
	return nil, nil
}

// Draw retries the draw for a round that filled up but failed to settle,
// after a liquidity shortfall or a rejected payout. Operator only; the round
// must still be at its participant cap.
func (e *Engine) Draw(caller Account, tier int) (*DrawResult, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	if caller != e.operator {
		return nil, ErrNotOperator
	}
	cfg, ok := e.tiers[tier]
	if !ok {
		return nil, ErrUnknownTier
	}
	if len(e.rounds[tier].participants) < cfg.MaxParticipants {
		return nil, ErrRoundNotFull
	}
	return e.draw(tier)
}

// draw selects a winner, settles the prize and profit payouts, and cycles the
// round. The round reset happens before any transfer so that recipient code
// running during a payout observes an already-empty round; a failed transfer
// rolls the whole draw back, reset included.
func (e *Engine) draw(tier int) (*DrawResult, error) {
	cfg := e.tiers[tier]
	round := e.rounds[tier]
	count := len(round.participants)

	total := cfg.PrizeAmount + cfg.ProfitAmount
	if e.ledger.CustodyBalance() < total {
		return nil, fmt.Errorf("%w: have %d, need %d",
			ErrInsufficientLiquidity, e.ledger.CustodyBalance(), total)
	}

	winner := round.participants[e.winningIndex(tier, count)]

	prevParticipants := round.participants
	prevEntered := round.entered
	round.participants = nil
	round.entered = make(map[Account]bool)
	restore := func() {
		round.participants = prevParticipants
		round.entered = prevEntered
	}

	if err := e.ledger.Transfer(winner, cfg.PrizeAmount); err != nil {
		restore()
		return nil, fmt.Errorf("%w: prize payout to %s: %v", ErrTransferFailed, winner, err)
	}
	if err := e.ledger.Transfer(e.operator, cfg.ProfitAmount); err != nil {
		e.ledger.Reverse(winner, cfg.PrizeAmount)
		restore()
		return nil, fmt.Errorf("%w: profit payout: %v", ErrTransferFailed, err)
	}

	now := e.nowFn()
	e.emitter.Emit(Event{
		Type:        EventWinnerSelected,
		Tier:        tier,
		Account:     winner,
		PrizeAmount: cfg.PrizeAmount,
		At:          now,
	})
	e.emitter.Emit(Event{
		Type:         EventFundsDistributed,
		Tier:         tier,
		PrizeAmount:  cfg.PrizeAmount,
		ProfitAmount: cfg.ProfitAmount,
		At:           now,
	})

	return &DrawResult{
		Tier:         tier,
		Winner:       winner,
		PrizeAmount:  cfg.PrizeAmount,
		ProfitAmount: cfg.ProfitAmount,
		Participants: count,
		DrawnAt:      now,
	}, nil
}

// winningIndex derives the winner position from the recent finalization hash,
// the current timestamp, the deployment identity, the tier and the
// participant count. Every input is publicly observable, so the selection is
// predictable by the party that triggers the draw; that weakness is inherited
// from the original scheme on purpose.
func (e *Engine) winningIndex(tier, count int) int {
	seed := fmt.Sprintf("%x-%d-%s-%d-%d",
		e.finality(), e.nowFn().Unix(), e.identity, tier, count)
	sum := sha256.Sum256([]byte(seed))
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(count))
}

// systemFinality is the default finality source: a hash over the wall clock.
func systemFinality() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(time.Now().UnixNano()))
	sum := sha256.Sum256(b[:])
	return sum[:]
}

// ParticipantCount reports the number of admissions in a tier's live round.
func (e *Engine) ParticipantCount(tier int) (int, error) {
	round, ok := e.rounds[tier]
	if !ok {
		return 0, ErrUnknownTier
	}
	return len(round.participants), nil
}

// HasEntered reports whether an account is admitted in a tier's live round.
func (e *Engine) HasEntered(tier int, account Account) (bool, error) {
	round, ok := e.rounds[tier]
	if !ok {
		return false, ErrUnknownTier
	}
	return round.entered[account], nil
}

// TierStatuses returns a snapshot of every tier, ordered by tier id.
func (e *Engine) TierStatuses() []TierStatus {
	ids := make([]int, 0, len(e.tiers))
	for id := range e.tiers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	statuses := make([]TierStatus, 0, len(ids))
	for _, id := range ids {
		round := e.rounds[id]
		statuses = append(statuses, TierStatus{
			Tier:         id,
			Config:       e.tiers[id],
			Participants: len(round.participants),
			Active:       round.active,
		})
	}
	return statuses
}

// SetTierActive flips the admission gate for a tier. Operator only. The gate
// affects new entries only; participants already admitted stay in the round.
func (e *Engine) SetTierActive(caller Account, tier int, active bool) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if caller != e.operator {
		return ErrNotOperator
	}
	round, ok := e.rounds[tier]
	if !ok {
		return ErrUnknownTier
	}
	round.active = active
	e.emitter.Emit(Event{
		Type:   EventTierActivated,
		Tier:   tier,
		Active: active,
		At:     e.nowFn(),
	})
	return nil
}

// EmergencyWithdraw sweeps the entire custody balance to the operator and
// returns the amount swept. Operator only. Full rounds may afterwards be
// unable to settle until the balance is restored; that is an accepted
// operational risk.
func (e *Engine) EmergencyWithdraw(caller Account) (int64, error) {
	if err := e.begin(); err != nil {
		return 0, err
	}
	defer e.end()

	if caller != e.operator {
		return 0, ErrNotOperator
	}
	return e.ledger.Sweep(e.operator), nil
}

// Receive accepts funds sent to the engine without an operation, crediting
// them to the custody balance with no other side effects.
func (e *Engine) Receive(amount int64) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if amount <= 0 {
		return ErrInvalidAmount
	}
	e.ledger.Credit(amount)
	return nil
}
