package engine_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolotto/poolotto-backend/internal/engine"
	"github.com/poolotto/poolotto-backend/internal/ledger"
)

const operator = engine.Account("op")

// smallTier keeps draw tests compact: three entries fill the round.
var smallTier = engine.TierConfig{
	EntryFee:        100,
	PrizeAmount:     150,
	ProfitAmount:    50,
	MaxParticipants: 3,
}

// specTier mirrors the documented tier 1: fee 0.00125, prize 0.025,
// profit 0.0125, cap 100, in smallest units.
var specTier = engine.TierConfig{
	EntryFee:        1_250_000_000_000_000,
	PrizeAmount:     25_000_000_000_000_000,
	ProfitAmount:    12_500_000_000_000_000,
	MaxParticipants: 100,
}

type recordingEmitter struct {
	events []engine.Event
}

func (r *recordingEmitter) Emit(ev engine.Event) { r.events = append(r.events, ev) }

func (r *recordingEmitter) byType(t engine.EventType) []engine.Event {
	var out []engine.Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func newTestEngine(t *testing.T, tiers map[int]engine.TierConfig) (*engine.Engine, *ledger.Ledger, *recordingEmitter) {
	t.Helper()
	led := ledger.New()
	emitter := &recordingEmitter{}
	eng, err := engine.New(engine.Params{
		Operator: operator,
		Identity: "engine-under-test",
		Tiers:    tiers,
		Ledger:   led,
		Emitter:  emitter,
		Now:      func() time.Time { return time.Unix(1_700_000_000, 0) },
		Finality: func() []byte { return []byte("finality-block-42") },
	})
	require.NoError(t, err)
	return eng, led, emitter
}

func account(i int) engine.Account {
	return engine.Account(fmt.Sprintf("player-%03d", i))
}

func TestNew_RejectsBadConfiguration(t *testing.T) {
	led := ledger.New()

	_, err := engine.New(engine.Params{Operator: "", Ledger: led, Tiers: map[int]engine.TierConfig{1: smallTier}})
	assert.Error(t, err)

	_, err = engine.New(engine.Params{Operator: operator, Ledger: nil, Tiers: map[int]engine.TierConfig{1: smallTier}})
	assert.Error(t, err)

	_, err = engine.New(engine.Params{Operator: operator, Ledger: led, Tiers: nil})
	assert.Error(t, err)

	// Payouts exceeding the collectible fees must never be configurable.
	overpromised := engine.TierConfig{EntryFee: 100, PrizeAmount: 250, ProfitAmount: 51, MaxParticipants: 3}
	_, err = engine.New(engine.Params{Operator: operator, Ledger: led, Tiers: map[int]engine.TierConfig{1: overpromised}})
	assert.Error(t, err)
}

func TestEnter_AdmissionChecks(t *testing.T) {
	eng, led, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	_, err := eng.Enter(9, "alice", smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrUnknownTier)

	_, err = eng.Enter(1, "alice", smallTier.EntryFee+1)
	assert.ErrorIs(t, err, engine.ErrWrongEntryFee)

	_, err = eng.Enter(1, "alice", smallTier.EntryFee)
	require.NoError(t, err)

	_, err = eng.Enter(1, "alice", smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrAlreadyEntered)

	require.NoError(t, eng.SetTierActive(operator, 1, false))
	_, err = eng.Enter(1, "bob", smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrTierInactive)

	// Rejections consume nothing: one admission, one fee in custody.
	count, err := eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, smallTier.EntryFee, led.CustodyBalance())
}

func TestEnter_ScenarioTierOne(t *testing.T) {
	eng, led, emitter := newTestEngine(t, map[int]engine.TierConfig{1: specTier})

	// 99 distinct identities enter; no draw fires.
	for i := 0; i < 99; i++ {
		result, err := eng.Enter(1, account(i), specTier.EntryFee)
		require.NoError(t, err)
		require.Nil(t, result)
	}
	count, err := eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 99, count)

	// The 100th admission triggers the draw inside the same call.
	result, err := eng.Enter(1, account(99), specTier.EntryFee)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.Tier)
	assert.Equal(t, 100, result.Participants)
	assert.Equal(t, specTier.PrizeAmount, result.PrizeAmount)
	assert.Equal(t, specTier.ProfitAmount, result.ProfitAmount)

	// Exactly the configured amounts moved: no rounding, no drift.
	assert.Equal(t, specTier.PrizeAmount, led.BalanceOf(result.Winner))
	assert.Equal(t, specTier.ProfitAmount, led.BalanceOf(operator))
	collected := specTier.EntryFee * 100
	assert.Equal(t, collected-specTier.PrizeAmount-specTier.ProfitAmount, led.CustodyBalance())

	// Round cycled: empty and every entered flag cleared.
	count, err = eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	for i := 0; i < 100; i++ {
		entered, err := eng.HasEntered(1, account(i))
		require.NoError(t, err)
		assert.False(t, entered)
	}

	assert.Len(t, emitter.byType(engine.EventEntered), 100)
	require.Len(t, emitter.byType(engine.EventWinnerSelected), 1)
	assert.Equal(t, result.Winner, emitter.byType(engine.EventWinnerSelected)[0].Account)
	assert.Len(t, emitter.byType(engine.EventFundsDistributed), 1)
}

func TestDraw_DeterministicForIdenticalInputs(t *testing.T) {
	winners := make(map[engine.Account]bool)
	for run := 0; run < 2; run++ {
		eng, _, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})
		var result *engine.DrawResult
		for i := 0; i < smallTier.MaxParticipants; i++ {
			var err error
			result, err = eng.Enter(1, account(i), smallTier.EntryFee)
			require.NoError(t, err)
		}
		require.NotNil(t, result)
		winners[result.Winner] = true
	}
	// Same finality hash, timestamp, identity, tier and count select the
	// same winner: the seed is fully reconstructible.
	assert.Len(t, winners, 1)
}

func TestDraw_LiquidityFailureAndRetry(t *testing.T) {
	eng, led, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	for i := 0; i < 2; i++ {
		_, err := eng.Enter(1, account(i), smallTier.EntryFee)
		require.NoError(t, err)
	}

	// Drain custody so the triggered draw cannot settle.
	swept, err := eng.EmergencyWithdraw(operator)
	require.NoError(t, err)
	assert.Equal(t, 2*smallTier.EntryFee, swept)

	_, err = eng.Enter(1, account(2), smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrInsufficientLiquidity)

	// The admission stood; the round is full and untouched by the abort.
	count, err := eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	for i := 0; i < 3; i++ {
		entered, err := eng.HasEntered(1, account(i))
		require.NoError(t, err)
		assert.True(t, entered)
	}

	// A full round admits nobody else.
	_, err = eng.Enter(1, "latecomer", smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrTierFull)

	// Restoring liquidity makes the draw retryable, operator only.
	require.NoError(t, eng.Receive(smallTier.PrizeAmount+smallTier.ProfitAmount))
	_, err = eng.Draw("mallory", 1)
	assert.ErrorIs(t, err, engine.ErrNotOperator)

	result, err := eng.Draw(operator, 1)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, smallTier.PrizeAmount, led.BalanceOf(result.Winner))

	count, err = eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDraw_RetryRequiresFullRound(t *testing.T) {
	eng, _, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	_, err := eng.Enter(1, account(0), smallTier.EntryFee)
	require.NoError(t, err)

	_, err = eng.Draw(operator, 1)
	assert.ErrorIs(t, err, engine.ErrRoundNotFull)

	_, err = eng.Draw(operator, 9)
	assert.ErrorIs(t, err, engine.ErrUnknownTier)
}

func TestDraw_PrizeTransferFailureRollsBack(t *testing.T) {
	eng, led, emitter := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	// Whoever wins rejects the prize; the whole draw must roll back.
	reject := func(amount int64) error { return errors.New("recipient unavailable") }
	for i := 0; i < 3; i++ {
		led.SetReceiver(account(i), reject)
	}

	for i := 0; i < 2; i++ {
		_, err := eng.Enter(1, account(i), smallTier.EntryFee)
		require.NoError(t, err)
	}
	_, err := eng.Enter(1, account(2), smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrTransferFailed)

	// Pre-draw state, exactly: full round, flags set, custody untouched.
	count, err := eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	for i := 0; i < 3; i++ {
		entered, err := eng.HasEntered(1, account(i))
		require.NoError(t, err)
		assert.True(t, entered)
		assert.Equal(t, int64(0), led.BalanceOf(account(i)))
	}
	assert.Equal(t, 3*smallTier.EntryFee, led.CustodyBalance())
	assert.Empty(t, emitter.byType(engine.EventWinnerSelected))

	// Idempotent retry once the recipients accept transfers again.
	for i := 0; i < 3; i++ {
		led.SetReceiver(account(i), nil)
	}
	result, err := eng.Draw(operator, 1)
	require.NoError(t, err)
	assert.Equal(t, smallTier.PrizeAmount, led.BalanceOf(result.Winner))
}

func TestDraw_ProfitTransferFailureRevertsPrize(t *testing.T) {
	eng, led, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	led.SetReceiver(operator, func(amount int64) error {
		return errors.New("operator account frozen")
	})

	for i := 0; i < 2; i++ {
		_, err := eng.Enter(1, account(i), smallTier.EntryFee)
		require.NoError(t, err)
	}
	_, err := eng.Enter(1, account(2), smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrTransferFailed)

	// The committed prize transfer was reversed along with the reset.
	for i := 0; i < 3; i++ {
		assert.Equal(t, int64(0), led.BalanceOf(account(i)))
	}
	assert.Equal(t, int64(0), led.BalanceOf(operator))
	assert.Equal(t, 3*smallTier.EntryFee, led.CustodyBalance())

	count, err := eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	led.SetReceiver(operator, nil)
	result, err := eng.Draw(operator, 1)
	require.NoError(t, err)
	assert.Equal(t, smallTier.PrizeAmount, led.BalanceOf(result.Winner))
	assert.Equal(t, smallTier.ProfitAmount, led.BalanceOf(operator))
}

func TestDraw_ReentrantCallsRejectedDuringSettlement(t *testing.T) {
	eng, led, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	hookRan := false
	hook := func(amount int64) error {
		hookRan = true

		// The round was reset before the transfer, so recipient code
		// observes an already-empty round.
		count, err := eng.ParticipantCount(1)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		// A mutating call from inside settlement is rejected outright.
		_, err = eng.Enter(1, "reentrant", smallTier.EntryFee)
		assert.ErrorIs(t, err, engine.ErrReentrantCall)
		_, err = eng.EmergencyWithdraw(operator)
		assert.ErrorIs(t, err, engine.ErrReentrantCall)

		return nil
	}
	for i := 0; i < 3; i++ {
		led.SetReceiver(account(i), hook)
	}

	for i := 0; i < 2; i++ {
		_, err := eng.Enter(1, account(i), smallTier.EntryFee)
		require.NoError(t, err)
	}
	result, err := eng.Enter(1, account(2), smallTier.EntryFee)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, hookRan)
	assert.Equal(t, smallTier.PrizeAmount, led.BalanceOf(result.Winner))
}

func TestSetTierActive_GatesNewEntriesOnly(t *testing.T) {
	eng, _, emitter := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	_, err := eng.Enter(1, account(0), smallTier.EntryFee)
	require.NoError(t, err)

	err = eng.SetTierActive("mallory", 1, false)
	assert.ErrorIs(t, err, engine.ErrNotOperator)

	err = eng.SetTierActive(operator, 9, false)
	assert.ErrorIs(t, err, engine.ErrUnknownTier)

	require.NoError(t, eng.SetTierActive(operator, 1, false))
	_, err = eng.Enter(1, account(1), smallTier.EntryFee)
	assert.ErrorIs(t, err, engine.ErrTierInactive)

	// Deactivation never evicts admitted participants.
	count, err := eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	entered, err := eng.HasEntered(1, account(0))
	require.NoError(t, err)
	assert.True(t, entered)

	require.NoError(t, eng.SetTierActive(operator, 1, true))
	_, err = eng.Enter(1, account(1), smallTier.EntryFee)
	require.NoError(t, err)

	activations := emitter.byType(engine.EventTierActivated)
	require.Len(t, activations, 2)
	assert.False(t, activations[0].Active)
	assert.True(t, activations[1].Active)
}

func TestEmergencyWithdraw_SweepsCustody(t *testing.T) {
	eng, led, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	require.NoError(t, eng.Receive(1_000))
	_, err := eng.Enter(1, account(0), smallTier.EntryFee)
	require.NoError(t, err)

	_, err = eng.EmergencyWithdraw("mallory")
	assert.ErrorIs(t, err, engine.ErrNotOperator)

	swept, err := eng.EmergencyWithdraw(operator)
	require.NoError(t, err)
	assert.Equal(t, 1_000+smallTier.EntryFee, swept)
	assert.Equal(t, int64(0), led.CustodyBalance())
	assert.Equal(t, 1_000+smallTier.EntryFee, led.BalanceOf(operator))
}

func TestReceive_AcceptsFundsWithoutSideEffects(t *testing.T) {
	eng, led, emitter := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	require.NoError(t, eng.Receive(500))
	assert.Equal(t, int64(500), led.CustodyBalance())

	assert.ErrorIs(t, eng.Receive(0), engine.ErrInvalidAmount)
	assert.ErrorIs(t, eng.Receive(-5), engine.ErrInvalidAmount)

	count, err := eng.ParticipantCount(1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, emitter.events)
}

func TestTierStatuses_SnapshotOrderedByTier(t *testing.T) {
	eng, _, _ := newTestEngine(t, map[int]engine.TierConfig{2: specTier, 1: smallTier})

	_, err := eng.Enter(1, account(0), smallTier.EntryFee)
	require.NoError(t, err)
	require.NoError(t, eng.SetTierActive(operator, 2, false))

	statuses := eng.TierStatuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, 1, statuses[0].Tier)
	assert.Equal(t, 1, statuses[0].Participants)
	assert.True(t, statuses[0].Active)
	assert.Equal(t, 2, statuses[1].Tier)
	assert.Equal(t, 0, statuses[1].Participants)
	assert.False(t, statuses[1].Active)
}

func TestViews_RejectUnknownTier(t *testing.T) {
	eng, _, _ := newTestEngine(t, map[int]engine.TierConfig{1: smallTier})

	_, err := eng.ParticipantCount(9)
	assert.ErrorIs(t, err, engine.ErrUnknownTier)
	_, err = eng.HasEntered(9, "alice")
	assert.ErrorIs(t, err, engine.ErrUnknownTier)
}
