// Package ledger holds the pooled custody balance and per-account balances
// for one lottery deployment.
package ledger

import (
	"errors"
	"fmt"

	"github.com/poolotto/poolotto-backend/internal/engine"
)

// ErrInsufficientCustody is returned when a transfer would drive the custody
// balance negative.
var ErrInsufficientCustody = errors.New("insufficient custody balance")

// ReceiverFunc runs on behalf of an account when it is about to receive a
// transfer. Returning an error rejects the transfer. The hook may call back
// into the engine, which is exactly the control-transfer hazard the engine's
// reset-before-transfer ordering and reentrancy guard defend against.
type ReceiverFunc func(amount int64) error

// Ledger is an in-memory implementation of engine.Ledger. It is owned by a
// single deployment and serialized by the engine's caller; it performs no
// locking of its own.
type Ledger struct {
	custody   int64
	balances  map[engine.Account]int64
	receivers map[engine.Account]ReceiverFunc
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances:  make(map[engine.Account]int64),
		receivers: make(map[engine.Account]ReceiverFunc),
	}
}

// CustodyBalance reports the pooled funds available for payouts.
func (l *Ledger) CustodyBalance() int64 { return l.custody }

// BalanceOf reports the settled balance of an account.
func (l *Ledger) BalanceOf(account engine.Account) int64 { return l.balances[account] }

// Credit adds funds to the custody balance.
func (l *Ledger) Credit(amount int64) { l.custody += amount }

// Transfer moves funds from custody to an account. The account's receiver
// hook, when registered, runs before any balance changes; a hook error
// rejects the transfer and leaves both balances untouched.
func (l *Ledger) Transfer(to engine.Account, amount int64) error {
	if amount > l.custody {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientCustody, l.custody, amount)
	}
	if hook := l.receivers[to]; hook != nil {
		if err := hook(amount); err != nil {
			return fmt.Errorf("recipient %s rejected transfer: %w", to, err)
		}
	}
	l.custody -= amount
	l.balances[to] += amount
	return nil
}

// Reverse undoes a committed Transfer, moving the funds from the account back
// into custody. Receiver hooks do not run on reversal.
func (l *Ledger) Reverse(from engine.Account, amount int64) {
	l.balances[from] -= amount
	l.custody += amount
}

// Sweep moves the entire custody balance to an account, bypassing any
// receiver hook, and returns the amount moved.
func (l *Ledger) Sweep(to engine.Account) int64 {
	swept := l.custody
	l.custody = 0
	l.balances[to] += swept
	return swept
}

// SetReceiver registers a receiver hook for an account. A nil fn removes the
// hook.
func (l *Ledger) SetReceiver(account engine.Account, fn ReceiverFunc) {
	if fn == nil {
		delete(l.receivers, account)
		return
	}
	l.receivers[account] = fn
}
