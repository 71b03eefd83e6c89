package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"

	"github.com/poolotto/poolotto-backend/internal/engine"
	"github.com/poolotto/poolotto-backend/internal/models"
	"github.com/poolotto/poolotto-backend/internal/repositories"
)

// Compile-time check to ensure LotteryServiceImpl implements LotteryService
var _ LotteryService = (*LotteryServiceImpl)(nil)

// LotteryServiceImpl serializes all engine access behind a mutex (the
// engine itself is not safe for concurrent use) and writes the audit trail
// after each committed operation. Audit writes are best-effort: a Mongo
// failure is logged, never rolled into the engine result.
type LotteryServiceImpl struct {
	mu       sync.Mutex
	engine   *engine.Engine
	operator string

	entryRepo  repositories.EntryRepository
	drawRepo   repositories.DrawRepository
	winnerRepo repositories.WinnerRepository
	txRepo     repositories.TransactionRepository
}

// NewLotteryService creates a new LotteryServiceImpl
func NewLotteryService(
	eng *engine.Engine,
	entryRepo repositories.EntryRepository,
	drawRepo repositories.DrawRepository,
	winnerRepo repositories.WinnerRepository,
	txRepo repositories.TransactionRepository,
) *LotteryServiceImpl {
	return &LotteryServiceImpl{
		engine:     eng,
		operator:   string(eng.Operator()),
		entryRepo:  entryRepo,
		drawRepo:   drawRepo,
		winnerRepo: winnerRepo,
		txRepo:     txRepo,
	}
}

// Enter admits an account into a tier and settles the draw when the admission
// fills the round. An ErrInsufficientLiquidity or ErrTransferFailed error
// means the admission itself stood; only the triggered draw failed.
func (s *LotteryServiceImpl) Enter(ctx context.Context, tier int, account string, amount int64) (*engine.DrawResult, error) {
	s.mu.Lock()
	result, err := s.engine.Enter(tier, engine.Account(account), amount)
	s.mu.Unlock()

	if err != nil && !admissionCommitted(err) {
		return nil, err
	}

	entry := &models.Entry{
		Tier:      tier,
		Account:   account,
		Amount:    amount,
		EnteredAt: time.Now(),
	}
	if aerr := s.entryRepo.Create(ctx, entry); aerr != nil {
		slog.Warn("failed to record entry", "error", aerr, "tier", tier, "account", account)
	}
	s.recordTransaction(ctx, models.TransactionEntryFee, account, amount, tier, primitive.NilObjectID)

	if result != nil {
		s.recordDraw(ctx, result)
	}
	return result, err
}

// admissionCommitted distinguishes draw-settlement failures, which leave the
// triggering admission in place, from validation rejections, which do not.
func admissionCommitted(err error) bool {
	return errors.Is(err, engine.ErrInsufficientLiquidity) ||
		errors.Is(err, engine.ErrTransferFailed)
}

// Deposit accepts selector-less funds into custody.
func (s *LotteryServiceImpl) Deposit(ctx context.Context, account string, amount int64) error {
	s.mu.Lock()
	err := s.engine.Receive(amount)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.recordTransaction(ctx, models.TransactionDeposit, account, amount, 0, primitive.NilObjectID)
	return nil
}

// ParticipantCount reports the number of admissions in a tier's live round.
func (s *LotteryServiceImpl) ParticipantCount(ctx context.Context, tier int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ParticipantCount(tier)
}

// HasEntered reports whether an account is admitted in a tier's live round.
func (s *LotteryServiceImpl) HasEntered(ctx context.Context, tier int, account string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.HasEntered(tier, engine.Account(account))
}

// Tiers returns a snapshot of every configured tier.
func (s *LotteryServiceImpl) Tiers(ctx context.Context) []engine.TierStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.TierStatuses()
}

// SetTierActive flips the admission gate for a tier.
func (s *LotteryServiceImpl) SetTierActive(ctx context.Context, tier int, active bool) error {
	s.mu.Lock()
	err := s.engine.SetTierActive(engine.Account(s.operator), tier, active)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	slog.Info("tier admission gate changed", "tier", tier, "active", active)
	return nil
}

// EmergencyWithdraw sweeps the custody balance to the operator.
func (s *LotteryServiceImpl) EmergencyWithdraw(ctx context.Context) (int64, error) {
	s.mu.Lock()
	amount, err := s.engine.EmergencyWithdraw(engine.Account(s.operator))
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	s.recordTransaction(ctx, models.TransactionSweep, s.operator, amount, 0, primitive.NilObjectID)
	slog.Warn("custody balance swept to operator", "amount", amount)
	return amount, nil
}

// RetryDraw re-runs the draw for a full round whose settlement failed.
func (s *LotteryServiceImpl) RetryDraw(ctx context.Context, tier int) (*engine.DrawResult, error) {
	s.mu.Lock()
	result, err := s.engine.Draw(engine.Account(s.operator), tier)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.recordDraw(ctx, result)
	return result, nil
}

// ListDraws retrieves recorded draws, newest first.
func (s *LotteryServiceImpl) ListDraws(ctx context.Context, page, limit int) ([]*models.Draw, error) {
	return s.drawRepo.FindAll(ctx, page, limit)
}

// GetDrawWinner retrieves the winner record for a draw.
func (s *LotteryServiceImpl) GetDrawWinner(ctx context.Context, drawID primitive.ObjectID) (*models.Winner, error) {
	return s.winnerRepo.FindByDrawID(ctx, drawID)
}

// ListTransactions retrieves recorded custody movements, newest first.
func (s *LotteryServiceImpl) ListTransactions(ctx context.Context, page, limit int) ([]*models.Transaction, error) {
	return s.txRepo.FindAll(ctx, page, limit)
}

// recordDraw persists the draw, winner and payout transactions for a settled
// draw.
func (s *LotteryServiceImpl) recordDraw(ctx context.Context, res *engine.DrawResult) {
	draw := &models.Draw{
		Tier:         res.Tier,
		Winner:       string(res.Winner),
		PrizeAmount:  res.PrizeAmount,
		ProfitAmount: res.ProfitAmount,
		Participants: res.Participants,
		DrawnAt:      res.DrawnAt,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		slog.Warn("failed to record draw", "error", err, "tier", res.Tier, "winner", res.Winner)
		return
	}

	winner := &models.Winner{
		Account:     string(res.Winner),
		DrawID:      draw.ID,
		Tier:        res.Tier,
		PrizeAmount: res.PrizeAmount,
		WonAt:       res.DrawnAt,
	}
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		slog.Warn("failed to record winner", "error", err, "drawId", draw.ID.Hex())
	}

	s.recordTransaction(ctx, models.TransactionPrize, string(res.Winner), res.PrizeAmount, res.Tier, draw.ID)
	s.recordTransaction(ctx, models.TransactionProfit, s.operator, res.ProfitAmount, res.Tier, draw.ID)

	slog.Info("draw settled",
		"tier", res.Tier,
		"winner", res.Winner,
		"prizeAmount", res.PrizeAmount,
		"profitAmount", res.ProfitAmount,
		"participants", res.Participants,
	)
}

func (s *LotteryServiceImpl) recordTransaction(ctx context.Context, txType models.TransactionType, account string, amount int64, tier int, drawID primitive.ObjectID) {
	tx := &models.Transaction{
		Type:    txType,
		Account: account,
		Amount:  amount,
		Tier:    tier,
		DrawID:  drawID,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		slog.Warn("failed to record transaction", "error", err, "type", txType, "account", account)
	}
}
