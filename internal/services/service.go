package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/poolotto/poolotto-backend/internal/engine"
	"github.com/poolotto/poolotto-backend/internal/models"
)

// LotteryService defines the interface for lottery operations. It serializes
// access to the engine and records the audit trail around it.
type LotteryService interface {
	// Enter admits an account into a tier for exactly the entry fee. A
	// non-nil DrawResult means this admission filled the tier and the draw
	// settled inside the same call.
	Enter(ctx context.Context, tier int, account string, amount int64) (*engine.DrawResult, error)

	// Deposit accepts funds into the custody balance with no side effects.
	Deposit(ctx context.Context, account string, amount int64) error

	// ParticipantCount reports the number of admissions in a tier's live round.
	ParticipantCount(ctx context.Context, tier int) (int, error)

	// HasEntered reports whether an account is admitted in a tier's live round.
	HasEntered(ctx context.Context, tier int, account string) (bool, error)

	// Tiers returns a snapshot of every configured tier.
	Tiers(ctx context.Context) []engine.TierStatus

	// SetTierActive flips the admission gate for a tier (operator operation).
	SetTierActive(ctx context.Context, tier int, active bool) error

	// EmergencyWithdraw sweeps the custody balance to the operator and
	// returns the amount swept (operator operation).
	EmergencyWithdraw(ctx context.Context) (int64, error)

	// RetryDraw re-runs the draw for a full round whose settlement failed
	// (operator operation).
	RetryDraw(ctx context.Context, tier int) (*engine.DrawResult, error)

	// ListDraws retrieves recorded draws, newest first.
	ListDraws(ctx context.Context, page, limit int) ([]*models.Draw, error)

	// GetDrawWinner retrieves the winner record for a draw.
	GetDrawWinner(ctx context.Context, drawID primitive.ObjectID) (*models.Winner, error)

	// ListTransactions retrieves recorded custody movements, newest first.
	ListTransactions(ctx context.Context, page, limit int) ([]*models.Transaction, error)
}

// AuthService defines the interface for operator authentication
type AuthService interface {
	// Login verifies operator credentials and returns a signed token.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)

	// EnsureDefaultOperator seeds the operator login from configuration when
	// the operator_users collection is empty.
	EnsureDefaultOperator(ctx context.Context) error
}
