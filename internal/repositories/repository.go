package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/poolotto/poolotto-backend/internal/models"
)

// EntryRepository defines the interface for entry audit records
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	FindByTier(ctx context.Context, tier int, page, limit int) ([]*models.Entry, error)
	Count(ctx context.Context) (int64, error)
}

// DrawRepository defines the interface for draw audit records
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	FindByTier(ctx context.Context, tier int, page, limit int) ([]*models.Draw, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Draw, error)
	Count(ctx context.Context) (int64, error)
}

// WinnerRepository defines the interface for winner audit records
type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) (*models.Winner, error)
	FindByAccount(ctx context.Context, account string, page, limit int) ([]*models.Winner, error)
}

// TransactionRepository defines the interface for custody movement records
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByAccount(ctx context.Context, account string, page, limit int) ([]*models.Transaction, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Transaction, error)
}

// OperatorUserRepository defines the interface for operator backend logins
type OperatorUserRepository interface {
	Create(ctx context.Context, user *models.OperatorUser) error
	FindByUsername(ctx context.Context, username string) (*models.OperatorUser, error)
	Count(ctx context.Context) (int64, error)
}
