package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poolotto/poolotto-backend/internal/models"
	"github.com/poolotto/poolotto-backend/internal/repositories"
)

// TransactionRepository implements the repositories.TransactionRepository interface
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) repositories.TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
	}
}

// Create creates a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	tx.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, tx)
	return err
}

// FindByAccount finds transaction records for an account with pagination
func (r *TransactionRepository) FindByAccount(ctx context.Context, account string, page, limit int) ([]*models.Transaction, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"account": account}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// FindAll finds all transaction records with pagination
func (r *TransactionRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Transaction, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
