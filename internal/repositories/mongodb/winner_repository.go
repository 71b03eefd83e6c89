package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poolotto/poolotto-backend/internal/models"
	"github.com/poolotto/poolotto-backend/internal/repositories"
)

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) repositories.WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// Create creates a new winner record
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	winner.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, winner)
	return err
}

// FindByDrawID finds the winner record for a draw
func (r *WinnerRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) (*models.Winner, error) {
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"drawId": drawID}).Decode(&winner)
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

// FindByAccount finds winner records for an account with pagination
func (r *WinnerRepository) FindByAccount(ctx context.Context, account string, page, limit int) ([]*models.Winner, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"wonAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"account": account}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}
